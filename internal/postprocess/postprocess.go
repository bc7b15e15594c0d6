// Package postprocess normalizes freshly emitted source files so they conform
// to the target style guide. Every rewrite is a pure string transform applied
// once, in a fixed order, over the whole file content.
package postprocess

import (
	"fmt"
	"os"
	"strings"
)

// Rule is one named text-rewrite applied by Normalize.
type Rule struct {
	Name  string
	Apply func(string) string
}

func replaceAll(old, new string) func(string) string {
	return func(s string) string { return strings.ReplaceAll(s, old, new) }
}

// rules is the ordered rewrite list. Each rule targets a literal pattern
// disjoint from the others and removes its own pattern from the output, so
// the combined pass is idempotent. Rules 1-6 match the tab-indented form the
// generators emit; rule 7 converts tabs last.
var rules = []Rule{
	{
		// An auto-property closing brace needs no statement terminator.
		Name:  "collapse-stray-property-terminator",
		Apply: replaceAll("{ get; set; };", "{ get; set; }"),
	},
	{
		// Doubled blank line after a statement at member-body indentation.
		Name:  "collapse-blank-after-statement",
		Apply: replaceAll(";\n\n\n\t\t", ";\n\n\t\t"),
	},
	{
		// Doubled blank line after an opening brace one level deeper.
		Name:  "collapse-blank-after-brace",
		Apply: replaceAll("{\n\n\n\t\t\t", "{\n\n\t\t\t"),
	},
	{
		// Separate a generated statement run from the conditional that follows.
		Name:  "blank-before-conditional",
		Apply: replaceAll(";\n\t\tif", ";\n\n\t\tif"),
	},
	{
		// Separate a closed block from the builder-append call that follows.
		Name:  "blank-before-builder-append",
		Apply: replaceAll("}\n\t\t\tsb.Append(", "}\n\n\t\t\tsb.Append("),
	},
	{
		// Read-only auto-property declared across three lines becomes one.
		Name:  "collapse-readonly-property",
		Apply: replaceAll("{\n\t\t\tget;\n\t\t}", "{ get; }"),
	},
	{
		Name:  "tabs-to-spaces",
		Apply: replaceAll("\t", "    "),
	},
}

// widenAccessRule converts internally scoped generated members into
// externally overridable ones. Applied after the ordered rules, and only to
// the entities artifact.
var widenAccessRule = Rule{
	Name:  "widen-access",
	Apply: replaceAll("internal static", "public virtual"),
}

// Rewrite applies the full ordered rule list to content and returns the
// result. Exposed separately from Normalize so each rule is testable against
// literal fixtures without touching the filesystem.
func Rewrite(content string, widenAccess bool) string {
	for _, r := range rules {
		content = r.Apply(content)
	}
	if widenAccess {
		content = widenAccessRule.Apply(content)
	}
	return content
}

// Normalize rewrites the file at path in place.
func Normalize(path string, widenAccess bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("postprocess read %s: %w", path, err)
	}
	out := Rewrite(string(data), widenAccess)
	if out == string(data) {
		return nil
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("postprocess write %s: %w", path, err)
	}
	return nil
}
