package naming

import (
	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NameFormat carries the identifier-shaping settings for one run: whether
// table names are pluralized/singularized, the casing policy, and the culture
// used for case-insensitive identifier comparisons. Built once from the run
// configuration and immutable afterwards.
type NameFormat struct {
	Pluralize bool
	Case      CasePolicy
	Culture   language.Tag
}

// NewNameFormat builds a NameFormat from raw configuration values. An empty
// or unparseable culture falls back to English.
func NewNameFormat(pluralize bool, caseValue, culture string) NameFormat {
	tag := language.English
	if culture != "" {
		if parsed, err := language.Parse(culture); err == nil {
			tag = parsed
		}
	}
	return NameFormat{
		Pluralize: pluralize,
		Case:      ResolveCase(caseValue),
		Culture:   tag,
	}
}

// Ident shapes a raw column or parameter name into a member identifier.
func (f NameFormat) Ident(raw string) string {
	return f.Case.apply(raw, f.Culture)
}

// TypeName shapes a raw table name into an entity type name. With Pluralize
// enabled a plural table name yields a singular type ("Customers" ->
// "Customer").
func (f NameFormat) TypeName(raw string) string {
	if f.Pluralize {
		raw = inflect.Singularize(raw)
	}
	return f.Case.apply(raw, f.Culture)
}

// SetName shapes a raw table name into a collection member name. With
// Pluralize enabled the result is always plural.
func (f NameFormat) SetName(raw string) string {
	if f.Pluralize {
		raw = inflect.Pluralize(raw)
	}
	return f.Case.apply(raw, f.Culture)
}

// Equal compares two identifiers case-insensitively under the configured
// culture.
func (f NameFormat) Equal(a, b string) bool {
	lower := cases.Lower(f.Culture)
	return lower.String(a) == lower.String(b)
}
