package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CasePolicy is one of the closed set of identifier-casing conventions a run
// can request.
type CasePolicy int

const (
	// CaseLeave applies no transformation.
	CaseLeave CasePolicy = iota
	// CaseCamel produces camelCase identifiers.
	CaseCamel
	// CasePascal produces PascalCase identifiers. This is the default.
	CasePascal
	// CaseNet is the fallback policy for unrecognized configuration values:
	// PascalCase with the .NET convention of keeping one- and two-letter
	// acronyms fully uppercase (Id -> ID, Io -> IO).
	CaseNet
)

func (p CasePolicy) String() string {
	switch p {
	case CaseLeave:
		return "leave"
	case CaseCamel:
		return "camel"
	case CasePascal:
		return "pascal"
	default:
		return "net"
	}
}

// ResolveCase maps a configuration string to a CasePolicy, case-insensitively.
// An empty value defaults to PascalCase. Unrecognized values map to CaseNet
// rather than erroring.
func ResolveCase(value string) CasePolicy {
	switch strings.ToLower(value) {
	case "leave":
		return CaseLeave
	case "camel":
		return CaseCamel
	case "pascal", "":
		return CasePascal
	default:
		return CaseNet
	}
}

// apply rewrites a raw identifier under the policy. The culture tag drives
// title-casing for CaseNet; the explicit policies are culture-independent.
func (p CasePolicy) apply(raw string, culture language.Tag) string {
	switch p {
	case CaseLeave:
		return raw
	case CaseCamel:
		return inflect.CamelizeDownFirst(inflect.Underscore(raw))
	case CasePascal:
		return inflect.Camelize(inflect.Underscore(raw))
	default:
		return netCase(raw, culture)
	}
}

// netCase title-cases each word and uppercases words of one or two letters,
// matching the .NET capitalization guideline for short acronyms.
func netCase(raw string, culture language.Tag) string {
	title := cases.Title(culture)
	words := strings.Split(inflect.Underscore(raw), "_")
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		if len(w) <= 2 {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}
