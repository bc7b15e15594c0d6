// Package csharp is the baseline generator: it renders the schema model into
// C# data-access artifacts (EF context, entities, repository layer) using
// text templates. Output is emitted in the raw tab-indented form the
// post-processor normalizes.
package csharp

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/go-openapi/inflect"

	"github.com/scaffolddb/scaffold/internal/codegen"
	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// Generator implements codegen.Generator for C#.
type Generator struct {
	tmpl *template.Template
}

// New builds the C# generator with its template set parsed.
func New() *Generator {
	funcs := template.FuncMap{
		"csType":         csType,
		"csParams":       csParams,
		"csArgs":         csArgs,
		"csPlaceholders": csPlaceholders,
		"lowerFirst":     inflect.CamelizeDownFirst,
	}
	t := template.Must(template.New("csharp").Funcs(funcs).Parse(artifactTemplates))
	return &Generator{tmpl: t}
}

// Language returns the generator's language code.
func (g *Generator) Language() string { return "cs" }

// Extensions returns the file extensions this generator claims.
func (g *Generator) Extensions() []string { return []string{".cs"} }

// Emit renders one artifact kind into w.
func (g *Generator) Emit(w io.Writer, kind naming.ArtifactKind, db *model.Database, opts codegen.Options) error {
	data := buildData(db, opts)
	name, ok := templateNames[kind]
	if !ok {
		return fmt.Errorf("unknown artifact kind %q", kind)
	}
	return g.tmpl.ExecuteTemplate(w, name, data)
}

var templateNames = map[naming.ArtifactKind]string{
	naming.KindContext:             "context",
	naming.KindEntities:            "entities",
	naming.KindRepositoryInterface: "repository-interface",
	naming.KindRepository:          "repository",
	naming.KindMockRepository:      "mock-repository",
}

// fileData is the view model shared by all artifact templates.
type fileData struct {
	Namespace     string
	Class         string
	RepoClass     string
	RepoInterface string
	MockClass     string
	Provider      string
	Tables        []tableData
	Functions     []model.Function
}

type tableData struct {
	TableName    string
	ClassName    string
	SetName      string
	Columns      []model.Column
	Associations []assocData
}

type assocData struct {
	Member   string
	TypeName string
	Many     bool
}

func buildData(db *model.Database, opts codegen.Options) fileData {
	repoBase := strings.ReplaceAll(db.Class, "Context", "Repository")

	data := fileData{
		Namespace:     opts.Namespace,
		Class:         db.Class,
		RepoClass:     repoBase,
		RepoInterface: "I" + repoBase,
		MockClass:     "Mock" + repoBase,
		Provider:      db.Provider,
	}
	if data.Namespace == "" {
		data.Namespace = db.Name
	}

	for _, t := range db.Tables {
		td := tableData{
			TableName: t.Name,
			ClassName: t.Type.Name,
			SetName:   t.Type.Name,
			Columns:   t.Type.Columns,
		}
		if opts.Pluralize {
			td.SetName = inflect.Pluralize(t.Type.Name)
		}
		for _, a := range t.Type.Associations {
			td.Associations = append(td.Associations, assocData{
				Member:   a.Name,
				TypeName: a.Type,
				Many:     a.CardinalitySpecified && a.Cardinality == model.Many,
			})
		}
		data.Tables = append(data.Tables, td)
	}

	if opts.IncludeStoredProcedures {
		data.Functions = db.Functions
	}
	return data
}

// valueTypes are the C# types that need a "?" suffix when nullable.
var valueTypes = map[string]bool{
	"bool": true, "byte": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "decimal": true, "DateTime": true,
	"DateTimeOffset": true, "TimeSpan": true, "Guid": true, "char": true,
}

func csType(c model.Column) string {
	if c.Nullable && valueTypes[c.CSType] {
		return c.CSType + "?"
	}
	return c.CSType
}

func csParams(params []model.Parameter) string {
	var parts []string
	for _, p := range params {
		parts = append(parts, p.CSType+" "+inflect.CamelizeDownFirst(p.Name))
	}
	return strings.Join(parts, ", ")
}

func csArgs(params []model.Parameter) string {
	var b strings.Builder
	for _, p := range params {
		b.WriteString(", ")
		b.WriteString(inflect.CamelizeDownFirst(p.Name))
	}
	return b.String()
}

func csPlaceholders(params []model.Parameter) string {
	var parts []string
	for i := range params {
		parts = append(parts, fmt.Sprintf("{%d}", i))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, ", ")
}
