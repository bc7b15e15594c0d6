package model

// Cardinality says whether the related side of an association yields at most
// one row or many rows.
type Cardinality string

const (
	One  Cardinality = "One"
	Many Cardinality = "Many"
)

// Database is the full schema description for one database, as produced by a
// loader or read back from an exported schema file. It is built once, before
// validation, and never mutated afterwards except for the shaping passes in
// shape.go (sorting, qualifier stripping).
type Database struct {
	Name      string     `json:"name"`
	Class     string     `json:"class"` // base identifier for derived artifact names, e.g. "NorthwindContext"
	Provider  string     `json:"provider"`
	Tables    []Table    `json:"tables"`
	Functions []Function `json:"functions,omitempty"`
}

// Table is one database table. Name may be schema-qualified ("dbo.Customers").
type Table struct {
	Name string    `json:"name"`
	Type TableType `json:"type"`
}

// TableType is the generated type backing a table. Name is unique across the
// database's tables.
type TableType struct {
	Name         string        `json:"name"`
	Columns      []Column      `json:"columns"`
	Associations []Association `json:"associations,omitempty"`
}

// Column describes a single column and the member generated for it.
// Member is unique within its TableType.
type Column struct {
	Name            string  `json:"name"`   // column name in the database
	Member          string  `json:"member"` // generated member identifier
	DBType          string  `json:"db_type"`
	CSType          string  `json:"cs_type"`
	Nullable        bool    `json:"nullable"`
	Default         *string `json:"default,omitempty"`
	MaxLength       *int64  `json:"max_length,omitempty"`
	IsPrimaryKey    bool    `json:"is_primary_key"`
	IsAutoIncrement bool    `json:"is_auto_increment"`
}

// Association is a declared relationship between two table types. Type names
// the related TableType; ThisKey/OtherKey name the member on each side.
// CardinalitySpecified distinguishes an absent cardinality from an explicit One.
type Association struct {
	Name                 string      `json:"name"`
	Type                 string      `json:"type"`
	ThisKey              string      `json:"this_key"`
	OtherKey             string      `json:"other_key"`
	Cardinality          Cardinality `json:"cardinality,omitempty"`
	CardinalitySpecified bool        `json:"cardinality_specified"`
	IsForeignKey         bool        `json:"is_foreign_key"`
}

// Function describes a stored procedure or database function.
type Function struct {
	Name       string      `json:"name"`
	Method     string      `json:"method"` // generated member identifier
	Type       string      `json:"type"`   // "procedure" or "function"
	ReturnType string      `json:"return_type,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// Parameter is a single stored procedure or function parameter.
type Parameter struct {
	Name      string `json:"name"`
	DBType    string `json:"db_type"`
	CSType    string `json:"cs_type"`
	Direction string `json:"direction"` // "in", "out", "inout"
}

// TypeByName returns every TableType in the database whose Name equals name.
// Association resolution expects exactly one match; callers treat any other
// count as a schema-integrity defect.
func (db *Database) TypeByName(name string) []*TableType {
	var out []*TableType
	for i := range db.Tables {
		if db.Tables[i].Type.Name == name {
			out = append(out, &db.Tables[i].Type)
		}
	}
	return out
}

// ColumnByMember returns every Column in the type whose Member equals member.
func (t *TableType) ColumnByMember(member string) []*Column {
	var out []*Column
	for i := range t.Columns {
		if t.Columns[i].Member == member {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}
