package loader

import (
	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// TableInfo is the provider-neutral introspection result for one table.
// Loaders fill these and hand them to BuildDatabase, which owns the shaping
// of raw names into model identifiers and the synthesis of associations.
type TableInfo struct {
	Schema  string // owning database schema, empty for providers without one
	Name    string
	Columns []ColumnInfo
}

// ColumnInfo is the provider-neutral introspection result for one column.
type ColumnInfo struct {
	Name            string
	DBType          string
	CSType          string
	Nullable        bool
	Default         *string
	MaxLength       *int64
	IsPrimaryKey    bool
	IsAutoIncrement bool
}

// ForeignKeyInfo is one foreign key column pair between two tables.
type ForeignKeyInfo struct {
	Table            string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
}

// BuildDatabase assembles a model.Database from provider-neutral
// introspection results. Each foreign key becomes a pair of associations:
// the owning side gets a single-valued association marked IsForeignKey with
// no explicit cardinality, the referenced side a many-valued association
// with the cardinality spelled out.
func BuildDatabase(name, provider string, format naming.NameFormat, tables []TableInfo, fks []ForeignKeyInfo) *model.Database {
	db := &model.Database{
		Name:     name,
		Provider: provider,
		// Sized up front: association wiring below keeps pointers into the
		// slice, so it must not reallocate.
		Tables: make([]model.Table, 0, len(tables)),
	}

	// Raw table name -> generated type, and per-table member lookup by raw
	// column name, used below when wiring associations.
	typeByTable := make(map[string]*model.TableType, len(tables))
	memberByTable := make(map[string]map[string]string, len(tables))

	for _, t := range tables {
		tt := model.TableType{Name: format.TypeName(t.Name)}
		members := make(map[string]string, len(t.Columns))
		for _, c := range t.Columns {
			member := format.Ident(c.Name)
			members[c.Name] = member
			tt.Columns = append(tt.Columns, model.Column{
				Name:            c.Name,
				Member:          member,
				DBType:          c.DBType,
				CSType:          c.CSType,
				Nullable:        c.Nullable,
				Default:         c.Default,
				MaxLength:       c.MaxLength,
				IsPrimaryKey:    c.IsPrimaryKey,
				IsAutoIncrement: c.IsAutoIncrement,
			})
		}

		tableName := t.Name
		if t.Schema != "" {
			tableName = t.Schema + "." + t.Name
		}
		db.Tables = append(db.Tables, model.Table{Name: tableName, Type: tt})
		typeByTable[t.Name] = &db.Tables[len(db.Tables)-1].Type
		memberByTable[t.Name] = members
	}

	for _, fk := range fks {
		owner := typeByTable[fk.Table]
		referenced := typeByTable[fk.ReferencedTable]
		if owner == nil || referenced == nil {
			continue // FK into a table outside the introspected schema
		}
		ownerKey := memberByTable[fk.Table][fk.Column]
		refKey := memberByTable[fk.ReferencedTable][fk.ReferencedColumn]

		// Single-valued side: the FK-owning type navigates to one related row.
		owner.Associations = append(owner.Associations, model.Association{
			Name:         referenced.Name,
			Type:         referenced.Name,
			ThisKey:      ownerKey,
			OtherKey:     refKey,
			Cardinality:  model.One,
			IsForeignKey: true,
		})

		// Many-valued side: the referenced type navigates back to a set.
		referenced.Associations = append(referenced.Associations, model.Association{
			Name:                 format.SetName(fk.Table),
			Type:                 owner.Name,
			ThisKey:              refKey,
			OtherKey:             ownerKey,
			Cardinality:          model.Many,
			CardinalitySpecified: true,
		})
	}

	return db
}
