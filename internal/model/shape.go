package model

import (
	"sort"
	"strings"
)

// SortByName orders Tables by table name and each type's Columns by member
// name. Both sorts are stable so equal names keep their introspection order.
// Association content is never reordered.
func (db *Database) SortByName() {
	sort.SliceStable(db.Tables, func(i, j int) bool {
		return db.Tables[i].Name < db.Tables[j].Name
	})
	for i := range db.Tables {
		cols := db.Tables[i].Type.Columns
		sort.SliceStable(cols, func(a, b int) bool {
			return cols[a].Member < cols[b].Member
		})
	}
}

// StripSchemaQualifiers removes the schema prefix from every table name, so
// "dbo.Customers" becomes "Customers". Used when schema-qualified naming is
// disabled in the run configuration. Type names are left alone; associations
// reference types, not tables.
func (db *Database) StripSchemaQualifiers() {
	for i := range db.Tables {
		name := db.Tables[i].Name
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			db.Tables[i].Name = name[idx+1:]
		}
	}
}
