package sqlite

import (
	"testing"

	"github.com/scaffolddb/scaffold/internal/loader"
)

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"./shop.db", "shop"},
		{"/var/data/northwind.sqlite", "northwind"},
		{"file:shop.db?cache=shared", "shop"},
		{":memory:", "main"},
		{"file::memory:?cache=shared", "main"},
		{"", "main"},
	}

	for _, tt := range tests {
		if got := databaseName(tt.dsn); got != tt.want {
			t.Errorf("databaseName(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestResolvePrimaryKeyRefs(t *testing.T) {
	tables := []loader.TableInfo{
		{Name: "customers", Columns: []loader.ColumnInfo{
			{Name: "id", IsPrimaryKey: true},
		}},
		{Name: "order_items", Columns: []loader.ColumnInfo{
			{Name: "order_id", IsPrimaryKey: true},
			{Name: "line", IsPrimaryKey: true},
		}},
	}
	fks := []loader.ForeignKeyInfo{
		{Table: "orders", Column: "customer_id", ReferencedTable: "customers", ReferencedColumn: primaryKeyPlaceholder},
		{Table: "shipments", Column: "item_ref", ReferencedTable: "order_items", ReferencedColumn: primaryKeyPlaceholder},
		{Table: "orders", Column: "status", ReferencedTable: "statuses", ReferencedColumn: "code"},
	}

	got := resolvePrimaryKeyRefs(tables, fks)

	if len(got) != 2 {
		t.Fatalf("got %d foreign keys, want 2 (composite-key ref dropped)", len(got))
	}
	if got[0].ReferencedColumn != "id" {
		t.Errorf("implicit PK ref resolved to %q, want id", got[0].ReferencedColumn)
	}
	if got[1].ReferencedTable != "statuses" || got[1].ReferencedColumn != "code" {
		t.Errorf("explicit ref changed: %+v", got[1])
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := quoteIdentifier(`order"items`); got != `"order""items"` {
		t.Errorf("quoteIdentifier = %s", got)
	}
}

func TestMapType(t *testing.T) {
	tests := []struct {
		declared string
		want     string
	}{
		{"INTEGER", "long"},
		{"int", "long"},
		{"BOOLEAN", "bool"},
		{"DATETIME", "DateTime"},
		{"REAL", "double"},
		{"DOUBLE PRECISION", "double"},
		{"DECIMAL(10,2)", "decimal"},
		{"NUMERIC", "decimal"},
		{"BLOB", "byte[]"},
		{"", "byte[]"},
		{"TEXT", "string"},
		{"VARCHAR(80)", "string"},
	}

	for _, tt := range tests {
		if got := mapType(tt.declared); got != tt.want {
			t.Errorf("mapType(%q) = %q, want %q", tt.declared, got, tt.want)
		}
	}
}
