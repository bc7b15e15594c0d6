package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSortByName(t *testing.T) {
	db := &Database{
		Tables: []Table{
			{Name: "orders", Type: TableType{Name: "Order", Columns: []Column{
				{Member: "Total"},
				{Member: "ID"},
			}}},
			{Name: "customers", Type: TableType{Name: "Customer"}},
		},
	}

	db.SortByName()

	if db.Tables[0].Name != "customers" || db.Tables[1].Name != "orders" {
		t.Errorf("tables not sorted: %q, %q", db.Tables[0].Name, db.Tables[1].Name)
	}
	cols := db.Tables[1].Type.Columns
	if cols[0].Member != "ID" || cols[1].Member != "Total" {
		t.Errorf("columns not sorted: %q, %q", cols[0].Member, cols[1].Member)
	}
}

func TestStripSchemaQualifiers(t *testing.T) {
	db := &Database{
		Tables: []Table{
			{Name: "dbo.Customers"},
			{Name: "Orders"},
			{Name: "sales.archive.Invoices"},
		},
	}

	db.StripSchemaQualifiers()

	want := []string{"Customers", "Orders", "Invoices"}
	for i, w := range want {
		if db.Tables[i].Name != w {
			t.Errorf("table %d = %q, want %q", i, db.Tables[i].Name, w)
		}
	}
}

func TestTypeByName(t *testing.T) {
	db := &Database{
		Tables: []Table{
			{Name: "customers", Type: TableType{Name: "Customer"}},
			{Name: "customers_archive", Type: TableType{Name: "Customer"}},
			{Name: "orders", Type: TableType{Name: "Order"}},
		},
	}

	if got := db.TypeByName("Order"); len(got) != 1 {
		t.Errorf("TypeByName(Order) returned %d matches, want 1", len(got))
	}
	if got := db.TypeByName("Customer"); len(got) != 2 {
		t.Errorf("TypeByName(Customer) returned %d matches, want 2", len(got))
	}
	if got := db.TypeByName("Supplier"); len(got) != 0 {
		t.Errorf("TypeByName(Supplier) returned %d matches, want 0", len(got))
	}
}

func TestColumnByMember(t *testing.T) {
	tt := &TableType{
		Name: "Order",
		Columns: []Column{
			{Member: "ID"},
			{Member: "Total"},
			{Member: "Total"},
		},
	}

	if got := tt.ColumnByMember("ID"); len(got) != 1 {
		t.Errorf("ColumnByMember(ID) returned %d matches, want 1", len(got))
	}
	if got := tt.ColumnByMember("Total"); len(got) != 2 {
		t.Errorf("ColumnByMember(Total) returned %d matches, want 2", len(got))
	}
}

func TestWriteAndReadFile(t *testing.T) {
	maxLen := int64(255)
	db := &Database{
		Name:     "shop",
		Class:    "ShopContext",
		Provider: "postgres",
		Tables: []Table{
			{Name: "customers", Type: TableType{
				Name: "Customer",
				Columns: []Column{
					{Name: "id", Member: "ID", DBType: "int4", CSType: "int", IsPrimaryKey: true, IsAutoIncrement: true},
					{Name: "name", Member: "Name", DBType: "varchar", CSType: "string", MaxLength: &maxLen},
				},
				Associations: []Association{
					{Name: "Orders", Type: "Order", ThisKey: "ID", OtherKey: "CustomerID", Cardinality: Many, CardinalitySpecified: true},
				},
			}},
			{Name: "orders", Type: TableType{Name: "Order", Columns: []Column{
				{Name: "id", Member: "ID", DBType: "int4", CSType: "int", IsPrimaryKey: true},
				{Name: "customer_id", Member: "CustomerID", DBType: "int4", CSType: "int"},
			}}},
		},
	}

	path := filepath.Join(t.TempDir(), "shop.schema.json")
	if err := db.WriteFile(path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}

	if got.Name != "shop" || got.Class != "ShopContext" || got.Provider != "postgres" {
		t.Errorf("header = %q/%q/%q", got.Name, got.Class, got.Provider)
	}
	if len(got.Tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(got.Tables))
	}
	cust := got.Tables[0].Type
	if len(cust.Columns) != 2 || cust.Columns[1].MaxLength == nil || *cust.Columns[1].MaxLength != 255 {
		t.Errorf("customer columns not preserved: %+v", cust.Columns)
	}
	assoc := cust.Associations[0]
	if assoc.Cardinality != Many || !assoc.CardinalitySpecified {
		t.Errorf("association not preserved: %+v", assoc)
	}
}

func TestWriteFileLeavesNoTempOnSuccess(t *testing.T) {
	dir := t.TempDir()
	db := &Database{Name: "shop"}

	if err := db.WriteFile(filepath.Join(dir, "shop.schema.json")); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected one file in dir, got %d", len(entries))
	}
}

func TestReadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}
