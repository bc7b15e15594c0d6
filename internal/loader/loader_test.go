package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

type fakeLoader struct {
	provider   string
	connectErr error
	connected  bool
}

func (f *fakeLoader) Provider() string { return f.provider }
func (f *fakeLoader) Connect(cfg Config) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}
func (f *fakeLoader) Close() error { return nil }
func (f *fakeLoader) Load(ctx context.Context, format naming.NameFormat) (*model.Database, error) {
	return &model.Database{Name: "fake"}, nil
}

func TestRegistryOpen(t *testing.T) {
	r := NewRegistry()
	fake := &fakeLoader{provider: "fake"}
	r.Register("fake", func() Loader { return fake })

	l, err := r.Open(Config{Provider: "fake", DSN: "dsn"})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if l.Provider() != "fake" {
		t.Errorf("Provider = %q, want fake", l.Provider())
	}
	if !fake.connected {
		t.Error("Open must connect the loader")
	}
}

func TestRegistryOpenUnknownProvider(t *testing.T) {
	r := NewRegistry()
	r.Register("postgres", func() Loader { return &fakeLoader{provider: "postgres"} })
	r.Register("mysql", func() Loader { return &fakeLoader{provider: "mysql"} })

	_, err := r.Open(Config{Provider: "oracle"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	// The error names the available providers.
	if !strings.Contains(err.Error(), "mysql") || !strings.Contains(err.Error(), "postgres") {
		t.Errorf("error should list available providers: %v", err)
	}
}

func TestRegistryProvidersSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("sqlite", func() Loader { return nil })
	r.Register("mysql", func() Loader { return nil })
	r.Register("postgres", func() Loader { return nil })

	got := r.Providers()
	want := []string{"mysql", "postgres", "sqlite"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("providers = %v, want %v", got, want)
		}
	}
}

func introspected() ([]TableInfo, []ForeignKeyInfo) {
	tables := []TableInfo{
		{
			Schema: "public",
			Name:   "customers",
			Columns: []ColumnInfo{
				{Name: "id", DBType: "int4", CSType: "int", IsPrimaryKey: true, IsAutoIncrement: true},
				{Name: "name", DBType: "varchar", CSType: "string"},
			},
		},
		{
			Schema: "public",
			Name:   "orders",
			Columns: []ColumnInfo{
				{Name: "id", DBType: "int4", CSType: "int", IsPrimaryKey: true},
				{Name: "customer_id", DBType: "int4", CSType: "int"},
			},
		},
	}
	fks := []ForeignKeyInfo{
		{Table: "orders", Column: "customer_id", ReferencedTable: "customers", ReferencedColumn: "id"},
	}
	return tables, fks
}

func TestBuildDatabase(t *testing.T) {
	format := naming.NewNameFormat(true, "pascal", "en")
	tables, fks := introspected()

	db := BuildDatabase("shop", "postgres", format, tables, fks)

	if db.Name != "shop" || db.Provider != "postgres" {
		t.Errorf("header = %q/%q", db.Name, db.Provider)
	}
	if len(db.Tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(db.Tables))
	}
	if db.Tables[0].Name != "public.customers" {
		t.Errorf("table name = %q, want public.customers", db.Tables[0].Name)
	}

	cust := db.Tables[0].Type
	if cust.Name != "Customer" {
		t.Errorf("type name = %q, want Customer", cust.Name)
	}
	if cust.Columns[0].Member != "ID" && cust.Columns[0].Member != "Id" {
		t.Errorf("id member = %q", cust.Columns[0].Member)
	}

	order := db.Tables[1].Type
	if len(order.Associations) != 1 {
		t.Fatalf("order has %d associations, want 1", len(order.Associations))
	}
	fkAssoc := order.Associations[0]
	if fkAssoc.Type != "Customer" || !fkAssoc.IsForeignKey {
		t.Errorf("FK association = %+v", fkAssoc)
	}
	if fkAssoc.Cardinality != model.One || fkAssoc.CardinalitySpecified {
		t.Errorf("FK side must be One with unspecified cardinality: %+v", fkAssoc)
	}

	if len(cust.Associations) != 1 {
		t.Fatalf("customer has %d associations, want 1", len(cust.Associations))
	}
	setAssoc := cust.Associations[0]
	if setAssoc.Name != "Orders" || setAssoc.Type != "Order" {
		t.Errorf("set association = %+v", setAssoc)
	}
	if setAssoc.Cardinality != model.Many || !setAssoc.CardinalitySpecified || setAssoc.IsForeignKey {
		t.Errorf("set side must be an explicit Many without the FK flag: %+v", setAssoc)
	}
}

func TestBuildDatabaseSkipsExternalFK(t *testing.T) {
	format := naming.NewNameFormat(true, "pascal", "en")
	tables, _ := introspected()
	fks := []ForeignKeyInfo{
		{Table: "orders", Column: "region_id", ReferencedTable: "regions", ReferencedColumn: "id"},
	}

	db := BuildDatabase("shop", "postgres", format, tables, fks)

	for _, tbl := range db.Tables {
		if len(tbl.Type.Associations) != 0 {
			t.Errorf("table %q has associations from an external FK: %+v", tbl.Name, tbl.Type.Associations)
		}
	}
}

func TestBuildDatabaseNoSchemaQualifier(t *testing.T) {
	format := naming.NewNameFormat(true, "pascal", "en")
	tables := []TableInfo{{Name: "customers", Columns: []ColumnInfo{{Name: "id", CSType: "int"}}}}

	db := BuildDatabase("shop", "sqlite", format, tables, nil)

	if db.Tables[0].Name != "customers" {
		t.Errorf("table name = %q, want customers", db.Tables[0].Name)
	}
}
