package cli

import (
	"testing"

	"github.com/scaffolddb/scaffold/internal/config"
	"github.com/scaffolddb/scaffold/internal/model"
)

func TestContextClass(t *testing.T) {
	db := &model.Database{Name: "northwind_store"}

	tests := []struct {
		name    string
		mode    string
		output  string
		want    string
		wantErr bool
	}{
		{name: "auto uses output when set", mode: "", output: "ShopContext", want: "ShopContext"},
		{name: "auto derives from database", mode: "", output: "", want: "NorthwindStoreContext"},
		{name: "database mode ignores output", mode: "database", output: "ShopContext", want: "NorthwindStoreContext"},
		{name: "output mode uses output", mode: "output", output: "ShopContext", want: "ShopContext"},
		{name: "output mode requires output", mode: "output", output: "", wantErr: true},
		{name: "unknown mode errors", mode: "banana", output: "ShopContext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &config.Options{ContextNameMode: tt.mode, OutputName: tt.output}
			got, err := contextClass(opts, db)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("contextClass error: %v", err)
			}
			if got != tt.want {
				t.Errorf("contextClass = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShape(t *testing.T) {
	db := &model.Database{
		Tables: []model.Table{
			{Name: "public.orders"},
			{Name: "public.customers"},
		},
	}

	shape(db, &config.Options{})

	if db.Tables[0].Name != "customers" || db.Tables[1].Name != "orders" {
		t.Errorf("tables = %q, %q", db.Tables[0].Name, db.Tables[1].Name)
	}

	qualified := &model.Database{Tables: []model.Table{{Name: "public.orders"}}}
	shape(qualified, &config.Options{IncludeSchemaQualifier: true})
	if qualified.Tables[0].Name != "public.orders" {
		t.Errorf("qualifier stripped despite IncludeSchemaQualifier: %q", qualified.Tables[0].Name)
	}
}
