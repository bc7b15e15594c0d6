package mssql

import "testing"

func TestMapType(t *testing.T) {
	tests := []struct {
		dataType string
		want     string
	}{
		{"int", "int"},
		{"bigint", "long"},
		{"real", "float"},
		{"float", "double"},
		{"money", "decimal"},
		{"bit", "bool"},
		{"uniqueidentifier", "Guid"},
		{"datetime2", "DateTime"},
		{"datetimeoffset", "DateTimeOffset"},
		{"rowversion", "byte[]"},
		{"nvarchar", "string"},
	}

	for _, tt := range tests {
		if got := mapType(tt.dataType); got != tt.want {
			t.Errorf("mapType(%q) = %q, want %q", tt.dataType, got, tt.want)
		}
	}
}
