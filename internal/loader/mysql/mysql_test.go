package mysql

import "testing"

func TestMapType(t *testing.T) {
	tests := []struct {
		dataType   string
		columnType string
		want       string
	}{
		{"tinyint", "tinyint(1)", "bool"},
		{"tinyint", "tinyint(4)", "byte"},
		{"int", "int(11)", "int"},
		{"bigint", "bigint(20)", "long"},
		{"decimal", "decimal(10,2)", "decimal"},
		{"bit", "bit(1)", "bool"},
		{"datetime", "datetime", "DateTime"},
		{"time", "time", "TimeSpan"},
		{"varbinary", "varbinary(255)", "byte[]"},
		{"varchar", "varchar(80)", "string"},
		{"json", "json", "string"},
	}

	for _, tt := range tests {
		if got := mapType(tt.dataType, tt.columnType); got != tt.want {
			t.Errorf("mapType(%q, %q) = %q, want %q", tt.dataType, tt.columnType, got, tt.want)
		}
	}
}
