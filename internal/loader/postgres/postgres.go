// Package postgres implements the PostgreSQL schema loader.
package postgres

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/scaffolddb/scaffold/internal/loader"
	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// Loader introspects a PostgreSQL database through information_schema.
type Loader struct {
	db           *sqlx.DB
	schema       string
	includeProcs bool
}

// New creates an unconnected PostgreSQL loader.
func New() loader.Loader {
	return &Loader{schema: "public"}
}

// Provider returns the provider identifier.
func (l *Loader) Provider() string { return "postgres" }

// Connect opens the connection pool via the pgx stdlib driver.
func (l *Loader) Connect(cfg loader.Config) error {
	db, err := sqlx.Connect("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	if cfg.Schema != "" {
		l.schema = cfg.Schema
	}
	l.includeProcs = cfg.IncludeStoredProcedures
	l.db = db
	return nil
}

// Close closes the connection pool.
func (l *Loader) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

type tableRow struct {
	TableName string `db:"table_name"`
}

type columnRow struct {
	TableName  string  `db:"table_name"`
	ColumnName string  `db:"column_name"`
	UDTName    string  `db:"udt_name"`
	IsNullable string  `db:"is_nullable"`
	Default    *string `db:"column_default"`
	MaxLength  *int64  `db:"character_maximum_length"`
}

type keyRow struct {
	TableName  string `db:"table_name"`
	ColumnName string `db:"column_name"`
}

type fkRow struct {
	TableName        string `db:"table_name"`
	ColumnName       string `db:"column_name"`
	ReferencedTable  string `db:"referenced_table"`
	ReferencedColumn string `db:"referenced_column"`
}

type routineRow struct {
	SpecificName string  `db:"specific_name"`
	RoutineName  string  `db:"routine_name"`
	RoutineType  string  `db:"routine_type"`
	DataType     *string `db:"data_type"`
}

type paramRow struct {
	SpecificName string  `db:"specific_name"`
	ParamName    *string `db:"parameter_name"`
	DataType     *string `db:"data_type"`
	Mode         string  `db:"parameter_mode"`
}

// Load introspects the connected database into a model.Database.
func (l *Loader) Load(ctx context.Context, format naming.NameFormat) (*model.Database, error) {
	var dbName string
	if err := l.db.GetContext(ctx, &dbName, `SELECT current_database()`); err != nil {
		return nil, fmt.Errorf("introspect database name: %w", err)
	}

	var tables []tableRow
	err := l.db.SelectContext(ctx, &tables, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect tables: %w", err)
	}

	var columns []columnRow
	err = l.db.SelectContext(ctx, &columns, `
		SELECT table_name, column_name, udt_name, is_nullable, column_default, character_maximum_length
		FROM information_schema.columns
		WHERE table_schema = $1
		ORDER BY table_name, ordinal_position`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect columns: %w", err)
	}

	var pks []keyRow
	err = l.db.SelectContext(ctx, &pks, `
		SELECT kcu.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect primary keys: %w", err)
	}

	var fks []fkRow
	err = l.db.SelectContext(ctx, &fks, `
		SELECT
			kcu.table_name,
			kcu.column_name,
			ccu.table_name AS referenced_table,
			ccu.column_name AS referenced_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name
			AND tc.table_schema = ccu.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect foreign keys: %w", err)
	}

	pkSet := make(map[string]bool)
	for _, pk := range pks {
		pkSet[pk.TableName+"."+pk.ColumnName] = true
	}

	colsByTable := make(map[string][]loader.ColumnInfo)
	for _, c := range columns {
		isAuto := c.Default != nil && strings.Contains(*c.Default, "nextval")
		colsByTable[c.TableName] = append(colsByTable[c.TableName], loader.ColumnInfo{
			Name:            c.ColumnName,
			DBType:          c.UDTName,
			CSType:          mapType(c.UDTName),
			Nullable:        c.IsNullable == "YES",
			Default:         c.Default,
			MaxLength:       c.MaxLength,
			IsPrimaryKey:    pkSet[c.TableName+"."+c.ColumnName],
			IsAutoIncrement: isAuto,
		})
	}

	infos := make([]loader.TableInfo, 0, len(tables))
	for _, t := range tables {
		infos = append(infos, loader.TableInfo{
			Schema:  l.schema,
			Name:    t.TableName,
			Columns: colsByTable[t.TableName],
		})
	}

	fkInfos := make([]loader.ForeignKeyInfo, 0, len(fks))
	for _, fk := range fks {
		fkInfos = append(fkInfos, loader.ForeignKeyInfo{
			Table:            fk.TableName,
			Column:           fk.ColumnName,
			ReferencedTable:  fk.ReferencedTable,
			ReferencedColumn: fk.ReferencedColumn,
		})
	}

	db := loader.BuildDatabase(dbName, l.Provider(), format, infos, fkInfos)

	if l.includeProcs {
		funcs, err := l.loadRoutines(ctx, format)
		if err != nil {
			return nil, err
		}
		db.Functions = funcs
	}
	return db, nil
}

func (l *Loader) loadRoutines(ctx context.Context, format naming.NameFormat) ([]model.Function, error) {
	var routines []routineRow
	err := l.db.SelectContext(ctx, &routines, `
		SELECT specific_name, routine_name, routine_type, data_type
		FROM information_schema.routines
		WHERE routine_schema = $1
		ORDER BY routine_name`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect routines: %w", err)
	}

	var params []paramRow
	err = l.db.SelectContext(ctx, &params, `
		SELECT specific_name, parameter_name, data_type, parameter_mode
		FROM information_schema.parameters
		WHERE specific_schema = $1
		ORDER BY specific_name, ordinal_position`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect routine parameters: %w", err)
	}

	paramsByRoutine := make(map[string][]model.Parameter)
	for _, p := range params {
		if p.ParamName == nil {
			continue // unnamed result column
		}
		dbType := ""
		if p.DataType != nil {
			dbType = *p.DataType
		}
		paramsByRoutine[p.SpecificName] = append(paramsByRoutine[p.SpecificName], model.Parameter{
			Name:      *p.ParamName,
			DBType:    dbType,
			CSType:    mapType(dbType),
			Direction: strings.ToLower(p.Mode),
		})
	}

	var funcs []model.Function
	for _, r := range routines {
		fn := model.Function{
			Name:       r.RoutineName,
			Method:     format.Ident(r.RoutineName),
			Parameters: paramsByRoutine[r.SpecificName],
		}
		if r.DataType != nil {
			fn.ReturnType = *r.DataType
		}
		if strings.EqualFold(r.RoutineType, "PROCEDURE") {
			fn.Type = "procedure"
		} else {
			fn.Type = "function"
		}
		funcs = append(funcs, fn)
	}
	return funcs, nil
}

// mapType maps a PostgreSQL type name to the generated member type.
func mapType(udt string) string {
	switch strings.ToLower(udt) {
	case "int2", "smallint":
		return "short"
	case "int4", "integer", "serial":
		return "int"
	case "int8", "bigint", "bigserial":
		return "long"
	case "float4", "real":
		return "float"
	case "float8", "double precision":
		return "double"
	case "numeric", "decimal", "money":
		return "decimal"
	case "bool", "boolean":
		return "bool"
	case "uuid":
		return "Guid"
	case "date", "timestamp", "timestamptz", "timestamp without time zone", "timestamp with time zone":
		return "DateTime"
	case "time", "timetz", "interval":
		return "TimeSpan"
	case "bytea":
		return "byte[]"
	default:
		return "string"
	}
}
