// Package mssql implements the SQL Server schema loader.
package mssql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/scaffolddb/scaffold/internal/loader"
	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// Loader introspects a SQL Server database through INFORMATION_SCHEMA and
// the sys catalog views.
type Loader struct {
	db           *sqlx.DB
	schema       string
	includeProcs bool
}

// New creates an unconnected SQL Server loader.
func New() loader.Loader {
	return &Loader{schema: "dbo"}
}

// Provider returns the provider identifier.
func (l *Loader) Provider() string { return "mssql" }

// Connect opens the connection pool.
func (l *Loader) Connect(cfg loader.Config) error {
	db, err := sqlx.Connect("sqlserver", cfg.DSN)
	if err != nil {
		return fmt.Errorf("mssql connect: %w", err)
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

type columnRow struct {
	TableName  string  `db:"TABLE_NAME"`
	ColumnName string  `db:"COLUMN_NAME"`
	DataType   string  `db:"DATA_TYPE"`
	IsNullable string  `db:"IS_NULLABLE"`
	Default    *string `db:"COLUMN_DEFAULT"`
	MaxLength  *int64  `db:"CHARACTER_MAXIMUM_LENGTH"`
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
	RoutineName string  `db:"ROUTINE_NAME"`
	RoutineType string  `db:"ROUTINE_TYPE"`
	DataType    *string `db:"DATA_TYPE"`
}

type paramRow struct {
	RoutineName string  `db:"SPECIFIC_NAME"`
	ParamName   *string `db:"PARAMETER_NAME"`
	DataType    *string `db:"DATA_TYPE"`
	Mode        *string `db:"PARAMETER_MODE"`
}

// Load introspects the connected database into a model.Database.
func (l *Loader) Load(ctx context.Context, format naming.NameFormat) (*model.Database, error) {
	var dbName string
	if err := l.db.GetContext(ctx, &dbName, `SELECT DB_NAME()`); err != nil {
		return nil, fmt.Errorf("introspect database name: %w", err)
	}

	var tableNames []string
	err := l.db.SelectContext(ctx, &tableNames, `
		SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect tables: %w", err)
	}

	var columns []columnRow
	err = l.db.SelectContext(ctx, &columns, `
		SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, IS_NULLABLE,
			COLUMN_DEFAULT, CHARACTER_MAXIMUM_LENGTH
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = @p1
		ORDER BY TABLE_NAME, ORDINAL_POSITION`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect columns: %w", err)
	}

	var identities []keyRow
	err = l.db.SelectContext(ctx, &identities, `
		SELECT t.name AS table_name, col.name AS column_name
		FROM sys.columns col
		JOIN sys.tables t ON col.object_id = t.object_id
		JOIN sys.schemas s ON t.schema_id = s.schema_id
		WHERE s.name = @p1 AND col.is_identity = 1`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect identity columns: %w", err)
	}

	var pks []keyRow
	err = l.db.SelectContext(ctx, &pks, `
		SELECT kcu.TABLE_NAME AS table_name, kcu.COLUMN_NAME AS column_name
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect primary keys: %w", err)
	}

	var fks []fkRow
	err = l.db.SelectContext(ctx, &fks, `
		SELECT
			fk_tab.name AS table_name,
			fk_col.name AS column_name,
			pk_tab.name AS referenced_table,
			pk_col.name AS referenced_column
		FROM sys.foreign_keys fk
		JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id
		JOIN sys.tables fk_tab ON fkc.parent_object_id = fk_tab.object_id
		JOIN sys.columns fk_col ON fkc.parent_object_id = fk_col.object_id AND fkc.parent_column_id = fk_col.column_id
		JOIN sys.tables pk_tab ON fkc.referenced_object_id = pk_tab.object_id
		JOIN sys.columns pk_col ON fkc.referenced_object_id = pk_col.object_id AND fkc.referenced_column_id = pk_col.column_id
		JOIN sys.schemas s ON fk_tab.schema_id = s.schema_id
		WHERE s.name = @p1`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect foreign keys: %w", err)
	}

	pkSet := make(map[string]bool)
	for _, pk := range pks {
		pkSet[pk.TableName+"."+pk.ColumnName] = true
	}
	identitySet := make(map[string]bool)
	for _, id := range identities {
		identitySet[id.TableName+"."+id.ColumnName] = true
	}

	colsByTable := make(map[string][]loader.ColumnInfo)
	for _, c := range columns {
		colsByTable[c.TableName] = append(colsByTable[c.TableName], loader.ColumnInfo{
			Name:            c.ColumnName,
			DBType:          c.DataType,
			CSType:          mapType(c.DataType),
			Nullable:        c.IsNullable == "YES",
			Default:         c.Default,
			MaxLength:       c.MaxLength,
			IsPrimaryKey:    pkSet[c.TableName+"."+c.ColumnName],
			IsAutoIncrement: identitySet[c.TableName+"."+c.ColumnName],
		})
	}

	infos := make([]loader.TableInfo, 0, len(tableNames))
	for _, name := range tableNames {
		infos = append(infos, loader.TableInfo{
			Schema:  l.schema,
			Name:    name,
			Columns: colsByTable[name],
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
		SELECT ROUTINE_NAME, ROUTINE_TYPE, DATA_TYPE
		FROM INFORMATION_SCHEMA.ROUTINES
		WHERE ROUTINE_SCHEMA = @p1
		ORDER BY ROUTINE_NAME`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect routines: %w", err)
	}

	var params []paramRow
	err = l.db.SelectContext(ctx, &params, `
		SELECT SPECIFIC_NAME, PARAMETER_NAME, DATA_TYPE, PARAMETER_MODE
		FROM INFORMATION_SCHEMA.PARAMETERS
		WHERE SPECIFIC_SCHEMA = @p1
		ORDER BY SPECIFIC_NAME, ORDINAL_POSITION`, l.schema)
	if err != nil {
		return nil, fmt.Errorf("introspect routine parameters: %w", err)
	}

	paramsByRoutine := make(map[string][]model.Parameter)
	for _, p := range params {
		if p.ParamName == nil || *p.ParamName == "" || p.Mode == nil {
			continue // return-value row
		}
		dbType := ""
		if p.DataType != nil {
			dbType = *p.DataType
		}
		paramsByRoutine[p.RoutineName] = append(paramsByRoutine[p.RoutineName], model.Parameter{
			Name:      strings.TrimPrefix(*p.ParamName, "@"),
			DBType:    dbType,
			CSType:    mapType(dbType),
			Direction: strings.ToLower(*p.Mode),
		})
	}

	var funcs []model.Function
	for _, r := range routines {
		fn := model.Function{
			Name:       r.RoutineName,
			Method:     format.Ident(r.RoutineName),
			Parameters: paramsByRoutine[r.RoutineName],
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

// mapType maps a SQL Server type to the generated member type.
func mapType(dataType string) string {
	switch strings.ToLower(dataType) {
	case "tinyint":
		return "byte"
	case "smallint":
		return "short"
	case "int":
		return "int"
	case "bigint":
		return "long"
	case "real":
		return "float"
	case "float":
		return "double"
	case "decimal", "numeric", "money", "smallmoney":
		return "decimal"
	case "bit":
		return "bool"
	case "uniqueidentifier":
		return "Guid"
	case "date", "datetime", "datetime2", "smalldatetime":
		return "DateTime"
	case "datetimeoffset":
		return "DateTimeOffset"
	case "time":
		return "TimeSpan"
	case "binary", "varbinary", "image", "timestamp", "rowversion":
		return "byte[]"
	default:
		return "string"
	}
}
