// Package mysql implements the MySQL schema loader.
package mysql

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/scaffolddb/scaffold/internal/loader"
	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// Loader introspects a MySQL database through INFORMATION_SCHEMA. MySQL has
// no schema level below the database, so table names are never qualified.
type Loader struct {
	db           *sqlx.DB
	includeProcs bool
}

// New creates an unconnected MySQL loader.
func New() loader.Loader {
	return &Loader{}
}

// Provider returns the provider identifier.
func (l *Loader) Provider() string { return "mysql" }

// Connect opens the connection pool.
func (l *Loader) Connect(cfg loader.Config) error {
	db, err := sqlx.Connect("mysql", cfg.DSN)
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
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
	ColumnType string  `db:"COLUMN_TYPE"`
	IsNullable string  `db:"IS_NULLABLE"`
	Default    *string `db:"COLUMN_DEFAULT"`
	MaxLength  *int64  `db:"CHARACTER_MAXIMUM_LENGTH"`
	ColumnKey  string  `db:"COLUMN_KEY"`
	Extra      string  `db:"EXTRA"`
}

type fkRow struct {
	TableName        string `db:"TABLE_NAME"`
	ColumnName       string `db:"COLUMN_NAME"`
	ReferencedTable  string `db:"REFERENCED_TABLE_NAME"`
	ReferencedColumn string `db:"REFERENCED_COLUMN_NAME"`
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
	if err := l.db.GetContext(ctx, &dbName, `SELECT DATABASE()`); err != nil {
		return nil, fmt.Errorf("introspect database name: %w", err)
	}

	var tableNames []string
	err := l.db.SelectContext(ctx, &tableNames, `
		SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`)
	if err != nil {
		return nil, fmt.Errorf("introspect tables: %w", err)
	}

	var columns []columnRow
	err = l.db.SelectContext(ctx, &columns, `
		SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, IS_NULLABLE,
			COLUMN_DEFAULT, CHARACTER_MAXIMUM_LENGTH, COLUMN_KEY, EXTRA
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		ORDER BY TABLE_NAME, ORDINAL_POSITION`)
	if err != nil {
		return nil, fmt.Errorf("introspect columns: %w", err)
	}

	var fks []fkRow
	err = l.db.SelectContext(ctx, &fks, `
		SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME,
			kcu.REFERENCED_TABLE_NAME, kcu.REFERENCED_COLUMN_NAME
		FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
		WHERE kcu.TABLE_SCHEMA = DATABASE()
			AND kcu.REFERENCED_TABLE_NAME IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("introspect foreign keys: %w", err)
	}

	colsByTable := make(map[string][]loader.ColumnInfo)
	for _, c := range columns {
		colsByTable[c.TableName] = append(colsByTable[c.TableName], loader.ColumnInfo{
			Name:            c.ColumnName,
			DBType:          c.DataType,
			CSType:          mapType(c.DataType, c.ColumnType),
			Nullable:        c.IsNullable == "YES",
			Default:         c.Default,
			MaxLength:       c.MaxLength,
			IsPrimaryKey:    c.ColumnKey == "PRI",
			IsAutoIncrement: strings.Contains(c.Extra, "auto_increment"),
		})
	}

	infos := make([]loader.TableInfo, 0, len(tableNames))
	for _, name := range tableNames {
		infos = append(infos, loader.TableInfo{Name: name, Columns: colsByTable[name]})
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
		WHERE ROUTINE_SCHEMA = DATABASE()
		ORDER BY ROUTINE_NAME`)
	if err != nil {
		return nil, fmt.Errorf("introspect routines: %w", err)
	}

	var params []paramRow
	err = l.db.SelectContext(ctx, &params, `
		SELECT SPECIFIC_NAME, PARAMETER_NAME, DATA_TYPE, PARAMETER_MODE
		FROM INFORMATION_SCHEMA.PARAMETERS
		WHERE SPECIFIC_SCHEMA = DATABASE()
		ORDER BY SPECIFIC_NAME, ORDINAL_POSITION`)
	if err != nil {
		return nil, fmt.Errorf("introspect routine parameters: %w", err)
	}

	paramsByRoutine := make(map[string][]model.Parameter)
	for _, p := range params {
		if p.ParamName == nil || p.Mode == nil {
			continue // ordinal 0 is the function return value
		}
		dbType := ""
		if p.DataType != nil {
			dbType = *p.DataType
		}
		paramsByRoutine[p.RoutineName] = append(paramsByRoutine[p.RoutineName], model.Parameter{
			Name:      *p.ParamName,
			DBType:    dbType,
			CSType:    mapType(dbType, ""),
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

// mapType maps a MySQL type to the generated member type. The full column
// type is consulted for tinyint(1), MySQL's idiom for boolean.
func mapType(dataType, columnType string) string {
	switch strings.ToLower(dataType) {
	case "tinyint":
		if strings.HasPrefix(strings.ToLower(columnType), "tinyint(1)") {
			return "bool"
		}
		return "byte"
	case "smallint":
		return "short"
	case "int", "integer", "mediumint":
		return "int"
	case "bigint":
		return "long"
	case "float":
		return "float"
	case "double":
		return "double"
	case "decimal", "numeric":
		return "decimal"
	case "bit":
		return "bool"
	case "date", "datetime", "timestamp":
		return "DateTime"
	case "time":
		return "TimeSpan"
	case "binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob":
		return "byte[]"
	default:
		return "string"
	}
}
