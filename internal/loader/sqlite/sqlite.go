// Package sqlite implements the SQLite schema loader.
package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/scaffolddb/scaffold/internal/loader"
	"github.com/scaffolddb/scaffold/internal/model"
	"github.com/scaffolddb/scaffold/internal/naming"
)

// Loader introspects a SQLite database through sqlite_master and the PRAGMA
// interface. SQLite has no schemas and no stored procedures.
type Loader struct {
	db     *sqlx.DB
	dbName string
}

// New creates an unconnected SQLite loader.
func New() loader.Loader {
	return &Loader{}
}

// Provider returns the provider identifier.
func (l *Loader) Provider() string { return "sqlite" }

// Connect opens the database file.
func (l *Loader) Connect(cfg loader.Config) error {
	db, err := sqlx.Connect("sqlite", cfg.DSN)
	if err != nil {
		return fmt.Errorf("sqlite connect: %w", err)
	}
	l.db = db
	l.dbName = databaseName(cfg.DSN)
	return nil
}

// Close closes the database file.
func (l *Loader) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// databaseName derives a database name from the DSN's file path.
func databaseName(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == ":memory:" || base == "." {
		return "main"
	}
	return base
}

type tableInfoRow struct {
	CID       int     `db:"cid"`
	Name      string  `db:"name"`
	Type      string  `db:"type"`
	NotNull   int     `db:"notnull"`
	Default   *string `db:"dflt_value"`
	IsPrimary int     `db:"pk"`
}

type foreignKeyRow struct {
	ID       int    `db:"id"`
	Seq      int    `db:"seq"`
	Table    string `db:"table"`
	From     string `db:"from"`
	To       string `db:"to"`
	OnUpdate string `db:"on_update"`
	OnDelete string `db:"on_delete"`
	Match    string `db:"match"`
}

// Load introspects the connected database into a model.Database.
func (l *Loader) Load(ctx context.Context, format naming.NameFormat) (*model.Database, error) {
	var tableNames []string
	err := l.db.SelectContext(ctx, &tableNames, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("introspect tables: %w", err)
	}

	infos := make([]loader.TableInfo, 0, len(tableNames))
	var fkInfos []loader.ForeignKeyInfo

	for _, name := range tableNames {
		var cols []tableInfoRow
		query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(name))
		if err := l.db.SelectContext(ctx, &cols, query); err != nil {
			return nil, fmt.Errorf("introspect columns for %s: %w", name, err)
		}

		info := loader.TableInfo{Name: name}
		for _, c := range cols {
			info.Columns = append(info.Columns, loader.ColumnInfo{
				Name:            c.Name,
				DBType:          c.Type,
				CSType:          mapType(c.Type),
				Nullable:        c.NotNull == 0 && c.IsPrimary == 0,
				Default:         c.Default,
				IsPrimaryKey:    c.IsPrimary > 0,
				IsAutoIncrement: c.IsPrimary > 0 && strings.EqualFold(c.Type, "INTEGER"),
			})
		}
		infos = append(infos, info)

		var fks []foreignKeyRow
		query = fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdentifier(name))
		if err := l.db.SelectContext(ctx, &fks, query); err != nil {
			return nil, fmt.Errorf("introspect foreign keys for %s: %w", name, err)
		}
		for _, fk := range fks {
			to := fk.To
			if to == "" {
				// An omitted "to" column references the target's primary key;
				// resolved after all tables are introspected.
				to = primaryKeyPlaceholder
			}
			fkInfos = append(fkInfos, loader.ForeignKeyInfo{
				Table:            name,
				Column:           fk.From,
				ReferencedTable:  fk.Table,
				ReferencedColumn: to,
			})
		}
	}

	fkInfos = resolvePrimaryKeyRefs(infos, fkInfos)

	return loader.BuildDatabase(l.dbName, l.Provider(), format, infos, fkInfos), nil
}

const primaryKeyPlaceholder = "\x00pk"

// resolvePrimaryKeyRefs fills in foreign keys that referenced an implicit
// primary key with the target table's actual single-column primary key.
// Keys into a composite primary key cannot be resolved and are dropped.
func resolvePrimaryKeyRefs(tables []loader.TableInfo, fks []loader.ForeignKeyInfo) []loader.ForeignKeyInfo {
	pkByTable := make(map[string]string)
	for _, t := range tables {
		for _, c := range t.Columns {
			if c.IsPrimaryKey {
				if _, dup := pkByTable[t.Name]; dup {
					pkByTable[t.Name] = "" // composite key, cannot resolve
				} else {
					pkByTable[t.Name] = c.Name
				}
			}
		}
	}
	out := fks[:0]
	for _, fk := range fks {
		if fk.ReferencedColumn == primaryKeyPlaceholder {
			fk.ReferencedColumn = pkByTable[fk.ReferencedTable]
		}
		if fk.ReferencedColumn == "" {
			continue
		}
		out = append(out, fk)
	}
	return out
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// mapType maps a SQLite declared type to the generated member type, using
// the same affinity heuristics SQLite applies.
func mapType(declared string) string {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "INT"):
		return "long"
	case strings.Contains(t, "BOOL"):
		return "bool"
	case strings.Contains(t, "DATE") || strings.Contains(t, "TIME"):
		return "DateTime"
	case strings.Contains(t, "REAL") || strings.Contains(t, "FLOA") || strings.Contains(t, "DOUB"):
		return "double"
	case strings.Contains(t, "DEC") || strings.Contains(t, "NUM"):
		return "decimal"
	case strings.Contains(t, "BLOB") || t == "":
		return "byte[]"
	default:
		return "string"
	}
}
