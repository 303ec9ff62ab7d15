// schema.go provides schema introspection for both drivers.
//
// These functions gather table names and column definitions, and format
// them as a text block suitable for injection into the agent's prompt
// context. Introspection SQL differs per driver: information_schema for
// PostgreSQL, sqlite_master + PRAGMA table_info for SQLite.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/askql/config"
)

// ColumnInfo describes a single column in a table.
type ColumnInfo struct {
	Name       string
	DataType   string
	IsNullable bool
	Default    string
	IsPK       bool
}

// TableSchema holds schema information for a table.
type TableSchema struct {
	Name    string
	Columns []ColumnInfo
}

// ListTables returns the names of all user tables, sorted.
func (d *DB) ListTables(ctx context.Context) ([]string, error) {
	var query string
	switch d.Driver {
	case config.DriverPostgres:
		query = `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	case config.DriverSQLite:
		query = `
			SELECT name
			FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name`
	default:
		return nil, fmt.Errorf("unknown driver %q", d.Driver)
	}

	rows, err := d.SQL.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableExists reports whether a user table with the given name exists.
func (d *DB) TableExists(ctx context.Context, table string) (bool, error) {
	var query string
	switch d.Driver {
	case config.DriverPostgres:
		query = `SELECT count(*) FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1`
	case config.DriverSQLite:
		query = `SELECT count(*) FROM sqlite_master
			WHERE type = 'table' AND name = ?`
	default:
		return false, fmt.Errorf("unknown driver %q", d.Driver)
	}

	var n int
	if err := d.SQL.QueryRowContext(ctx, query, table).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DescribeTable retrieves column definitions for a table.
func (d *DB) DescribeTable(ctx context.Context, table string) (*TableSchema, error) {
	switch d.Driver {
	case config.DriverPostgres:
		return d.describePostgres(ctx, table)
	case config.DriverSQLite:
		return d.describeSQLite(ctx, table)
	default:
		return nil, fmt.Errorf("unknown driver %q", d.Driver)
	}
}

func (d *DB) describePostgres(ctx context.Context, table string) (*TableSchema, error) {
	query := `
		SELECT c.column_name, c.data_type,
		       c.is_nullable = 'YES',
		       COALESCE(c.column_default, ''),
		       EXISTS(
		         SELECT 1
		         FROM information_schema.table_constraints tc
		         JOIN information_schema.key_column_usage kcu
		           ON kcu.constraint_name = tc.constraint_name
		          AND kcu.table_schema = tc.table_schema
		         WHERE tc.table_schema = c.table_schema
		           AND tc.table_name = c.table_name
		           AND tc.constraint_type = 'PRIMARY KEY'
		           AND kcu.column_name = c.column_name)
		FROM information_schema.columns c
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position`

	rows, err := d.SQL.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	ts := &TableSchema{Name: table}
	for rows.Next() {
		var col ColumnInfo
		if err := rows.Scan(&col.Name, &col.DataType, &col.IsNullable, &col.Default, &col.IsPK); err != nil {
			return nil, err
		}
		ts.Columns = append(ts.Columns, col)
	}
	return ts, rows.Err()
}

func (d *DB) describeSQLite(ctx context.Context, table string) (*TableSchema, error) {
	// PRAGMA doesn't take bind parameters; quote_ident-style escaping
	// by doubling quotes keeps the identifier safe.
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))

	rows, err := d.SQL.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	ts := &TableSchema{Name: table}
	for rows.Next() {
		var (
			cid      int
			name     string
			dataType string
			notNull  int
			dflt     *string
			pk       int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		col := ColumnInfo{
			Name:       name,
			DataType:   dataType,
			IsNullable: notNull == 0,
			IsPK:       pk > 0,
		}
		if dflt != nil {
			col.Default = *dflt
		}
		ts.Columns = append(ts.Columns, col)
	}
	return ts, rows.Err()
}

// FetchAllSchemas describes every user table in the database.
func (d *DB) FetchAllSchemas(ctx context.Context) ([]*TableSchema, error) {
	names, err := d.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	var schemas []*TableSchema
	for _, name := range names {
		ts, err := d.DescribeTable(ctx, name)
		if err != nil {
			// Skip tables we can't describe (e.g. missing permissions)
			continue
		}
		schemas = append(schemas, ts)
	}
	return schemas, nil
}

// FormatSchemaContext builds a text description of all tables, suitable
// for injection into the agent's initial prompt context.
func FormatSchemaContext(schemas []*TableSchema) string {
	if len(schemas) == 0 {
		return "(no tables found)"
	}

	var sb strings.Builder
	for i, ts := range schemas {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("## Table: %s\n", ts.Name))
		for _, col := range ts.Columns {
			sb.WriteString("- " + FormatColumn(col) + "\n")
		}
	}
	return sb.String()
}

// FormatColumn renders one column definition as a single line.
func FormatColumn(col ColumnInfo) string {
	nullable := "NULL"
	if !col.IsNullable {
		nullable = "NOT NULL"
	}
	pk := ""
	if col.IsPK {
		pk = " [PK]"
	}
	def := ""
	if col.Default != "" {
		def = " DEFAULT " + col.Default
	}
	return fmt.Sprintf("%s %s %s%s%s", col.Name, col.DataType, nullable, pk, def)
}
