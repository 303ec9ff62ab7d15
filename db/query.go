// query.go implements arbitrary SQL execution.
//
// All functions accept a context and return structured results that
// callers (tools, TUI) can render. Errors are returned, never logged
// or printed; the tool layer decides how to present them.
package db

import (
	"context"
	"fmt"
	"strings"
)

// QueryResult holds the output of an arbitrary SQL statement.
type QueryResult struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Status   string // e.g. "(5 rows)", "OK, 2 rows affected"
}

// Execute runs an arbitrary SQL statement and returns results.
// Row-returning statements go through Query; everything else through
// Exec with a rows-affected status.
func (d *DB) Execute(ctx context.Context, query string) (*QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	if returnsRows(query) {
		return d.executeQuery(ctx, query)
	}
	return d.executeStatement(ctx, query)
}

// returnsRows classifies a statement by its leading keyword.
func returnsRows(query string) bool {
	fields := strings.Fields(strings.ToUpper(query))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "WITH", "VALUES", "SHOW", "EXPLAIN", "PRAGMA", "TABLE":
		return true
	}
	return false
}

// executeQuery runs a row-returning statement and collects results.
func (d *DB) executeQuery(ctx context.Context, query string) (*QueryResult, error) {
	rows, err := d.SQL.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &QueryResult{}

	result.Columns, err = rows.Columns()
	if err != nil {
		return nil, err
	}

	// Collect rows; database/sql needs scan targets, so scan into
	// interface{} holders and render each value as text.
	holders := make([]interface{}, len(result.Columns))
	ptrs := make([]interface{}, len(result.Columns))
	for i := range holders {
		ptrs[i] = &holders[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(holders))
		for i, v := range holders {
			row[i] = renderValue(v)
		}
		result.Rows = append(result.Rows, row)
		result.RowCount++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.Status = fmt.Sprintf("(%d row%s)", result.RowCount, plural(result.RowCount))
	return result, nil
}

// executeStatement runs a non-row statement (INSERT/UPDATE/DELETE/DDL).
func (d *DB) executeStatement(ctx context.Context, query string) (*QueryResult, error) {
	res, err := d.SQL.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers can't report affected rows for DDL.
		return &QueryResult{Status: "OK"}, nil
	}

	return &QueryResult{
		RowCount: int(affected),
		Status:   fmt.Sprintf("OK, %d row%s affected", affected, plural(int(affected))),
	}, nil
}

// renderValue formats a scanned value as display text.
func renderValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
