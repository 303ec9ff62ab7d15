// tools.go defines the three callbacks exposed to the model:
// get_schema, execute_sql, save_data_to_csv.
//
// Tool results are plain strings. SQL failures are folded into the
// result text rather than returned as errors, so the model can read
// what went wrong and adjust its next query.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/DachengChen/askql/db"
	"github.com/DachengChen/askql/export"
)

// GetSchemaTool builds the schema introspection tool.
func GetSchemaTool(d *db.DB) Tool {
	return Tool{
		Name: "get_schema",
		Description: "Retrieves database schema information and accepts a single argument table_name (string, optional) — " +
			"if omitted it returns a list of all table names, and if a specific table name is provided it returns that " +
			"table's columns and their data types; use it to explore the database structure and verify table and column " +
			"names before building queries.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"table_name": {"type": "string", "description": "Table to describe; omit to list all tables"}
			}
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				TableName string `json:"table_name"`
			}
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return "", fmt.Errorf("parse arguments: %w", err)
				}
			}

			if in.TableName == "" {
				names, err := d.ListTables(ctx)
				if err != nil {
					return "", err
				}
				if len(names) == 0 {
					return "No tables found in the database.", nil
				}
				return "Tables in the database: " + strings.Join(names, ", "), nil
			}

			exists, err := d.TableExists(ctx, in.TableName)
			if err != nil {
				return "", err
			}
			if !exists {
				return fmt.Sprintf("table %q not found", in.TableName), nil
			}

			ts, err := d.DescribeTable(ctx, in.TableName)
			if err != nil {
				return "", err
			}

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Table %s:\n", ts.Name))
			for _, col := range ts.Columns {
				sb.WriteString("- " + db.FormatColumn(col) + "\n")
			}
			return sb.String(), nil
		},
	}
}

// ExecuteSQLTool builds the SQL execution tool. Every executed
// statement, including failures, is appended to history when one
// is attached, in call order.
func ExecuteSQLTool(d *db.DB, history *db.History) Tool {
	return Tool{
		Name: "execute_sql",
		Description: "Executes any SQL statement against the database (SELECT, INSERT, UPDATE, DELETE) and accepts a " +
			"single argument query (string) containing a valid SQL command; for SELECT queries it returns the result rows " +
			"as a string, for INSERT/UPDATE/DELETE it returns a success confirmation message, and if the execution fails " +
			"it returns the error message — use it to fetch data, add records, update existing rows, or remove records.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "The SQL statement to execute"}
			},
			"required": ["query"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("parse arguments: %w", err)
			}

			start := time.Now()
			result, err := d.Execute(ctx, in.Query)
			elapsed := time.Since(start)

			if history != nil {
				entry := db.HistoryEntry{
					SQL:      in.Query,
					Status:   db.HistoryOK,
					Duration: elapsed,
				}
				if err != nil {
					entry.Status = db.HistoryError
					entry.Error = err.Error()
				} else {
					entry.Rows = result.RowCount
				}
				history.Append(entry)
			}

			// SQL failures are folded into the result string so the
			// model can read and react to them.
			if err != nil {
				return "SQL error: " + err.Error(), nil
			}
			return FormatQueryResult(result), nil
		},
	}
}

// SaveCSVTool builds the CSV export tool. exportDir anchors relative
// file paths so the model can't scatter files around the filesystem.
func SaveCSVTool(exportDir string) Tool {
	return Tool{
		Name: "save_data_to_csv",
		Description: "Saves query results to a CSV file when explicitly requested by the user. Accepts file_path (string) " +
			"specifying the output file name, plus either columns (array of strings) and rows (array of row arrays) for " +
			"structured data, or data (string) containing a pre-formatted block. Optionally, a short query_description " +
			"(string) can be included as metadata. Intended for manual export of data for analysis or reporting, so use " +
			"it only when a specific file name or export action is requested. Returns a success message with the path of " +
			"the saved file.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file_path": {"type": "string", "description": "Output file path or name"},
				"columns": {"type": "array", "items": {"type": "string"}, "description": "Column headers"},
				"rows": {"type": "array", "items": {"type": "array"}, "description": "Data rows, one array per row"},
				"data": {"type": "string", "description": "Pre-formatted CSV block, used when rows is absent"},
				"query_description": {"type": "string", "description": "Short description of the exported query"}
			},
			"required": ["file_path"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				FilePath         string          `json:"file_path"`
				Columns          []string        `json:"columns"`
				Rows             [][]interface{} `json:"rows"`
				Data             string          `json:"data"`
				QueryDescription string          `json:"query_description"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("parse arguments: %w", err)
			}
			if in.FilePath == "" {
				return "", fmt.Errorf("file_path is required")
			}

			path := resolveExportPath(exportDir, in.FilePath)

			var saved string
			var err error
			if len(in.Rows) > 0 {
				rows := make([][]string, len(in.Rows))
				for i, row := range in.Rows {
					cells := make([]string, len(row))
					for j, v := range row {
						cells[j] = renderCell(v)
					}
					rows[i] = cells
				}
				saved, err = export.WriteCSV(path, in.Columns, rows)
			} else {
				saved, err = export.WriteString(path, in.Data)
			}
			if err != nil {
				return "", err
			}

			msg := "Data saved successfully to " + saved
			if in.QueryDescription != "" {
				msg += " (" + in.QueryDescription + ")"
			}
			return msg, nil
		},
	}
}

// DefaultTools wires the standard three-tool set.
func DefaultTools(d *db.DB, history *db.History, exportDir string) []Tool {
	return []Tool{
		GetSchemaTool(d),
		ExecuteSQLTool(d, history),
		SaveCSVTool(exportDir),
	}
}

// FormatQueryResult renders a query result as text for the model.
func FormatQueryResult(res *db.QueryResult) string {
	if len(res.Columns) == 0 {
		return res.Status
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(res.Columns, " | "))
	sb.WriteString("\n")
	for _, row := range res.Rows {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}
	sb.WriteString(res.Status)
	return sb.String()
}

// resolveExportPath anchors relative paths under exportDir.
func resolveExportPath(exportDir, path string) string {
	if exportDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(exportDir, path)
}

// renderCell formats one JSON value as CSV cell text.
func renderCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// json numbers decode as float64; keep integers clean
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
