package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTables(t *testing.T) {
	d := setupTestDB(t)

	_, err := d.SQL.Exec(`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER)`)
	require.NoError(t, err)

	names, err := d.ListTables(context.Background())
	require.NoError(t, err)

	// sqlite_sequence (from AUTOINCREMENT) must be filtered out
	assert.Equal(t, []string{"orders", "users"}, names)
}

func TestTableExists(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	exists, err := d.TableExists(ctx, "users")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = d.TableExists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDescribeTable(t *testing.T) {
	d := setupTestDB(t)

	ts, err := d.DescribeTable(context.Background(), "users")
	require.NoError(t, err)

	require.Len(t, ts.Columns, 4)
	assert.Equal(t, "users", ts.Name)

	id := ts.Columns[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, "INTEGER", id.DataType)
	assert.True(t, id.IsPK)

	name := ts.Columns[1]
	assert.Equal(t, "name", name.Name)
	assert.False(t, name.IsNullable)
	assert.False(t, name.IsPK)

	email := ts.Columns[2]
	assert.True(t, email.IsNullable)
}

func TestFetchAllSchemas(t *testing.T) {
	d := setupTestDB(t)

	schemas, err := d.FetchAllSchemas(context.Background())
	require.NoError(t, err)

	require.Len(t, schemas, 1)
	assert.Equal(t, "users", schemas[0].Name)
	assert.Len(t, schemas[0].Columns, 4)
}

func TestFormatSchemaContext(t *testing.T) {
	schemas := []*TableSchema{
		{
			Name: "users",
			Columns: []ColumnInfo{
				{Name: "id", DataType: "INTEGER", IsPK: true},
				{Name: "name", DataType: "TEXT", IsNullable: true},
			},
		},
	}

	out := FormatSchemaContext(schemas)
	assert.Contains(t, out, "## Table: users")
	assert.Contains(t, out, "- id INTEGER NOT NULL [PK]")
	assert.Contains(t, out, "- name TEXT NULL")
}

func TestFormatSchemaContextEmpty(t *testing.T) {
	assert.Equal(t, "(no tables found)", FormatSchemaContext(nil))
}
