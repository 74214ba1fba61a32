package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const llmRequestsTable = "llm_requests"

var (
	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString, Default: ""},
		{Name: "model", Type: field.TypeString, Default: ""},
		{Name: "purpose", Type: field.TypeString, Default: ""},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool, Default: false},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}

	llmRequestsSchema = &schema.Table{
		Name:       llmRequestsTable,
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Columns: []*schema.Column{llmRequestsColumns[4]}},
			{Name: "llmrequest_created_at", Columns: []*schema.Column{llmRequestsColumns[1]}},
		},
	}

	tables = []*schema.Table{llmRequestsSchema}
)

// migrate creates or updates the tables through ent's migration engine.
// Existing rows are kept.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
