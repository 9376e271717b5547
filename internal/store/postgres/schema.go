package postgres

import (
	"context"
	"database/sql"
)

// ddl creates the companion schema. seq columns provide the monotonic
// insertion order used as the similarity-search tie-break; embedding columns
// are nullable so pre-migration rows simply drop out of ranking.
var ddl = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS customer (
        id                    uuid PRIMARY KEY,
        name                  text NOT NULL,
        industry              text,
        size                  text,
        region                text,
        status                text,
        jira_project_key      text,
        salesforce_account_id text,
        mainpage_url          text,
        created_at            timestamptz NOT NULL DEFAULT now(),
        updated_at            timestamptz NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS customer_alias (
        id          uuid PRIMARY KEY,
        seq         bigserial,
        customer_id uuid NOT NULL REFERENCES customer(id) ON DELETE CASCADE,
        alias       text NOT NULL,
        embedding   vector(1024)
    )`,
	`CREATE TABLE IF NOT EXISTS contact (
        id             uuid PRIMARY KEY,
        seq            bigserial,
        customer_id    uuid NOT NULL REFERENCES customer(id) ON DELETE CASCADE,
        name           text NOT NULL,
        role           text,
        email          text,
        phone          text,
        notes          text,
        name_embedding vector(1024)
    )`,
	`CREATE TABLE IF NOT EXISTS customer_note (
        id          uuid PRIMARY KEY,
        seq         bigserial,
        customer_id uuid NOT NULL REFERENCES customer(id) ON DELETE CASCADE,
        author      text NOT NULL,
        note_time   timestamptz NOT NULL,
        category    text,
        summary     text NOT NULL,
        full_note   text NOT NULL,
        tags        jsonb,
        source      text,
        embedding   vector(1024)
    )`,
	`CREATE TABLE IF NOT EXISTS task (
        id          uuid PRIMARY KEY,
        seq         bigserial,
        customer_id uuid NOT NULL REFERENCES customer(id) ON DELETE CASCADE,
        title       text NOT NULL,
        due_date    timestamptz,
        status      text,
        assigned_to text,
        summary     text NOT NULL,
        embedding   vector(1024)
    )`,
	`CREATE TABLE IF NOT EXISTS feature_request (
        id                 uuid PRIMARY KEY,
        seq                bigserial,
        customer_id        uuid NOT NULL REFERENCES customer(id) ON DELETE CASCADE,
        title              text NOT NULL,
        raw_input          text NOT NULL,
        summary            text NOT NULL,
        priority           text,
        status             text,
        estimated_delivery timestamptz,
        internal_notes     text,
        created_at         timestamptz NOT NULL DEFAULT now(),
        updated_at         timestamptz NOT NULL DEFAULT now(),
        embedding          vector(1024)
    )`,
	`CREATE INDEX IF NOT EXISTS customer_alias_customer_idx ON customer_alias (customer_id)`,
	`CREATE INDEX IF NOT EXISTS contact_customer_idx ON contact (customer_id)`,
	`CREATE INDEX IF NOT EXISTS customer_note_customer_idx ON customer_note (customer_id)`,
	`CREATE INDEX IF NOT EXISTS task_customer_idx ON task (customer_id)`,
	`CREATE INDEX IF NOT EXISTS feature_request_customer_idx ON feature_request (customer_id)`,
}

// EnsureSchema creates the pgvector extension and all tables if absent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Bootstrap opens a connection, applies the schema and closes again.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return EnsureSchema(ctx, db)
}
