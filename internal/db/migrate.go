package db

import (
	"context"
	"database/sql"
)

type DB struct {
	*sql.DB
}

const schemaMigration = `
CREATE TABLE IF NOT EXISTS oauth_credentials (
    user_id text PRIMARY KEY,
    access_token text NOT NULL,
    refresh_token text NOT NULL,
    expires_at integer NOT NULL
);

CREATE TABLE IF NOT EXISTS identities (
    provider text NOT NULL,
    id text NOT NULL,
    display_name text NOT NULL,
    member integer NOT NULL DEFAULT 0,
    PRIMARY KEY (provider, id)
);

CREATE TABLE IF NOT EXISTS account_links (
    discord_id text PRIMARY KEY,
    dsek_id text NOT NULL
);
`

func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
