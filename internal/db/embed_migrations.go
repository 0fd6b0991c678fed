package db

import "embed"

// MigrationFS embeds the schema migrations: accounts, roles and permissions,
// refresh_tokens and audit_logs. Applied by cmd/migrate through the migrate package.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
