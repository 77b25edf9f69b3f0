// Package bootstrap initializes the ArcadeDB schema the service relies on.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cynnycty/backend/pkg/arcade"
)

// schemaStatements define the Profile document type. Order matters: the
// type before its properties, the properties before their indexes. The
// unique index on clerkId is what makes the first-contact race safe, so
// the service must not accept traffic until these have run.
var schemaStatements = []string{
	"CREATE DOCUMENT TYPE Profile",

	"CREATE PROPERTY Profile.userId STRING",
	"CREATE PROPERTY Profile.clerkId STRING",
	"CREATE PROPERTY Profile.displayName STRING",
	"CREATE PROPERTY Profile.email STRING",
	"CREATE PROPERTY Profile.aboutMe STRING",
	"CREATE PROPERTY Profile.avatarUrl STRING",
	"CREATE PROPERTY Profile.createdAt DATETIME",
	"CREATE PROPERTY Profile.updatedAt DATETIME",

	"CREATE INDEX Profile_userId_idx ON Profile (userId) UNIQUE",
	"CREATE INDEX Profile_clerkId_idx ON Profile (clerkId) UNIQUE",
}

// EnsureSchema idempotently applies the schema. Statements that fail
// because the type, property, or index already exists are skipped; any
// other failure aborts.
func EnsureSchema(ctx context.Context, client *arcade.Client) error {
	slog.Info("Initializing database schema", "database", client.Database())

	for _, statement := range schemaStatements {
		_, err := client.Command(ctx, statement, nil)
		if err == nil {
			continue
		}
		if isAlreadyExists(err) {
			slog.Debug("Schema statement skipped, already applied", "statement", statement)
			continue
		}
		return fmt.Errorf("schema statement %q failed: %w", statement, err)
	}

	slog.Info("Database schema ready")
	return nil
}

func isAlreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "already defined")
}

// SchemaInitialized reports whether the Profile type is present.
func SchemaInitialized(ctx context.Context, client *arcade.Client) (bool, error) {
	rows, err := client.Query(ctx, "SELECT FROM schema:types WHERE name = 'Profile'", nil)
	if err != nil {
		return false, fmt.Errorf("failed to check schema: %w", err)
	}
	return len(rows) > 0, nil
}
