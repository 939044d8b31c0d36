package repository

import (
	"context"
	"fmt"

	"github.com/go-kivik/kivik/v4"
)

// indexes back the Mango selectors the repositories issue.
var indexes = []struct {
	name   string
	fields []string
}{
	{name: "doc-type", fields: []string{"doc_type"}},
	{name: "doc-type-slug", fields: []string{"doc_type", "slug"}},
	{name: "doc-type-email", fields: []string{"doc_type", "email"}},
}

// EnsureDatabase creates the database when it is missing and installs the
// indexes. Existing indexes are left untouched by CouchDB.
func EnsureDatabase(ctx context.Context, client *kivik.Client, dbName string) (created bool, err error) {
	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return false, fmt.Errorf("failed to create database: %w", err)
		}
	}

	db := client.DB(dbName)
	for _, idx := range indexes {
		def := map[string]interface{}{"fields": idx.fields}
		if err := db.CreateIndex(ctx, "storefront", idx.name, def); err != nil {
			return !exists, fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return !exists, nil
}
