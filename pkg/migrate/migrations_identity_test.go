package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIdentityMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_identity_tables.sql")

	checks := []string{
		"CREATE TYPE account_role AS ENUM",
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS companies",
		"CREATE TABLE IF NOT EXISTS retailers",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCatalogReferenceMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_catalog_reference_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TYPE discount_kind AS ENUM",
		"CREATE TABLE IF NOT EXISTS promotions",
		"CREATE TABLE IF NOT EXISTS product_promotions",
		"PRIMARY KEY (promotion_id, product_id)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
