// Package testhelpers provides a migrated PostgreSQL database for integration tests.
//
// By default the database is taken from TEST_DB_URL and tests are skipped when
// it is unset. Building with the "container" tag starts a disposable
// PostgreSQL container with testcontainers-go instead.
package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/sangkips/customer-data-service/internal/db"
)

// OpenDB returns a connection to a database with the service schema applied.
// Integration tests are skipped in short mode.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	conn, err := sql.Open("postgres", databaseURL(t))
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := conn.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

// BeginTx starts a transaction that is rolled back when the test ends, so
// tests never see each other's rows.
func BeginTx(t *testing.T, conn *sql.DB, cleanup ...string) *sql.Tx {
	t.Helper()

	tx, err := conn.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	t.Cleanup(func() { tx.Rollback() })

	for _, table := range cleanup {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean up %s: %v", table, err)
		}
	}

	return tx
}
