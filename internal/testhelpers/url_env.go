//go:build !container

package testhelpers

import (
	"os"
	"testing"
)

func databaseURL(t *testing.T) string {
	t.Helper()

	dbURL := os.Getenv("TEST_DB_URL")
	if dbURL == "" {
		t.Skip("TEST_DB_URL not set, skipping integration test")
	}
	return dbURL
}
