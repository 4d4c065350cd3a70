package database

import "testing"

// NewTestDB opens an in-memory sqlite database with the schema applied and
// closes it when the test finishes.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	// Each new connection to :memory: is a separate empty database, so keep
	// the pool at one connection even under concurrent requests.
	db.Conn().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}
