// service_test.go provides shared helpers for the service integration
// tests. Tests are skipped if PostgreSQL is not available; the tree
// cache is disabled so every read hits the database.
package service

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"treecms/internal/database"
	"treecms/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "treecms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "treecms")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testServices wires the full service stack over one DB connection.
type testServices struct {
	db         *sql.DB
	categories *CategoryService
	contents   *ContentService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testDB(t)
	logger := testLogger()
	categoryStore := store.NewCategoryStore(db)
	contentStore := store.NewContentStore(db)
	return &testServices{
		db:         db,
		categories: NewCategoryService(categoryStore, nil, logger),
		contents:   NewContentService(contentStore, categoryStore, logger),
	}
}

// cleanSubtree removes a test category subtree and any content under it.
func (ts *testServices) cleanSubtree(t *testing.T, rootID uuid.UUID) {
	t.Helper()
	prefix := rootID.String()
	ts.db.Exec(`DELETE FROM contents WHERE category_id IN (SELECT id FROM categories WHERE path = $1 OR path LIKE $1 || '/%')`, prefix)
	ts.db.Exec(`DELETE FROM categories WHERE path = $1 OR path LIKE $1 || '/%'`, prefix)
}
