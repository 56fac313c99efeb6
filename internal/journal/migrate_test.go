package journal

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/mattn/go-sqlite3"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countMigrations(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + tableName).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	return n
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate (second run): %v", err)
	}
	if n := countMigrations(t, db); n != 1 {
		t.Errorf("applied migrations = %d; want 1", n)
	}
	if _, err := db.Exec("SELECT id FROM fetches LIMIT 1"); err != nil {
		t.Errorf("fetches table missing: %v", err)
	}
}

func TestMigrate_OrderAndSkip(t *testing.T) {
	db := openMemory(t)
	fsys := fstest.MapFS{
		"m/0002_second.sql": {Data: []byte("ALTER TABLE a ADD COLUMN b TEXT;")},
		"m/0001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER); CREATE TABLE c (id INTEGER);")},
		"m/README.md":       {Data: []byte("not a migration")},
	}

	if err := migrateFS(context.Background(), db, fsys, "m"); err != nil {
		t.Fatalf("migrateFS: %v", err)
	}
	if n := countMigrations(t, db); n != 2 {
		t.Errorf("applied migrations = %d; want 2", n)
	}
	// both statements of a multi-statement file ran
	if _, err := db.Exec("INSERT INTO c (id) VALUES (1)"); err != nil {
		t.Errorf("table c missing: %v", err)
	}
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	db := openMemory(t)
	fsys := fstest.MapFS{
		"m/0001_broken.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); THIS IS NOT SQL;")},
	}

	if err := migrateFS(context.Background(), db, fsys, "m"); err == nil {
		t.Fatal("migrateFS: got nil, want error")
	}
	if n := countMigrations(t, db); n != 0 {
		t.Errorf("applied migrations = %d; want 0", n)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		in      string
		version string
		name    string
		ok      bool
	}{
		{"0001_schema.sql", "0001", "schema", true},
		{"0010_add_index.sql", "0010", "add_index", true},
		{"1_schema.sql", "", "", false},
		{"0001_schema.txt", "", "", false},
	}
	for _, tt := range tests {
		v, n, ok := parseMigrationFilename(tt.in)
		if v != tt.version || n != tt.name || ok != tt.ok {
			t.Errorf("parseMigrationFilename(%q) = %q, %q, %t; want %q, %q, %t", tt.in, v, n, ok, tt.version, tt.name, tt.ok)
		}
	}
}
