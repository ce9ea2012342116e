package services_test

import (
	"path/filepath"
	"testing"

	"github.com/ardelest/textgen-web-ui/internal/services"
)

func newTestBoltDB(t *testing.T) services.BoltDB {
	t.Helper()

	db, err := services.NewBoltDB(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("NewBoltDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBoltDBSetGet(t *testing.T) {
	db := newTestBoltDB(t)

	if err := db.Set("endpoint_base", "http://x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := db.Get("endpoint_base")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "http://x" {
		t.Errorf("Get() = %q, want %q", got, "http://x")
	}
}

func TestBoltDBGetMissing(t *testing.T) {
	db := newTestBoltDB(t)

	got, err := db.Get("nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Get() on missing key = %q, want empty", got)
	}
}

func TestBoltDBSetEmptyRemoves(t *testing.T) {
	db := newTestBoltDB(t)

	if err := db.Set("auth_token", "secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	// Empty settings are not stored; setting an empty value deletes the key.
	if err := db.Set("auth_token", ""); err != nil {
		t.Fatalf("Set(empty) error = %v", err)
	}

	got, err := db.Get("auth_token")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Get() after empty Set = %q, want empty", got)
	}
}

func TestBoltDBClear(t *testing.T) {
	db := newTestBoltDB(t)

	if err := db.Set("auth_token", "secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Clear("auth_token"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if got, _ := db.Get("auth_token"); got != "" {
		t.Errorf("Get() after Clear = %q, want empty", got)
	}

	// Clearing a missing key is a no-op.
	if err := db.Clear("auth_token"); err != nil {
		t.Errorf("Clear() on missing key error = %v", err)
	}
}

func TestBoltDBPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	db, err := services.NewBoltDB(path)
	if err != nil {
		t.Fatalf("NewBoltDB() error = %v", err)
	}
	if err := db.Set("endpoint_base", "http://x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	db, err = services.NewBoltDB(path)
	if err != nil {
		t.Fatalf("NewBoltDB() reopen error = %v", err)
	}
	defer db.Close()

	got, err := db.Get("endpoint_base")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "http://x" {
		t.Errorf("Get() after reopen = %q, want %q", got, "http://x")
	}
}
