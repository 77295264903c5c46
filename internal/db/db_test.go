package db

import (
	"path/filepath"
	"testing"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error when path is empty")
	}
}

func TestOpenAppliesPoolBounds(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	conn, err := Open(Options{
		Path:         filepath.Join(dir, "bounds.db"),
		MaxOpenConns: 3,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer func() {
		if closeErr := Close(conn); closeErr != nil {
			t.Fatalf("Close returned error: %v", closeErr)
		}
	}()

	sqlDB, err := SQLDB(conn)
	if err != nil {
		t.Fatalf("SQLDB returned error: %v", err)
	}

	if got := sqlDB.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("expected max open connections 3, got %d", got)
	}
}

func TestCloseNilIsNoop(t *testing.T) {
	t.Parallel()

	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil) returned error: %v", err)
	}
}

func TestSQLDBNil(t *testing.T) {
	t.Parallel()

	if _, err := SQLDB(nil); err == nil {
		t.Fatalf("expected error for nil gorm.DB")
	}
}
