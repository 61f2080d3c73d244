package db

import (
	"path/filepath"
	"testing"

	"github.com/campusai/teachassist/internal/platform/logger"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	svc, err := Open(logger.Nop(), Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "t.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer svc.Close()
	if svc.Driver() != DriverSQLite {
		t.Fatalf("driver = %s", svc.Driver())
	}
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []string{"user_progress", "topic_progress", "quiz_record", "lab_record", "achievement", "syllabus_document", "syllabus_chunk"} {
		if !svc.DB().Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestOpenDefaultsToSQLiteWithoutHost(t *testing.T) {
	svc, err := Open(logger.Nop(), Config{SQLitePath: filepath.Join(t.TempDir(), "d.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer svc.Close()
	if svc.Driver() != DriverSQLite {
		t.Fatalf("driver = %s", svc.Driver())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(logger.Nop(), Config{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDSN(t *testing.T) {
	c := Config{PostgresUser: "u", PostgresPassword: "p", PostgresHost: "h", PostgresPort: "5432", PostgresName: "n"}
	if got := c.DSN(); got != "postgres://u:p@h:5432/n?sslmode=disable" {
		t.Fatalf("DSN = %s", got)
	}
}
