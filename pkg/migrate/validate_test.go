package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const validMigration = `-- +goose Up
CREATE TABLE widgets (id TEXT PRIMARY KEY);

-- +goose Down
DROP TABLE widgets;
`

func TestValidateDirAcceptsWellFormedFiles(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101120000_create_widgets.sql", validMigration)
	writeMigration(t, dir, "20260102120000_add_index.sql", validMigration)

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("expected success got %v", err)
	}
}

func TestValidateDirAllowsEmptyDir(t *testing.T) {
	if err := ValidateDir(t.TempDir()); err != nil {
		t.Fatalf("expected success got %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "create_widgets.sql", validMigration)

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateDirRejectsMissingGooseHeaders(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260101120000_create_widgets.sql", "CREATE TABLE widgets (id TEXT);")

	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected error")
	}
	// both the Up and Down complaints surface in one pass
	if !strings.Contains(err.Error(), "+goose Up") || !strings.Contains(err.Error(), "+goose Down") {
		t.Fatalf("expected combined errors got %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Stock Movements!")
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !strings.HasSuffix(path, "_add_stock_movements.sql") {
		t.Fatalf("unexpected filename %s", path)
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration must validate: %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("expected error")
	}
}
