package db_test

import (
	"testing"

	"github.com/rsanur/libra-go/internal/testutil"
)

func TestMigratedSchema(t *testing.T) {
	// Setup test database with migrations already applied
	db := testutil.SetupTestDB(t)

	// Verify foreign keys are enabled
	var foreignKeysEnabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysEnabled)
	if err != nil {
		t.Fatalf("Failed to check foreign keys status: %v", err)
	}
	if foreignKeysEnabled != 1 {
		t.Errorf("Foreign keys should be enabled, got: %d", foreignKeysEnabled)
	}

	// Verify the books table exists with its required columns
	_, err = db.Exec(`INSERT INTO books
		(title, author, genre, file_path, file_name, file_size, extraction_method, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"Dune", "Frank Herbert", "Science Fiction", "/books/dune.pdf", "dune.pdf", 1024, "properties", 55)
	if err != nil {
		t.Fatalf("Failed to insert into books table: %v", err)
	}

	// The file path carries a uniqueness constraint.
	_, err = db.Exec(`INSERT INTO books
		(title, author, genre, file_path, file_name, file_size, extraction_method, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"Dune Again", "Frank Herbert", "Science Fiction", "/books/dune.pdf", "dune.pdf", 1024, "properties", 55)
	if err == nil {
		t.Error("Expected a uniqueness violation on duplicate file_path, got none")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM books").Scan(&count); err != nil {
		t.Fatalf("Failed to count books: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 book after duplicate rejection, got %d", count)
	}
}
