// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rsanur/libra-go/internal/models"
)

// ErrNotFound is returned when a requested book does not exist.
var ErrNotFound = errors.New("book not found")

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const bookColumns = `id, title, author, genre, description, file_path, file_name,
	file_size, cover_path, cover_name, cover_origin, cover_is_fallback,
	original_file_name, original_file_size, page_count, extraction_method,
	confidence, created_at, updated_at`

// CreateBook inserts a new book record and returns it with its assigned ID.
func (s *Store) CreateBook(b *models.Book) (*models.Book, error) {
	if b.Title == "" {
		return nil, fmt.Errorf("book title cannot be empty")
	}

	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO books (title, author, genre, description, file_path, file_name,
			file_size, cover_path, cover_name, cover_origin, cover_is_fallback,
			original_file_name, original_file_size, page_count, extraction_method,
			confidence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Author, b.Genre, b.Description, b.FilePath, b.FileName,
		b.FileSize, nullString(b.CoverPath), nullString(b.CoverName),
		nullString(b.CoverOrigin), b.CoverIsFallback,
		nullString(b.OriginalFileName), nullInt64(b.OriginalFileSize),
		nullInt(b.PageCount), b.ExtractionMethod, b.Confidence, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetBook(id)
}

// GetBook retrieves a single book by its primary key.
func (s *Store) GetBook(id int64) (*models.Book, error) {
	row := s.db.QueryRow("SELECT "+bookColumns+" FROM books WHERE id = ?", id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return book, err
}

// ListBooks returns all books, newest first.
func (s *Store) ListBooks() ([]*models.Book, error) {
	rows, err := s.db.Query("SELECT " + bookColumns + " FROM books ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// DeleteBook removes a book record. The caller is responsible for removing
// the stored files.
func (s *Store) DeleteBook(id int64) error {
	res, err := s.db.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBooks returns the total number of book records.
func (s *Store) CountBooks() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM books").Scan(&count)
	return count, err
}

// UpdateBookCover sets the cover reference for an existing book.
func (s *Store) UpdateBookCover(id int64, cover *models.CoverResult) error {
	_, err := s.db.Exec(`
		UPDATE books SET cover_path = ?, cover_name = ?, cover_origin = ?,
			cover_is_fallback = ?, updated_at = ?
		WHERE id = ?`,
		cover.Path, cover.FileName, cover.Origin, cover.IsFallback, time.Now(), id)
	return err
}

// GetBooksWithoutCover returns books that have no cover reference. Used by
// the cover regeneration job.
func (s *Store) GetBooksWithoutCover() ([]*models.Book, error) {
	rows, err := s.db.Query("SELECT " + bookColumns + " FROM books WHERE cover_path IS NULL OR cover_path = ''")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for scanBook.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row scanner) (*models.Book, error) {
	var b models.Book
	var coverPath, coverName, coverOrigin, origName sql.NullString
	var origSize, pageCount sql.NullInt64
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description,
		&b.FilePath, &b.FileName, &b.FileSize, &coverPath, &coverName,
		&coverOrigin, &b.CoverIsFallback, &origName, &origSize, &pageCount,
		&b.ExtractionMethod, &b.Confidence, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.CoverPath = coverPath.String
	b.CoverName = coverName.String
	b.CoverOrigin = coverOrigin.String
	b.OriginalFileName = origName.String
	b.OriginalFileSize = origSize.Int64
	b.PageCount = int(pageCount.Int64)
	if b.CoverName != "" {
		b.CoverURL = "/uploads/covers/" + b.CoverName
	}
	return &b, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i int) interface{} {
	if i == 0 {
		return nil
	}
	return i
}

func nullInt64(i int64) interface{} {
	if i == 0 {
		return nil
	}
	return i
}
