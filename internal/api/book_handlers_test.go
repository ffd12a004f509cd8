package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rsanur/libra-go/internal/api"
	"github.com/rsanur/libra-go/internal/testutil"
)

// uploadBook posts a multipart book upload and returns the recorder.
func uploadBook(t *testing.T, server *api.Server, filePath, fileName string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filePath != "" {
		part, err := writer.CreateFormFile("book_file", fileName)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		f, err := os.Open(filePath)
		if err != nil {
			t.Fatalf("Failed to open fixture: %v", err)
		}
		defer f.Close()
		if _, err := io.Copy(part, f); err != nil {
			t.Fatalf("Failed to copy fixture into form: %v", err)
		}
	}
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/books", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	return rr
}

func TestCreateBookHandler(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	pdfPath := testutil.CreateTestPDF(t, t.TempDir(), "fixture.pdf")

	rr := uploadBook(t, server, pdfPath, "Dune - Frank Herbert.pdf", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Book struct {
			ID     int64  `json:"id"`
			Title  string `json:"title"`
			Author string `json:"author"`
			Genre  string `json:"genre"`
		} `json:"book"`
		CoverError string `json:"cover_error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Book.Title != "Dune" || resp.Book.Author != "Frank Herbert" {
		t.Errorf("got title=%q author=%q", resp.Book.Title, resp.Book.Author)
	}
	if resp.Book.Genre != "Science Fiction" {
		t.Errorf("expected Science Fiction, got %q", resp.Book.Genre)
	}
	if resp.CoverError != "" {
		t.Errorf("unexpected cover error: %s", resp.CoverError)
	}
}

func TestCreateBookHandlerUserFields(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	pdfPath := testutil.CreateTestPDF(t, t.TempDir(), "fixture.pdf")

	fields := map[string]string{
		"title":       "My Field Notes",
		"author":      "R. Observer",
		"genre":       "Science",
		"description": "notebook scans",
	}
	rr := uploadBook(t, server, pdfPath, "scan0001.pdf", fields)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Book struct {
			Title       string `json:"title"`
			Author      string `json:"author"`
			Genre       string `json:"genre"`
			Description string `json:"description"`
		} `json:"book"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Book.Title != "My Field Notes" || resp.Book.Author != "R. Observer" {
		t.Errorf("user fields lost: %+v", resp.Book)
	}
	if resp.Book.Genre != "Science" || resp.Book.Description != "notebook scans" {
		t.Errorf("user genre/description lost: %+v", resp.Book)
	}
}

func TestCreateBookHandlerErrors(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	t.Run("missing file field", func(t *testing.T) {
		rr := uploadBook(t, server, "", "", map[string]string{"title": "No File"})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("unsupported file type", func(t *testing.T) {
		txtPath := t.TempDir() + "/notes.txt"
		if err := os.WriteFile(txtPath, []byte("text"), 0644); err != nil {
			t.Fatalf("Failed to write fixture: %v", err)
		}
		rr := uploadBook(t, server, txtPath, "notes.txt", nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("nothing to extract and no input", func(t *testing.T) {
		pdfPath := testutil.CreateTestPDF(t, t.TempDir(), "fixture.pdf")
		rr := uploadBook(t, server, pdfPath, "___.pdf", nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
		}
	})
}

func TestBookLifecycleHandlers(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	pdfPath := testutil.CreateTestPDF(t, t.TempDir(), "fixture.pdf")

	rr := uploadBook(t, server, pdfPath, "Dune - Frank Herbert.pdf", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Book struct {
			ID int64 `json:"id"`
		} `json:"book"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	id := created.Book.ID

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/books", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var books []map[string]interface{}
		if err := json.Unmarshal(rr.Body.Bytes(), &books); err != nil {
			t.Fatalf("Failed to decode list: %v", err)
		}
		if len(books) != 1 {
			t.Errorf("expected 1 book, got %d", len(books))
		}
	})

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/books/%d", id), nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("get invalid id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/books/abc", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/books/99999", nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/books/%d", id), nil)
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}

		req = httptest.NewRequest("GET", fmt.Sprintf("/api/books/%d", id), nil)
		rr = httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", rr.Code)
		}
	})
}

func TestHealthAndVersion(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/version", nil)
	rr = httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("version: expected 200, got %d", rr.Code)
	}
}
