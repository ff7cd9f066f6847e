package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"readingtracker/internal/catalog"
	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
	"readingtracker/internal/normalize"
	"readingtracker/internal/store"
)

type BookStore interface {
	ListAll(ctx context.Context) ([]entity.Book, error)
	GetByID(ctx context.Context, id int64) (entity.Book, error)
	Create(ctx context.Context, b *entity.Book) error
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, id int64) error
}

type BookHandler struct {
	books BookStore
}

func NewBookHandler(books BookStore) *BookHandler {
	return &BookHandler{books: books}
}

// List returns the catalog, optionally filtered. The whole classroom catalog
// is a few hundred rows, so filtering happens in memory.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not list books")
		return
	}

	q := r.URL.Query()
	bookType := q.Get("book_type")
	genre := q.Get("genre")
	owned := q.Get("owned")
	search := normalize.Normalize(q.Get("q"))

	filtered := books[:0:0]
	for _, b := range books {
		if bookType != "" && b.BookType != bookType {
			continue
		}
		if genre != "" && b.Genre != genre {
			continue
		}
		if owned != "" && b.Owned != owned {
			continue
		}
		if search != "" &&
			!strings.Contains(normalize.Normalize(b.Title), search) &&
			!strings.Contains(normalize.Normalize(b.Author), search) {
			continue
		}
		filtered = append(filtered, b)
	}

	httpx.JSONSuccess(w, filtered)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/books/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load book")
		return
	}
	httpx.JSONSuccess(w, book)
}

type bookRequest struct {
	Title           string `json:"title" validate:"required,max=500"`
	Author          string `json:"author" validate:"required,max=300"`
	OpenLibraryID   string `json:"openlibrary_id"`
	BookType        string `json:"book_type" validate:"book_type"`
	Genre           string `json:"genre"`
	SubGenre        string `json:"sub_genre"`
	Topic           string `json:"topic"`
	LexileRating    string `json:"lexile_rating"`
	Grade           *int   `json:"grade"`
	Owned           string `json:"owned" validate:"owned"`
	Description     string `json:"description"`
	CoverURL        string `json:"cover_url"`
	PublicationYear *int   `json:"publication_year"`
}

func (req *bookRequest) apply(b *entity.Book) {
	b.Title = req.Title
	b.Author = req.Author
	b.OpenLibraryID = req.OpenLibraryID
	b.BookType = req.BookType
	b.Genre = req.Genre
	b.SubGenre = req.SubGenre
	b.Topic = req.Topic
	b.LexileRating = req.LexileRating
	b.Grade = req.Grade
	b.Owned = req.Owned
	b.Description = req.Description
	b.CoverURL = req.CoverURL
	b.PublicationYear = req.PublicationYear
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid book data", details...)
		return
	}
	if !entity.ValidGrade(req.Grade) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid book data",
			httpx.ErrorDetail{Field: "grade", Message: "grade must be between 1 and 12"})
		return
	}

	var book entity.Book
	req.apply(&book)
	if book.Owned == "" {
		book.Owned = entity.OwnedNot
	}

	existing, err := h.books.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not check for duplicates")
		return
	}
	if dup := catalog.FindDuplicate(book.Title, book.Author, existing); dup != nil {
		httpx.JSONError(w, http.StatusConflict, "duplicate",
			"A book with this title and author already exists",
			httpx.ErrorDetail{Field: "title", Message: "matches existing book " + dup.Title})
		return
	}

	if err := h.books.Create(r.Context(), &book); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "A book with this title and author already exists")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not create book")
		return
	}

	httpx.JSONSuccessCreated(w, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/admin/books/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load book")
		return
	}

	var req bookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid book data", details...)
		return
	}
	if !entity.ValidGrade(req.Grade) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid book data",
			httpx.ErrorDetail{Field: "grade", Message: "grade must be between 1 and 12"})
		return
	}

	req.apply(&book)
	if book.Owned == "" {
		book.Owned = entity.OwnedNot
	}

	if err := h.books.Update(r.Context(), &book); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "A book with this title and author already exists")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not update book")
		return
	}

	httpx.JSONSuccess(w, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/admin/books/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.books.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Book not found")
		case errors.Is(err, store.ErrInUse):
			httpx.JSONError(w, http.StatusConflict, "in_use", "Book has reviews and cannot be deleted")
		default:
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not delete book")
		}
		return
	}
	httpx.JSONSuccess(w, map[string]any{"deleted": id})
}
