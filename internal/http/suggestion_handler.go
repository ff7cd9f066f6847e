package http

import (
	"context"
	"errors"
	"net/http"

	"readingtracker/internal/catalog"
	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
	"readingtracker/internal/store"
)

type SuggestionStore interface {
	CreateBookSuggestion(ctx context.Context, s *entity.BookSuggestion) error
	GetBookSuggestion(ctx context.Context, id int64) (entity.BookSuggestion, error)
	ListBookSuggestions(ctx context.Context, status string) ([]entity.BookSuggestion, error)
	ResolveBookSuggestion(ctx context.Context, id int64, status string, reviewerID int64, notes string, bookID *int64) error

	CreateEditSuggestion(ctx context.Context, s *entity.BookEditSuggestion) error
	GetEditSuggestion(ctx context.Context, id int64) (entity.BookEditSuggestion, error)
	ListEditSuggestions(ctx context.Context, status string) ([]entity.BookEditSuggestion, error)
	ResolveEditSuggestion(ctx context.Context, id int64, status string, reviewerID int64, notes string) error
}

// SuggestionHandler covers the student suggestion box and the admin review
// queue. Approving a new-book suggestion runs the same enrichment pipeline as
// the admin book form before the record lands in the catalog.
type SuggestionHandler struct {
	suggestions SuggestionStore
	books       BookStore
	enricher    Enricher
}

func NewSuggestionHandler(suggestions SuggestionStore, books BookStore, enricher Enricher) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, books: books, enricher: enricher}
}

type bookSuggestionRequest struct {
	Title  string `json:"title" validate:"required,max=500"`
	Author string `json:"author" validate:"required,max=300"`
	Reason string `json:"reason" validate:"max=2000"`
}

func (h *SuggestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookSuggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid suggestion", details...)
		return
	}

	s := entity.BookSuggestion{
		StudentID: httpx.UserIDFrom(r),
		Title:     req.Title,
		Author:    req.Author,
		Reason:    req.Reason,
		Status:    entity.SuggestionPending,
	}
	if err := h.suggestions.CreateBookSuggestion(r.Context(), &s); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not save suggestion")
		return
	}
	httpx.JSONSuccessCreated(w, s)
}

func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.suggestions.ListBookSuggestions(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not list suggestions")
		return
	}
	httpx.JSONSuccess(w, list)
}

type resolveRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// Resolve handles POST /admin/suggestions/{id}/approve and .../reject.
// Approval imports the suggested book through enrichment and duplicate
// checking; a duplicate still resolves the suggestion, pointing it at the
// existing record.
func (h *SuggestionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, action, ok := pathIDAction(r, "/admin/suggestions/")
	if !ok || (action != "approve" && action != "reject") {
		http.NotFound(w, r)
		return
	}

	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.suggestions.GetBookSuggestion(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Suggestion not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load suggestion")
		return
	}
	if s.Status != entity.SuggestionPending {
		httpx.JSONError(w, http.StatusConflict, "already_resolved", "Suggestion has already been resolved")
		return
	}

	reviewerID := httpx.UserIDFrom(r)

	if action == "reject" {
		if err := h.suggestions.ResolveBookSuggestion(r.Context(), id, entity.SuggestionRejected, reviewerID, req.Notes, nil); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not resolve suggestion")
			return
		}
		httpx.JSONSuccess(w, map[string]any{"status": entity.SuggestionRejected})
		return
	}

	existing, err := h.books.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not check for duplicates")
		return
	}

	var bookID int64
	status := entity.SuggestionAdded
	if dup := catalog.FindDuplicate(s.Title, s.Author, existing); dup != nil {
		bookID = dup.ID
		status = entity.SuggestionApproved
	} else {
		book := entity.Book{Title: s.Title, Author: s.Author, Owned: entity.OwnedNot}
		book, _ = h.enricher.Enrich(r.Context(), book)
		if err := h.books.Create(r.Context(), &book); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not add suggested book")
			return
		}
		bookID = book.ID
	}

	if err := h.suggestions.ResolveBookSuggestion(r.Context(), id, status, reviewerID, req.Notes, &bookID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not resolve suggestion")
		return
	}
	httpx.JSONSuccess(w, map[string]any{"status": status, "book_id": bookID})
}

type editSuggestionRequest struct {
	BookID int64 `json:"book_id" validate:"required"`

	SuggestedTitle           string `json:"suggested_title" validate:"max=500"`
	SuggestedAuthor          string `json:"suggested_author" validate:"max=300"`
	SuggestedOpenLibraryID   string `json:"suggested_openlibrary_id"`
	SuggestedPublicationYear *int   `json:"suggested_publication_year"`
	SuggestedBookType        string `json:"suggested_book_type" validate:"book_type"`
	SuggestedGenre           string `json:"suggested_genre"`
	SuggestedSubGenre        string `json:"suggested_sub_genre"`
	SuggestedTopic           string `json:"suggested_topic"`
	SuggestedLexileRating    string `json:"suggested_lexile_rating"`
	SuggestedGrade           *int   `json:"suggested_grade"`
	SuggestedDescription     string `json:"suggested_description"`

	Reason string `json:"reason" validate:"max=2000"`
}

func (h *SuggestionHandler) CreateEdit(w http.ResponseWriter, r *http.Request) {
	var req editSuggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid edit suggestion", details...)
		return
	}
	if !entity.ValidGrade(req.SuggestedGrade) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid edit suggestion",
			httpx.ErrorDetail{Field: "suggested_grade", Message: "grade must be between 1 and 12"})
		return
	}

	if _, err := h.books.GetByID(r.Context(), req.BookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load book")
		return
	}

	s := entity.BookEditSuggestion{
		BookID:    req.BookID,
		StudentID: httpx.UserIDFrom(r),

		SuggestedTitle:           req.SuggestedTitle,
		SuggestedAuthor:          req.SuggestedAuthor,
		SuggestedOpenLibraryID:   req.SuggestedOpenLibraryID,
		SuggestedPublicationYear: req.SuggestedPublicationYear,
		SuggestedBookType:        req.SuggestedBookType,
		SuggestedGenre:           req.SuggestedGenre,
		SuggestedSubGenre:        req.SuggestedSubGenre,
		SuggestedTopic:           req.SuggestedTopic,
		SuggestedLexileRating:    req.SuggestedLexileRating,
		SuggestedGrade:           req.SuggestedGrade,
		SuggestedDescription:     req.SuggestedDescription,

		Reason: req.Reason,
		Status: entity.SuggestionPending,
	}
	if err := h.suggestions.CreateEditSuggestion(r.Context(), &s); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not save edit suggestion")
		return
	}
	httpx.JSONSuccessCreated(w, s)
}

func (h *SuggestionHandler) ListEdits(w http.ResponseWriter, r *http.Request) {
	list, err := h.suggestions.ListEditSuggestions(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not list edit suggestions")
		return
	}
	httpx.JSONSuccess(w, list)
}

// applyEdit copies every proposed field onto the book. Empty/nil fields mean
// "no change".
func applyEdit(b *entity.Book, s *entity.BookEditSuggestion) {
	if s.SuggestedTitle != "" {
		b.Title = s.SuggestedTitle
	}
	if s.SuggestedAuthor != "" {
		b.Author = s.SuggestedAuthor
	}
	if s.SuggestedOpenLibraryID != "" {
		b.OpenLibraryID = s.SuggestedOpenLibraryID
	}
	if s.SuggestedPublicationYear != nil {
		b.PublicationYear = s.SuggestedPublicationYear
	}
	if s.SuggestedBookType != "" {
		b.BookType = s.SuggestedBookType
	}
	if s.SuggestedGenre != "" {
		b.Genre = s.SuggestedGenre
	}
	if s.SuggestedSubGenre != "" {
		b.SubGenre = s.SuggestedSubGenre
	}
	if s.SuggestedTopic != "" {
		b.Topic = s.SuggestedTopic
	}
	if s.SuggestedLexileRating != "" {
		b.LexileRating = s.SuggestedLexileRating
	}
	if s.SuggestedGrade != nil {
		b.Grade = s.SuggestedGrade
	}
	if s.SuggestedDescription != "" {
		b.Description = s.SuggestedDescription
	}
}

// ResolveEdit handles POST /admin/edit-suggestions/{id}/approve and
// .../reject. Approval applies the proposed changes to the book record.
func (h *SuggestionHandler) ResolveEdit(w http.ResponseWriter, r *http.Request) {
	id, action, ok := pathIDAction(r, "/admin/edit-suggestions/")
	if !ok || (action != "approve" && action != "reject") {
		http.NotFound(w, r)
		return
	}

	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.suggestions.GetEditSuggestion(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Edit suggestion not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load edit suggestion")
		return
	}
	if s.Status != entity.SuggestionPending {
		httpx.JSONError(w, http.StatusConflict, "already_resolved", "Edit suggestion has already been resolved")
		return
	}

	reviewerID := httpx.UserIDFrom(r)
	status := entity.SuggestionRejected

	if action == "approve" {
		book, err := h.books.GetByID(r.Context(), s.BookID)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load book")
			return
		}
		applyEdit(&book, &s)
		if err := h.books.Update(r.Context(), &book); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				httpx.JSONError(w, http.StatusConflict, "duplicate", "Applying this edit would duplicate another book")
				return
			}
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not update book")
			return
		}
		status = entity.SuggestionApproved
	}

	if err := h.suggestions.ResolveEditSuggestion(r.Context(), id, status, reviewerID, req.Notes); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not resolve edit suggestion")
		return
	}
	httpx.JSONSuccess(w, map[string]any{"status": status})
}
