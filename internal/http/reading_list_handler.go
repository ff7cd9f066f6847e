package http

import (
	"context"
	"errors"
	"net/http"

	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
	"readingtracker/internal/store"
)

type ReadingListStore interface {
	AddItem(ctx context.Context, userID, bookID int64) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	List(ctx context.Context, userID int64) ([]entity.ReadingListItem, []entity.Book, error)
	MarkRead(ctx context.Context, userID, bookID int64) error
	ListRead(ctx context.Context, userID int64) ([]entity.BookRead, error)
}

type ReadingListHandler struct {
	lists ReadingListStore
	books BookStore
}

func NewReadingListHandler(lists ReadingListStore, books BookStore) *ReadingListHandler {
	return &ReadingListHandler{lists: lists, books: books}
}

type readingListEntry struct {
	entity.ReadingListItem
	Book entity.Book `json:"book"`
}

func (h *ReadingListHandler) List(w http.ResponseWriter, r *http.Request) {
	items, books, err := h.lists.List(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load reading list")
		return
	}

	entries := make([]readingListEntry, len(items))
	for i := range items {
		entries[i] = readingListEntry{ReadingListItem: items[i], Book: books[i]}
	}
	httpx.JSONSuccess(w, entries)
}

type addItemRequest struct {
	BookID int64 `json:"book_id" validate:"required"`
}

func (h *ReadingListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "book_id is required", details...)
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

	if err := h.lists.AddItem(r.Context(), httpx.UserIDFrom(r), req.BookID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not add book to reading list")
		return
	}
	httpx.JSONSuccessCreated(w, map[string]any{"book_id": req.BookID})
}

func (h *ReadingListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "/reading-list/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.lists.RemoveItem(r.Context(), httpx.UserIDFrom(r), itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Reading list item not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not remove reading list item")
		return
	}
	httpx.JSONSuccess(w, map[string]any{"removed": itemID})
}

func (h *ReadingListHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "book_id is required", details...)
		return
	}
	if err := h.lists.MarkRead(r.Context(), httpx.UserIDFrom(r), req.BookID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not mark book as read")
		return
	}
	httpx.JSONSuccess(w, map[string]any{"book_id": req.BookID})
}

func (h *ReadingListHandler) ListRead(w http.ResponseWriter, r *http.Request) {
	read, err := h.lists.ListRead(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load read books")
		return
	}
	httpx.JSONSuccess(w, read)
}
