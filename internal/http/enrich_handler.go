package http

import (
	"context"
	"net/http"

	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
)

type Enricher interface {
	Enrich(ctx context.Context, book entity.Book) (entity.Book, bool)
}

// EnrichHandler answers ad-hoc metadata lookups from the admin book form.
type EnrichHandler struct {
	enricher Enricher
}

func NewEnrichHandler(enricher Enricher) *EnrichHandler {
	return &EnrichHandler{enricher: enricher}
}

type enrichRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
}

// Lookup runs the enrichment pipeline against a bare title/author pair and
// returns whatever could be found, without touching the catalog.
func (h *EnrichHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Title and author are required", details...)
		return
	}

	probe := entity.Book{Title: req.Title, Author: req.Author}
	enriched, found := h.enricher.Enrich(r.Context(), probe)

	httpx.JSONSuccess(w, map[string]any{
		"found":            found,
		"openlibrary_id":   enriched.OpenLibraryID,
		"book_type":        enriched.BookType,
		"genre":            enriched.Genre,
		"sub_genre":        enriched.SubGenre,
		"topic":            enriched.Topic,
		"lexile_rating":    enriched.LexileRating,
		"description":      enriched.Description,
		"cover_url":        enriched.CoverURL,
		"publication_year": enriched.PublicationYear,
	})
}
