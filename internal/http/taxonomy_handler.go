package http

import (
	"context"
	"errors"
	"net/http"

	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
	"readingtracker/internal/store"
)

type TaxonomyStore interface {
	ListGenres(ctx context.Context) ([]entity.Genre, error)
	ListSubGenres(ctx context.Context) ([]entity.SubGenre, error)
	ListTopics(ctx context.Context) ([]entity.Topic, error)
	ListAliases(ctx context.Context) ([]entity.GenreAlias, error)

	CreateGenre(ctx context.Context, g *entity.Genre) error
	CreateSubGenre(ctx context.Context, sg *entity.SubGenre) error
	CreateTopic(ctx context.Context, name string) error
	CreateAlias(ctx context.Context, a *entity.GenreAlias) error

	GetGenre(ctx context.Context, id int64) (entity.Genre, error)
	GetSubGenre(ctx context.Context, id int64) (entity.SubGenre, error)
	GetTopic(ctx context.Context, id int64) (entity.Topic, error)

	DeleteGenre(ctx context.Context, id int64) error
	DeleteSubGenre(ctx context.Context, id int64) error
	DeleteTopic(ctx context.Context, id int64) error
	DeleteAlias(ctx context.Context, id int64) error
}

type TaxonomyCounter interface {
	CountByTaxonomy(ctx context.Context, field, value string) (int, error)
}

// Invalidator lets the handler drop the classifier's cached taxonomy snapshot
// after any mutation.
type Invalidator interface {
	Invalidate()
}

type TaxonomyHandler struct {
	taxonomy TaxonomyStore
	counter  TaxonomyCounter
	cache    Invalidator
}

func NewTaxonomyHandler(taxonomy TaxonomyStore, counter TaxonomyCounter, cache Invalidator) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy, counter: counter, cache: cache}
}

// List returns all taxonomy reference data in one payload for the admin forms.
func (h *TaxonomyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	genres, err := h.taxonomy.ListGenres(ctx)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load taxonomy")
		return
	}
	subGenres, err := h.taxonomy.ListSubGenres(ctx)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load taxonomy")
		return
	}
	topics, err := h.taxonomy.ListTopics(ctx)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load taxonomy")
		return
	}
	aliases, err := h.taxonomy.ListAliases(ctx)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load taxonomy")
		return
	}

	httpx.JSONSuccess(w, map[string]any{
		"genres":     genres,
		"sub_genres": subGenres,
		"topics":     topics,
		"aliases":    aliases,
	})
}

type genreRequest struct {
	BookType string `json:"book_type" validate:"required,book_type"`
	Name     string `json:"name" validate:"required,max=200"`
}

func (h *TaxonomyHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid genre", details...)
		return
	}

	g := entity.Genre{BookType: req.BookType, Name: req.Name}
	if err := h.taxonomy.CreateGenre(r.Context(), &g); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "Genre already exists for this book type")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not create genre")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccessCreated(w, g)
}

type subGenreRequest struct {
	GenreID int64  `json:"genre_id" validate:"required"`
	Name    string `json:"name" validate:"required,max=200"`
}

func (h *TaxonomyHandler) CreateSubGenre(w http.ResponseWriter, r *http.Request) {
	var req subGenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid sub-genre", details...)
		return
	}

	if _, err := h.taxonomy.GetGenre(r.Context(), req.GenreID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Parent genre not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load genre")
		return
	}

	sg := entity.SubGenre{GenreID: req.GenreID, Name: req.Name}
	if err := h.taxonomy.CreateSubGenre(r.Context(), &sg); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "Sub-genre already exists under this genre")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not create sub-genre")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccessCreated(w, sg)
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

func (h *TaxonomyHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid topic", details...)
		return
	}

	// topic creation is idempotent
	if err := h.taxonomy.CreateTopic(r.Context(), req.Name); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not create topic")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccessCreated(w, map[string]any{"name": req.Name})
}

type aliasRequest struct {
	AlternativeName string `json:"alternative_name" validate:"required,max=200"`
	CanonicalName   string `json:"canonical_name" validate:"required,max=200"`
}

func (h *TaxonomyHandler) CreateAlias(w http.ResponseWriter, r *http.Request) {
	var req aliasRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid alias", details...)
		return
	}

	a := entity.GenreAlias{AlternativeName: req.AlternativeName, CanonicalName: req.CanonicalName}
	if err := h.taxonomy.CreateAlias(r.Context(), &a); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "Alias already exists")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not create alias")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccessCreated(w, a)
}

// DeleteGenre refuses removal while any book still carries the genre.
func (h *TaxonomyHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/admin/taxonomy/genres/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	g, err := h.taxonomy.GetGenre(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Genre not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load genre")
		return
	}

	n, err := h.counter.CountByTaxonomy(r.Context(), "genre", g.Name)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not check genre usage")
		return
	}
	if n > 0 {
		httpx.JSONError(w, http.StatusConflict, "in_use", "Genre is still assigned to books")
		return
	}

	if err := h.taxonomy.DeleteGenre(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not delete genre")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccess(w, map[string]any{"deleted": id})
}

func (h *TaxonomyHandler) DeleteSubGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/admin/taxonomy/sub-genres/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	sg, err := h.taxonomy.GetSubGenre(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Sub-genre not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load sub-genre")
		return
	}

	n, err := h.counter.CountByTaxonomy(r.Context(), "sub_genre", sg.Name)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not check sub-genre usage")
		return
	}
	if n > 0 {
		httpx.JSONError(w, http.StatusConflict, "in_use", "Sub-genre is still assigned to books")
		return
	}

	if err := h.taxonomy.DeleteSubGenre(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not delete sub-genre")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccess(w, map[string]any{"deleted": id})
}

func (h *TaxonomyHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/admin/taxonomy/topics/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	topic, err := h.taxonomy.GetTopic(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Topic not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load topic")
		return
	}

	n, err := h.counter.CountByTaxonomy(r.Context(), "topic", topic.Name)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not check topic usage")
		return
	}
	if n > 0 {
		httpx.JSONError(w, http.StatusConflict, "in_use", "Topic is still assigned to books")
		return
	}

	if err := h.taxonomy.DeleteTopic(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not delete topic")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccess(w, map[string]any{"deleted": id})
}

func (h *TaxonomyHandler) DeleteAlias(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/admin/taxonomy/aliases/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.taxonomy.DeleteAlias(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Alias not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not delete alias")
		return
	}
	h.cache.Invalidate()
	httpx.JSONSuccess(w, map[string]any{"deleted": id})
}
