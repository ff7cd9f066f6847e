package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readingtracker/internal/entity"
)

type fakeEnricher struct {
	result  entity.Book
	changed bool
	calls   int
}

func (f *fakeEnricher) Enrich(_ context.Context, book entity.Book) (entity.Book, bool) {
	f.calls++
	if !f.changed {
		return book, false
	}
	out := f.result
	out.Title = book.Title
	out.Author = book.Author
	return out, true
}

func TestEnrichLookupReturnsFoundFields(t *testing.T) {
	year := 2008
	enricher := &fakeEnricher{
		changed: true,
		result: entity.Book{
			OpenLibraryID:   "/works/OL5735363W",
			BookType:        entity.BookTypeFiction,
			Genre:           "Science Fiction",
			Description:     "A dystopian novel.",
			PublicationYear: &year,
		},
	}
	handler := NewEnrichHandler(enricher)

	req := httptest.NewRequest(http.MethodPost, "/admin/books/enrich",
		strings.NewReader(`{"title":"The Hunger Games","author":"Suzanne Collins"}`))
	rec := httptest.NewRecorder()
	handler.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, true, resp.Data["found"])
	assert.Equal(t, "/works/OL5735363W", resp.Data["openlibrary_id"])
	assert.Equal(t, "Science Fiction", resp.Data["genre"])
	assert.Equal(t, float64(2008), resp.Data["publication_year"])
	assert.Equal(t, 1, enricher.calls)
}

func TestEnrichLookupNothingFound(t *testing.T) {
	handler := NewEnrichHandler(&fakeEnricher{changed: false})

	req := httptest.NewRequest(http.MethodPost, "/admin/books/enrich",
		strings.NewReader(`{"title":"Unknown","author":"Nobody"}`))
	rec := httptest.NewRecorder()
	handler.Lookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp.Data["found"])
	assert.Equal(t, "", resp.Data["genre"])
}

func TestEnrichLookupRequiresTitleAndAuthor(t *testing.T) {
	enricher := &fakeEnricher{}
	handler := NewEnrichHandler(enricher)

	req := httptest.NewRequest(http.MethodPost, "/admin/books/enrich",
		strings.NewReader(`{"title":"Only a title"}`))
	rec := httptest.NewRecorder()
	handler.Lookup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, enricher.calls)
}

func TestEnrichLookupRejectsBadJSON(t *testing.T) {
	handler := NewEnrichHandler(&fakeEnricher{})

	req := httptest.NewRequest(http.MethodPost, "/admin/books/enrich",
		strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler.Lookup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
