package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readingtracker/internal/auth"
	"readingtracker/internal/entity"
	"readingtracker/internal/store"
)

type fakeBookStore struct {
	books  []entity.Book
	nextID int64
}

func (f *fakeBookStore) ListAll(context.Context) ([]entity.Book, error) { return f.books, nil }

func (f *fakeBookStore) GetByID(_ context.Context, id int64) (entity.Book, error) {
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return entity.Book{}, errNotFoundForTest
}

func (f *fakeBookStore) Create(_ context.Context, b *entity.Book) error {
	f.nextID++
	b.ID = f.nextID
	f.books = append(f.books, *b)
	return nil
}

func (f *fakeBookStore) Update(_ context.Context, b *entity.Book) error {
	for i := range f.books {
		if f.books[i].ID == b.ID {
			f.books[i] = *b
			return nil
		}
	}
	return errNotFoundForTest
}

func (f *fakeBookStore) Delete(_ context.Context, id int64) error {
	for i := range f.books {
		if f.books[i].ID == id {
			f.books = append(f.books[:i], f.books[i+1:]...)
			return nil
		}
	}
	return errNotFoundForTest
}

var errNotFoundForTest = store.ErrNotFound

func testRouter(t *testing.T, books *fakeBookStore) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{
		JWTSecret:   "test-secret",
		Ping:        func(context.Context) error { return nil },
		Auth:        NewAuthHandler(nil, "test-secret", time.Hour),
		Books:       NewBookHandler(books),
		Import:      NewImportHandler(&fakeImporter{}),
		Enrich:      NewEnrichHandler(&fakeEnricher{}),
		ReadingList: NewReadingListHandler(nil, books),
		Reviews:     NewReviewHandler(nil, books),
		Suggestions: NewSuggestionHandler(nil, books, &fakeEnricher{}),
		Taxonomy:    NewTaxonomyHandler(nil, nil, nil),
		Classes:     NewClassHandler(nil, nil, books),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken("test-secret", 7, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouterPublicCatalog(t *testing.T) {
	router := testRouter(t, &fakeBookStore{books: []entity.Book{{ID: 1, Title: "Wonder", Author: "R.J. Palacio", Owned: entity.OwnedPhysical}}})

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wonder")
}

func TestRouterProtectedNeedsToken(t *testing.T) {
	router := testRouter(t, &fakeBookStore{})

	req := httptest.NewRequest(http.MethodGet, "/reading-list", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterAdminNeedsAdminRole(t *testing.T) {
	router := testRouter(t, &fakeBookStore{})

	req := httptest.NewRequest(http.MethodPost, "/admin/books",
		strings.NewReader(`{"title":"Holes","author":"Louis Sachar"}`))
	req.Header.Set("Authorization", bearer(t, entity.RoleStudent))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterAdminCreateBook(t *testing.T) {
	books := &fakeBookStore{}
	router := testRouter(t, books)

	req := httptest.NewRequest(http.MethodPost, "/admin/books",
		strings.NewReader(`{"title":"Holes","author":"Louis Sachar","owned":"Physical"}`))
	req.Header.Set("Authorization", bearer(t, entity.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, books.books, 1)
	assert.Equal(t, "Holes", books.books[0].Title)
}

func TestRouterCreateDuplicateBookConflicts(t *testing.T) {
	books := &fakeBookStore{books: []entity.Book{{ID: 1, Title: "Holes", Author: "Louis Sachar"}}, nextID: 1}
	router := testRouter(t, books)

	req := httptest.NewRequest(http.MethodPost, "/admin/books",
		strings.NewReader(`{"title":"HOLES!","author":"louis sachar"}`))
	req.Header.Set("Authorization", bearer(t, entity.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, books.books, 1)
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := testRouter(t, &fakeBookStore{})

	req := httptest.NewRequest(http.MethodDelete, "/books", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
