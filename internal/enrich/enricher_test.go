package enrich

import (
	"context"
	"testing"

	"readingtracker/internal/classify"
	"readingtracker/internal/entity"
	"readingtracker/internal/openlibrary"
	"readingtracker/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockBiblioClient struct {
	mock.Mock
}

func (m *mockBiblioClient) SearchTitleAuthor(ctx context.Context, title, author string, fields []string, limit int) []openlibrary.Work {
	args := m.Called(ctx, title, author, fields, limit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]openlibrary.Work)
}

func (m *mockBiblioClient) GetWork(ctx context.Context, key string) *openlibrary.Work {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*openlibrary.Work)
}

type emptyTaxonomyStore struct{}

func (emptyTaxonomyStore) ListGenres(ctx context.Context) ([]entity.Genre, error) {
	return []entity.Genre{{ID: 1, BookType: entity.BookTypeFiction, Name: "Science Fiction"}}, nil
}
func (emptyTaxonomyStore) ListSubGenres(ctx context.Context) ([]entity.SubGenre, error) {
	return []entity.SubGenre{{ID: 1, GenreID: 1, Name: "Dystopian"}}, nil
}
func (emptyTaxonomyStore) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	return []entity.Topic{{ID: 1, Name: "Courage"}}, nil
}
func (emptyTaxonomyStore) ListAliases(ctx context.Context) ([]entity.GenreAlias, error) {
	return nil, nil
}
func (emptyTaxonomyStore) CreateTopic(ctx context.Context, name string) error { return nil }

func quickClassifier() *classify.Classifier {
	return classify.New(taxonomy.NewService(emptyTaxonomyStore{}))
}

func TestEnrichFillsAbsentFields(t *testing.T) {
	ctx := context.Background()
	client := new(mockBiblioClient)

	client.On("SearchTitleAuthor", ctx, "The Hunger Games", "Suzanne Collins", mock.Anything, 5).
		Return([]openlibrary.Work{{
			Key:              "/works/OL5717423W",
			Title:            "The Hunger Games",
			AuthorNames:      []string{"Suzanne Collins"},
			Subjects:         []string{"Fiction", "Science Fiction"},
			FirstPublishYear: 2008,
			CoverID:          12646537,
		}})
	client.On("GetWork", ctx, "/works/OL5717423W").
		Return(&openlibrary.Work{
			Key:         "/works/OL5717423W",
			Subjects:    []string{"Fiction", "Science Fiction", "Dystopian", "Courage"},
			Description: "Katniss volunteers.",
		})

	e := NewEnricher(client, quickClassifier(), nil)
	got, changed := e.Enrich(ctx, entity.Book{Title: "The Hunger Games", Author: "Suzanne Collins"})

	assert.True(t, changed)
	assert.Equal(t, "/works/OL5717423W", got.OpenLibraryID)
	assert.Equal(t, entity.BookTypeFiction, got.BookType)
	assert.Equal(t, "Science Fiction", got.Genre)
	assert.Equal(t, "Dystopian", got.SubGenre)
	assert.Equal(t, "Courage", got.Topic)
	assert.Equal(t, "Katniss volunteers.", got.Description)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12646537-L.jpg", got.CoverURL)
	assert.Equal(t, 2008, *got.PublicationYear)
	client.AssertExpectations(t)
}

func TestEnrichNoResults(t *testing.T) {
	ctx := context.Background()
	client := new(mockBiblioClient)
	client.On("SearchTitleAuthor", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	e := NewEnricher(client, quickClassifier(), nil)
	in := entity.Book{Title: "Unknown", Author: "Nobody"}
	got, changed := e.Enrich(ctx, in)

	assert.False(t, changed)
	assert.Equal(t, in, got)
}

func TestEnrichSkipsCompleteRecords(t *testing.T) {
	client := new(mockBiblioClient)
	e := NewEnricher(client, quickClassifier(), nil)

	full := entity.Book{
		Title: "T", Author: "A",
		OpenLibraryID: "x", BookType: "Fiction", Genre: "g", SubGenre: "sg",
		Topic: "t", LexileRating: "l", Description: "d", CoverURL: "c",
		PublicationYear: intp(2000),
	}
	got, changed := e.Enrich(context.Background(), full)

	assert.False(t, changed)
	assert.Equal(t, full, got)
	client.AssertNotCalled(t, "SearchTitleAuthor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichNeverOverwritesLocal(t *testing.T) {
	ctx := context.Background()
	client := new(mockBiblioClient)
	client.On("SearchTitleAuthor", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]openlibrary.Work{{Key: "/works/OL1W", Subjects: []string{"Fiction", "Science Fiction"}}})
	client.On("GetWork", ctx, "/works/OL1W").Return(nil)

	e := NewEnricher(client, quickClassifier(), nil)
	in := entity.Book{Title: "T", Author: "A", Genre: "Realistic Fiction"}
	got, _ := e.Enrich(ctx, in)

	assert.Equal(t, "Realistic Fiction", got.Genre)
}
