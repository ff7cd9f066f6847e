package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"readingtracker/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	existing  []entity.Book
	created   []entity.Book
	rowErrs   map[int]error // index into batch -> persist error
	listErr   error
	createErr error
}

func (f *fakeStore) ListAll(ctx context.Context) ([]entity.Book, error) {
	return f.existing, f.listErr
}

func (f *fakeStore) CreateBatch(ctx context.Context, books []entity.Book) ([]error, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	errs := make([]error, len(books))
	for i, b := range books {
		if err, ok := f.rowErrs[i]; ok {
			errs[i] = err
			continue
		}
		f.created = append(f.created, b)
	}
	return errs, nil
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Enrich(ctx context.Context, book entity.Book) (entity.Book, bool) {
	args := m.Called(ctx, book)
	return args.Get(0).(entity.Book), args.Bool(1)
}

// passthroughEnricher returns rows unchanged.
type passthroughEnricher struct{}

func (passthroughEnricher) Enrich(ctx context.Context, book entity.Book) (entity.Book, bool) {
	return book, false
}

const header = "title,author,book_type,genre,sub_genre,topic,lexile_rating,grade,owned\n"

func TestImportCSVHappyPath(t *testing.T) {
	store := &fakeStore{}
	s := NewService(store, passthroughEnricher{})

	csvData := header +
		"The Hunger Games,Suzanne Collins,Fiction,Science Fiction,Dystopian,Courage,810L,7,Physical\n" +
		"Wonder,R.J. Palacio,,,,,,,\n"

	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.ErrorCount)
	assert.Empty(t, res.Errors)
	require.Len(t, store.created, 2)
	assert.Equal(t, entity.OwnedNot, store.created[1].Owned) // blank owned defaults
	require.NotNil(t, store.created[0].Grade)
	assert.Equal(t, 7, *store.created[0].Grade)
}

func TestImportCSVGradeOutOfRange(t *testing.T) {
	store := &fakeStore{}
	s := NewService(store, passthroughEnricher{})

	csvData := header + "Holes,Louis Sachar,,,,,,13,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 2")
	assert.Contains(t, res.Errors[0], "grade")
	assert.Empty(t, store.created)
}

func TestImportCSVDuplicateWithinBatch(t *testing.T) {
	store := &fakeStore{}
	s := NewService(store, passthroughEnricher{})

	csvData := header +
		"The Hunger Games,Suzanne Collins,,,,,,,\n" +
		"\"the hunger games \",SUZANNE COLLINS,,,,,,,\n"

	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 3")
	assert.Contains(t, res.Errors[0], "already exists")
}

func TestImportCSVDuplicateAgainstCatalog(t *testing.T) {
	store := &fakeStore{existing: []entity.Book{{ID: 9, Title: "Wonder", Author: "R.J. Palacio"}}}
	s := NewService(store, passthroughEnricher{})

	csvData := header + "WONDER!,RJ Palacio,,,,,,,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
}

func TestImportCSVSkipEnrichmentNeverCallsEnricher(t *testing.T) {
	store := &fakeStore{}
	enricher := new(mockEnricher)
	s := NewService(store, enricher)

	csvData := header +
		"Holes,Louis Sachar,,,,,,,\n" +
		"Hatchet,Gary Paulsen,,,,,,,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 2, res.SuccessCount)
	enricher.AssertNotCalled(t, "Enrich", mock.Anything, mock.Anything)
}

func TestImportCSVEnrichmentApplied(t *testing.T) {
	store := &fakeStore{}
	enricher := new(mockEnricher)
	s := NewService(store, enricher)

	enriched := entity.Book{Title: "Holes", Author: "Louis Sachar", Genre: "Realistic Fiction", Owned: entity.OwnedNot}
	enricher.On("Enrich", mock.Anything, mock.Anything).Return(enriched, true)

	csvData := header + "Holes,Louis Sachar,,,,,,,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{})

	assert.Equal(t, 1, res.SuccessCount)
	require.Len(t, store.created, 1)
	assert.Equal(t, "Realistic Fiction", store.created[0].Genre)
	enricher.AssertExpectations(t)
}

func TestImportCSVPartialFailureCommitsRest(t *testing.T) {
	store := &fakeStore{}
	s := NewService(store, passthroughEnricher{})

	csvData := header +
		"Holes,Louis Sachar,,,,,,,\n" +
		"Hatchet,Gary Paulsen,,,,,,,\n" +
		"Wonder,R.J. Palacio,,,,,,,\n" +
		"Frindle,Andrew Clements,,,,,,,Borrowed\n" // bad owned value

	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 3, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 5")
	assert.Contains(t, res.Errors[0], "owned")
	assert.Len(t, store.created, 3)
}

func TestImportCSVPersistConflictIsRowLocal(t *testing.T) {
	store := &fakeStore{rowErrs: map[int]error{0: errors.New(`book "Holes" by "Louis Sachar" already exists`)}}
	s := NewService(store, passthroughEnricher{})

	csvData := header +
		"Holes,Louis Sachar,,,,,,,\n" +
		"Hatchet,Gary Paulsen,,,,,,,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Contains(t, res.Errors[0], "row 2")
	assert.Len(t, store.created, 1)
}

func TestImportCSVDebugPersistsNothing(t *testing.T) {
	store := &fakeStore{}
	s := NewService(store, passthroughEnricher{})

	csvData := header + "Holes,Louis Sachar,,,,,,,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true, Debug: true})

	assert.Equal(t, 1, res.SuccessCount)
	assert.Empty(t, store.created)
}

func TestImportCSVMissingRequiredFields(t *testing.T) {
	store := &fakeStore{}
	s := NewService(store, passthroughEnricher{})

	csvData := header +
		",Suzanne Collins,,,,,,,\n" +
		"The Hunger Games,,,,,,,,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Contains(t, res.Errors[0], "title is required")
	assert.Contains(t, res.Errors[1], "author is required")
}

func TestImportCSVCatastrophicListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	s := NewService(store, passthroughEnricher{})

	res := s.ImportCSV(context.Background(), strings.NewReader(header), Options{SkipEnrichment: true})

	assert.Equal(t, 0, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Contains(t, res.Errors[0], "file processing error")
}

func TestImportCSVIgnoresStrayISBNColumn(t *testing.T) {
	store := &fakeStore{}
	s := NewService(store, passthroughEnricher{})

	csvData := "title,author,isbn,book_type,genre,sub_genre,topic,lexile_rating,grade,owned\n" +
		"Holes,Louis Sachar,9780440414803,,,,,,,\n"
	res := s.ImportCSV(context.Background(), strings.NewReader(csvData), Options{SkipEnrichment: true})

	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 0, res.ErrorCount)
}

func TestSampleCSVRoundTrips(t *testing.T) {
	r := csv.NewReader(strings.NewReader(SampleCSV()))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, Header, rows[0])
	for _, row := range rows[1:] {
		assert.NotEmpty(t, row[0])
		assert.NotEmpty(t, row[1])
		assert.True(t, entity.ValidOwned(row[8]))
	}
}
