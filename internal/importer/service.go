// Package importer drives the per-row import pipeline over a CSV batch:
// Parse -> DuplicateCheck -> (optional Enrich) -> Merge -> Validate ->
// Persist | Fail. Row failures are recorded and never abort the batch; only a
// catastrophic stream error does.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"readingtracker/internal/catalog"
	"readingtracker/internal/entity"
)

// Header is the canonical import column set. A stray "isbn" column from the
// older format variant is tolerated and ignored.
var Header = []string{
	"title", "author", "book_type", "genre", "sub_genre",
	"topic", "lexile_rating", "grade", "owned",
}

type BookStore interface {
	ListAll(ctx context.Context) ([]entity.Book, error)
	// CreateBatch persists books in one transaction, isolating each row with a
	// savepoint: a failed row is rolled back and reported in its slot of the
	// returned slice while the rest of the batch commits.
	CreateBatch(ctx context.Context, books []entity.Book) ([]error, error)
}

type Enricher interface {
	Enrich(ctx context.Context, book entity.Book) (entity.Book, bool)
}

type Options struct {
	// SkipEnrichment imports rows as-is without contacting Open Library.
	SkipEnrichment bool
	// Debug parses, checks and reports every row but persists nothing.
	Debug bool
}

type Result struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}

func (r *Result) fail(rowNum int, format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", rowNum, fmt.Sprintf(format, args...)))
	r.ErrorCount++
}

type Service struct {
	store    BookStore
	enricher Enricher
}

func NewService(store BookStore, enricher Enricher) *Service {
	return &Service{store: store, enricher: enricher}
}

// ImportCSV runs the whole batch and aggregates per-row outcomes. No row is
// retried, no row appears as both a success and an error, and successfully
// parsed rows commit together at the end (unless opts.Debug).
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, opts Options) Result {
	var result Result

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("file processing error: %v", err))
		result.ErrorCount++
		return result
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}

	// Snapshot the catalog once for duplicate checks; accepted rows are
	// appended so in-batch duplicates are caught too. Concurrent writers
	// outside the batch can still race past this check; the uniqueness
	// constraint at persist time is the backstop.
	existing, err := s.store.ListAll(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("file processing error: %v", err))
		result.ErrorCount++
		return result
	}

	var (
		pending     []entity.Book
		pendingRows []int // original row numbers, parallel to pending
	)

	rowNum := 1 // header is row 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.fail(rowNum, "malformed CSV record: %v", err)
				continue
			}
			// Stream-level failure: abort the batch, nothing commits.
			return Result{
				ErrorCount: 1,
				Errors:     []string{fmt.Sprintf("file processing error: %v", err)},
			}
		}

		book, err := parseRow(record, colIndex)
		if err != nil {
			result.fail(rowNum, "%v", err)
			continue
		}

		if dup := catalog.FindDuplicate(book.Title, book.Author, existing); dup != nil {
			result.fail(rowNum, "book %q by %q already exists", book.Title, book.Author)
			continue
		}

		if !opts.SkipEnrichment && s.enricher != nil {
			// Enrichment fails soft; absence of data is not an error.
			book, _ = s.enricher.Enrich(ctx, book)
		}

		if err := validate(&book); err != nil {
			result.fail(rowNum, "%v", err)
			continue
		}

		existing = append(existing, book)
		pending = append(pending, book)
		pendingRows = append(pendingRows, rowNum)
	}

	if opts.Debug {
		result.SuccessCount = len(pending)
		return result
	}

	if len(pending) > 0 {
		rowErrs, err := s.store.CreateBatch(ctx, pending)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("file processing error: %v", err))
			result.ErrorCount++
			return result
		}
		for i, rowErr := range rowErrs {
			if rowErr != nil {
				result.fail(pendingRows[i], "%v", rowErr)
				continue
			}
			result.SuccessCount++
		}
	}
	return result
}

func parseRow(record []string, colIndex map[string]int) (entity.Book, error) {
	col := func(name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	book := entity.Book{
		Title:        col("title"),
		Author:       col("author"),
		BookType:     col("book_type"),
		Genre:        col("genre"),
		SubGenre:     col("sub_genre"),
		Topic:        col("topic"),
		LexileRating: col("lexile_rating"),
		Owned:        col("owned"),
	}

	if book.Title == "" {
		return entity.Book{}, errors.New("title is required")
	}
	if book.Author == "" {
		return entity.Book{}, errors.New("author is required")
	}

	if raw := col("grade"); raw != "" {
		g, err := strconv.Atoi(raw)
		if err != nil {
			return entity.Book{}, fmt.Errorf("invalid grade %q", raw)
		}
		book.Grade = &g
	}

	if book.Owned == "" {
		book.Owned = entity.OwnedNot
	}
	return book, nil
}

// validate applies the post-merge rules. Grade and owned are checked again
// here because enrichment runs between parse and persist.
func validate(b *entity.Book) error {
	if b.Title == "" {
		return errors.New("title is required")
	}
	if !entity.ValidGrade(b.Grade) {
		return fmt.Errorf("grade must be between 1 and 12 (got %d)", *b.Grade)
	}
	if !entity.ValidOwned(b.Owned) {
		return fmt.Errorf("invalid owned value %q (must be Physical, Kindle, Not Owned or Audible)", b.Owned)
	}
	return nil
}
