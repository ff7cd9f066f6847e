// Package enrich combines partial local book records with Open Library data
// and classifier output under a fill-only merge policy.
package enrich

import (
	"context"

	"readingtracker/internal/classify"
	"readingtracker/internal/entity"
	"readingtracker/internal/openlibrary"
)

// BiblioClient is the slice of the Open Library client the enricher needs.
// All methods are fail-soft: absence of results is the only failure signal.
type BiblioClient interface {
	SearchTitleAuthor(ctx context.Context, title, author string, fields []string, limit int) []openlibrary.Work
	GetWork(ctx context.Context, key string) *openlibrary.Work
}

// WorkSelector picks the best matching work from search results. The quick
// selector takes the first result; the offline tool can plug in an interactive
// one.
type WorkSelector interface {
	SelectWork(works []openlibrary.Work) *openlibrary.Work
}

// FirstWorkSelector takes the first search result. Search relevance ordering
// is trusted; this is the only selector safe for server paths.
type FirstWorkSelector struct{}

func (FirstWorkSelector) SelectWork(works []openlibrary.Work) *openlibrary.Work {
	if len(works) == 0 {
		return nil
	}
	return &works[0]
}

type Enricher struct {
	client      BiblioClient
	classifier  *classify.Classifier
	selector    WorkSelector
	searchLimit int
}

func NewEnricher(client BiblioClient, classifier *classify.Classifier, selector WorkSelector) *Enricher {
	if selector == nil {
		selector = FirstWorkSelector{}
	}
	return &Enricher{
		client:      client,
		classifier:  classifier,
		selector:    selector,
		searchLimit: 5,
	}
}

// Enrich looks the book up by title and author and returns the record with
// absent fields filled from the best-matching work. The input record is never
// modified beyond filling; enrichment failure returns the record unchanged.
// changed reports whether anything was filled.
func (e *Enricher) Enrich(ctx context.Context, book entity.Book) (out entity.Book, changed bool) {
	if !Enrichable(&book) {
		return book, false
	}

	works := e.client.SearchTitleAuthor(ctx, book.Title, book.Author, openlibrary.DefaultFields, e.searchLimit)
	work := e.selector.SelectWork(works)
	if work == nil {
		return book, false
	}

	// The search doc carries subjects but rarely a description; the work
	// detail lookup supplies both when it succeeds.
	subjects := work.Subjects
	description := work.Description
	if detail := e.client.GetWork(ctx, work.Key); detail != nil {
		if len(detail.Subjects) > 0 {
			subjects = detail.Subjects
		}
		if detail.Description != "" {
			description = detail.Description
		}
		if work.CoverID == 0 {
			work.CoverID = detail.CoverID
		}
	}

	cls := e.classifier.Classify(ctx, subjects, book.BookType)

	found := entity.Book{
		OpenLibraryID: work.Key,
		BookType:      cls.BookType,
		Genre:         cls.Genre,
		SubGenre:      cls.SubGenre,
		Topic:         cls.Topic,
		Description:   description,
		CoverURL:      openlibrary.CoverURL(work.CoverID, "L"),
	}
	if work.FirstPublishYear > 0 {
		year := work.FirstPublishYear
		found.PublicationYear = &year
	}

	merged := Merge(book, found)
	for _, f := range EnrichableFields {
		if f.IsSet(&merged) && !f.IsSet(&book) {
			changed = true
			break
		}
	}
	return merged, changed
}
