// Package catalog holds catalog-wide rules that span individual book records.
package catalog

import (
	"readingtracker/internal/entity"
	"readingtracker/internal/normalize"
)

// FindDuplicate returns the first book whose normalized (title, author) pair
// matches the candidate's, or nil if none does.
//
// This is a linear scan over the whole catalog per call. Catalogs here are
// classroom-scale (hundreds to low thousands of records), so the scan is the
// duplicate semantics, not an optimization target: an index with different
// folding rules would change which records count as duplicates.
func FindDuplicate(title, author string, books []entity.Book) *entity.Book {
	key := normalize.Pair(title, author)
	for i := range books {
		if normalize.Pair(books[i].Title, books[i].Author) == key {
			return &books[i]
		}
	}
	return nil
}
