package enrich

import (
	"testing"

	"readingtracker/internal/entity"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestMergeFillOnly(t *testing.T) {
	local := entity.Book{
		Title:    "The Hunger Games",
		Author:   "Suzanne Collins",
		Genre:    "Science Fiction", // set locally, must survive
		Grade:    intp(7),
	}
	enrichment := entity.Book{
		OpenLibraryID:   "/works/OL5717423W",
		BookType:        entity.BookTypeFiction,
		Genre:           "Adventure", // must NOT overwrite local genre
		SubGenre:        "Dystopian",
		Topic:           "Courage",
		Description:     "Katniss volunteers.",
		CoverURL:        "https://covers.openlibrary.org/b/id/12646537-L.jpg",
		PublicationYear: intp(2008),
	}

	merged := Merge(local, enrichment)

	// Local values are authoritative.
	assert.Equal(t, "Science Fiction", merged.Genre)
	assert.Equal(t, "The Hunger Games", merged.Title)
	assert.Equal(t, intp(7), merged.Grade)

	// Absent fields take the enrichment value.
	assert.Equal(t, "/works/OL5717423W", merged.OpenLibraryID)
	assert.Equal(t, entity.BookTypeFiction, merged.BookType)
	assert.Equal(t, "Dystopian", merged.SubGenre)
	assert.Equal(t, "Courage", merged.Topic)
	assert.Equal(t, intp(2008), merged.PublicationYear)
}

func TestMergeNeverOverwrites(t *testing.T) {
	full := entity.Book{
		Title: "T", Author: "A",
		OpenLibraryID: "id-local", BookType: entity.BookTypeFiction,
		Genre: "g", SubGenre: "sg", Topic: "t", LexileRating: "800L",
		Description: "d", CoverURL: "c", PublicationYear: intp(1999),
	}
	other := entity.Book{
		OpenLibraryID: "id-remote", BookType: entity.BookTypeNonFiction,
		Genre: "G2", SubGenre: "SG2", Topic: "T2", LexileRating: "900L",
		Description: "D2", CoverURL: "C2", PublicationYear: intp(2020),
	}

	merged := Merge(full, other)
	for _, f := range EnrichableFields {
		assert.True(t, f.IsSet(&merged), "field %s", f.Name)
	}
	assert.Equal(t, full, merged)
}

func TestMergeBothAbsentStaysAbsent(t *testing.T) {
	merged := Merge(entity.Book{Title: "T", Author: "A"}, entity.Book{})
	assert.Empty(t, merged.Genre)
	assert.Nil(t, merged.PublicationYear)
}

func TestEnrichable(t *testing.T) {
	b := entity.Book{Title: "T", Author: "A"}
	assert.True(t, Enrichable(&b))

	full := entity.Book{
		OpenLibraryID: "x", BookType: "Fiction", Genre: "g", SubGenre: "sg",
		Topic: "t", LexileRating: "l", Description: "d", CoverURL: "c",
		PublicationYear: intp(2000),
	}
	assert.False(t, Enrichable(&full))
}
