package enrich

import "readingtracker/internal/entity"

// FieldDesc describes one optional, enrichable field of a book record. The
// merge engine and the import validator share this list instead of relying on
// reflection, so the set of fields touched by enrichment is explicit and
// ordered.
type FieldDesc struct {
	Name  string
	IsSet func(b *entity.Book) bool
	Copy  func(dst, src *entity.Book)
}

// EnrichableFields lists every field the fill-only merge may populate, in
// merge order. Title and author are excluded: they identify the record and are
// handled by the orchestrator, not by enrichment.
var EnrichableFields = []FieldDesc{
	{
		Name:  "openlibrary_id",
		IsSet: func(b *entity.Book) bool { return b.OpenLibraryID != "" },
		Copy:  func(dst, src *entity.Book) { dst.OpenLibraryID = src.OpenLibraryID },
	},
	{
		Name:  "book_type",
		IsSet: func(b *entity.Book) bool { return b.BookType != "" },
		Copy:  func(dst, src *entity.Book) { dst.BookType = src.BookType },
	},
	{
		Name:  "genre",
		IsSet: func(b *entity.Book) bool { return b.Genre != "" },
		Copy:  func(dst, src *entity.Book) { dst.Genre = src.Genre },
	},
	{
		Name:  "sub_genre",
		IsSet: func(b *entity.Book) bool { return b.SubGenre != "" },
		Copy:  func(dst, src *entity.Book) { dst.SubGenre = src.SubGenre },
	},
	{
		Name:  "topic",
		IsSet: func(b *entity.Book) bool { return b.Topic != "" },
		Copy:  func(dst, src *entity.Book) { dst.Topic = src.Topic },
	},
	{
		Name:  "lexile_rating",
		IsSet: func(b *entity.Book) bool { return b.LexileRating != "" },
		Copy:  func(dst, src *entity.Book) { dst.LexileRating = src.LexileRating },
	},
	{
		Name:  "description",
		IsSet: func(b *entity.Book) bool { return b.Description != "" },
		Copy:  func(dst, src *entity.Book) { dst.Description = src.Description },
	},
	{
		Name:  "cover_url",
		IsSet: func(b *entity.Book) bool { return b.CoverURL != "" },
		Copy:  func(dst, src *entity.Book) { dst.CoverURL = src.CoverURL },
	},
	{
		Name:  "publication_year",
		IsSet: func(b *entity.Book) bool { return b.PublicationYear != nil },
		Copy:  func(dst, src *entity.Book) { dst.PublicationYear = src.PublicationYear },
	},
}

// Merge applies the fill-only policy: every enrichable field keeps the local
// value when set and takes the enrichment value otherwise. Local/manual data
// is always authoritative; enrichment is strictly additive.
func Merge(local, enrichment entity.Book) entity.Book {
	merged := local
	for _, f := range EnrichableFields {
		if !f.IsSet(&merged) && f.IsSet(&enrichment) {
			f.Copy(&merged, &enrichment)
		}
	}
	return merged
}

// Enrichable reports whether any enrichable field is still unset, i.e. whether
// a remote lookup could add anything.
func Enrichable(b *entity.Book) bool {
	for _, f := range EnrichableFields {
		if !f.IsSet(b) {
			return true
		}
	}
	return false
}
