package entity

import "time"

// Book types. Empty string means the type has not been determined yet.
const (
	BookTypeFiction    = "Fiction"
	BookTypeNonFiction = "Non-Fiction"
)

// Ownership statuses for a book in the classroom library.
const (
	OwnedPhysical = "Physical"
	OwnedKindle   = "Kindle"
	OwnedNot      = "Not Owned"
	OwnedAudible  = "Audible"
)

// Book is the canonical catalog record. The (author, title) pair is unique in
// the catalog; duplicate detection compares pairs case/punctuation-insensitively
// but the stored values stay verbatim. Optional string fields use "" for unset,
// optional numeric fields use nil.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	OpenLibraryID   string    `json:"openlibrary_id,omitempty"`
	BookType        string    `json:"book_type,omitempty"`
	Genre           string    `json:"genre,omitempty"`
	SubGenre        string    `json:"sub_genre,omitempty"`
	Topic           string    `json:"topic,omitempty"`
	LexileRating    string    `json:"lexile_rating,omitempty"`
	Grade           *int      `json:"grade,omitempty"`
	Owned           string    `json:"owned"`
	Description     string    `json:"description,omitempty"`
	CoverURL        string    `json:"cover_url,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// ValidOwned reports whether s is one of the defined ownership statuses.
func ValidOwned(s string) bool {
	switch s {
	case OwnedPhysical, OwnedKindle, OwnedNot, OwnedAudible:
		return true
	}
	return false
}

// ValidGrade reports whether an intended grade level is in range. A nil grade
// is valid (grade is optional).
func ValidGrade(g *int) bool {
	return g == nil || (*g >= 1 && *g <= 12)
}
