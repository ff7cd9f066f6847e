package entity

import "time"

// Suggestion statuses.
const (
	SuggestionPending  = "pending"
	SuggestionApproved = "approved"
	SuggestionRejected = "rejected"
	SuggestionAdded    = "added"
)

// BookSuggestion is a student asking for a new book to be added to the library.
type BookSuggestion struct {
	ID           int64      `json:"id"`
	StudentID    int64      `json:"student_id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Reason       string     `json:"reason,omitempty"`
	Status       string     `json:"status"`
	SuggestedAt  time.Time  `json:"suggested_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedByID *int64     `json:"reviewed_by_id,omitempty"`
	AdminNotes   string     `json:"admin_notes,omitempty"`
	BookID       *int64     `json:"book_id,omitempty"` // set once added to the catalog
}

// BookEditSuggestion is a student proposing corrections to an existing record.
// Empty/nil suggested fields mean "no change proposed" for that field.
type BookEditSuggestion struct {
	ID        int64 `json:"id"`
	BookID    int64 `json:"book_id"`
	StudentID int64 `json:"student_id"`

	SuggestedTitle           string `json:"suggested_title,omitempty"`
	SuggestedAuthor          string `json:"suggested_author,omitempty"`
	SuggestedOpenLibraryID   string `json:"suggested_openlibrary_id,omitempty"`
	SuggestedPublicationYear *int   `json:"suggested_publication_year,omitempty"`
	SuggestedBookType        string `json:"suggested_book_type,omitempty"`
	SuggestedGenre           string `json:"suggested_genre,omitempty"`
	SuggestedSubGenre        string `json:"suggested_sub_genre,omitempty"`
	SuggestedTopic           string `json:"suggested_topic,omitempty"`
	SuggestedLexileRating    string `json:"suggested_lexile_rating,omitempty"`
	SuggestedGrade           *int   `json:"suggested_grade,omitempty"`
	SuggestedDescription     string `json:"suggested_description,omitempty"`

	Reason       string     `json:"reason,omitempty"`
	Status       string     `json:"status"`
	SuggestedAt  time.Time  `json:"suggested_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedByID *int64     `json:"reviewed_by_id,omitempty"`
	AdminNotes   string     `json:"admin_notes,omitempty"`
}
