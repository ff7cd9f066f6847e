package entity

// Taxonomy reference data. Owned by the admin interface; the classifier only
// reads it. Removal is refused while any Book still references the value.

// Genre is an allowed genre under one book type. (book_type, name) is unique.
type Genre struct {
	ID       int64  `json:"id"`
	BookType string `json:"book_type"`
	Name     string `json:"name"`
}

// SubGenre belongs to exactly one genre. (genre_id, name) is unique.
type SubGenre struct {
	ID      int64  `json:"id"`
	GenreID int64  `json:"genre_id"`
	Name    string `json:"name"`
}

// Topic is a globally unique topic label.
type Topic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreAlias maps an alternative spelling or label seen in subject tags to a
// canonical genre or topic name.
type GenreAlias struct {
	ID              int64  `json:"id"`
	AlternativeName string `json:"alternative_name"`
	CanonicalName   string `json:"canonical_name"`
}
