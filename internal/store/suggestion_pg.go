package store

import (
	"context"

	"readingtracker/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SuggestionPG struct {
	db *pgxpool.Pool
}

func NewSuggestionPG(db *pgxpool.Pool) *SuggestionPG {
	return &SuggestionPG{db: db}
}

func (r *SuggestionPG) CreateBookSuggestion(ctx context.Context, s *entity.BookSuggestion) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO book_suggestions (student_id, title, author, reason, status)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, suggested_at`,
		s.StudentID, s.Title, s.Author, s.Reason, entity.SuggestionPending,
	).Scan(&s.ID, &s.SuggestedAt)
}

func (r *SuggestionPG) GetBookSuggestion(ctx context.Context, id int64) (entity.BookSuggestion, error) {
	var s entity.BookSuggestion
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, title, author, COALESCE(reason, ''), status,
			suggested_at, reviewed_at, reviewed_by_id, COALESCE(admin_notes, ''), book_id
		FROM book_suggestions WHERE id = $1`, id).
		Scan(&s.ID, &s.StudentID, &s.Title, &s.Author, &s.Reason, &s.Status,
			&s.SuggestedAt, &s.ReviewedAt, &s.ReviewedByID, &s.AdminNotes, &s.BookID)
	if err != nil {
		return entity.BookSuggestion{}, mapNoRows(err)
	}
	return s, nil
}

func (r *SuggestionPG) ListBookSuggestions(ctx context.Context, status string) ([]entity.BookSuggestion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, title, author, COALESCE(reason, ''), status,
			suggested_at, reviewed_at, reviewed_by_id, COALESCE(admin_notes, ''), book_id
		FROM book_suggestions
		WHERE ($1 = '' OR status = $1)
		ORDER BY suggested_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.BookSuggestion
	for rows.Next() {
		var s entity.BookSuggestion
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Title, &s.Author, &s.Reason, &s.Status,
			&s.SuggestedAt, &s.ReviewedAt, &s.ReviewedByID, &s.AdminNotes, &s.BookID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ResolveBookSuggestion records the admin decision. bookID is non-nil only
// when the suggestion was approved and the book inserted.
func (r *SuggestionPG) ResolveBookSuggestion(ctx context.Context, id int64, status string, reviewerID int64, notes string, bookID *int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE book_suggestions
		SET status = $2, reviewed_at = NOW(), reviewed_by_id = $3,
			admin_notes = NULLIF($4, ''), book_id = $5
		WHERE id = $1`,
		id, status, reviewerID, notes, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SuggestionPG) CreateEditSuggestion(ctx context.Context, s *entity.BookEditSuggestion) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO book_edit_suggestions (
			book_id, student_id,
			suggested_title, suggested_author, suggested_openlibrary_id,
			suggested_publication_year, suggested_book_type, suggested_genre,
			suggested_sub_genre, suggested_topic, suggested_lexile_rating,
			suggested_grade, suggested_description, reason, status
		) VALUES (
			$1, $2,
			NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			$6, NULLIF($7, ''), NULLIF($8, ''),
			NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''),
			$12, NULLIF($13, ''), NULLIF($14, ''), $15
		)
		RETURNING id, suggested_at`,
		s.BookID, s.StudentID,
		s.SuggestedTitle, s.SuggestedAuthor, s.SuggestedOpenLibraryID,
		s.SuggestedPublicationYear, s.SuggestedBookType, s.SuggestedGenre,
		s.SuggestedSubGenre, s.SuggestedTopic, s.SuggestedLexileRating,
		s.SuggestedGrade, s.SuggestedDescription, s.Reason, entity.SuggestionPending,
	).Scan(&s.ID, &s.SuggestedAt)
}

func (r *SuggestionPG) GetEditSuggestion(ctx context.Context, id int64) (entity.BookEditSuggestion, error) {
	var s entity.BookEditSuggestion
	err := r.db.QueryRow(ctx, editSuggestionSelect+` WHERE id = $1`, id).Scan(editSuggestionDest(&s)...)
	if err != nil {
		return entity.BookEditSuggestion{}, mapNoRows(err)
	}
	return s, nil
}

func (r *SuggestionPG) ListEditSuggestions(ctx context.Context, status string) ([]entity.BookEditSuggestion, error) {
	rows, err := r.db.Query(ctx,
		editSuggestionSelect+` WHERE ($1 = '' OR status = $1) ORDER BY suggested_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.BookEditSuggestion
	for rows.Next() {
		var s entity.BookEditSuggestion
		if err := rows.Scan(editSuggestionDest(&s)...); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SuggestionPG) ResolveEditSuggestion(ctx context.Context, id int64, status string, reviewerID int64, notes string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE book_edit_suggestions
		SET status = $2, reviewed_at = NOW(), reviewed_by_id = $3, admin_notes = NULLIF($4, '')
		WHERE id = $1`,
		id, status, reviewerID, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const editSuggestionSelect = `
	SELECT id, book_id, student_id,
		COALESCE(suggested_title, ''), COALESCE(suggested_author, ''),
		COALESCE(suggested_openlibrary_id, ''), suggested_publication_year,
		COALESCE(suggested_book_type, ''), COALESCE(suggested_genre, ''),
		COALESCE(suggested_sub_genre, ''), COALESCE(suggested_topic, ''),
		COALESCE(suggested_lexile_rating, ''), suggested_grade,
		COALESCE(suggested_description, ''), COALESCE(reason, ''), status,
		suggested_at, reviewed_at, reviewed_by_id, COALESCE(admin_notes, '')
	FROM book_edit_suggestions`

func editSuggestionDest(s *entity.BookEditSuggestion) []any {
	return []any{
		&s.ID, &s.BookID, &s.StudentID,
		&s.SuggestedTitle, &s.SuggestedAuthor,
		&s.SuggestedOpenLibraryID, &s.SuggestedPublicationYear,
		&s.SuggestedBookType, &s.SuggestedGenre,
		&s.SuggestedSubGenre, &s.SuggestedTopic,
		&s.SuggestedLexileRating, &s.SuggestedGrade,
		&s.SuggestedDescription, &s.Reason, &s.Status,
		&s.SuggestedAt, &s.ReviewedAt, &s.ReviewedByID, &s.AdminNotes,
	}
}
