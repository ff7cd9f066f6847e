package store

import (
	"context"
	"fmt"

	"readingtracker/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReadingListPG struct {
	db *pgxpool.Pool
}

func NewReadingListPG(db *pgxpool.Pool) *ReadingListPG {
	return &ReadingListPG{db: db}
}

// AddItem appends a book to the end of a student's reading list. Adding the
// same book twice is a no-op.
func (r *ReadingListPG) AddItem(ctx context.Context, userID, bookID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reading_list_items (user_id, book_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1
		FROM reading_list_items WHERE user_id = $1
		ON CONFLICT (user_id, book_id) DO NOTHING`,
		userID, bookID)
	return err
}

func (r *ReadingListPG) RemoveItem(ctx context.Context, userID, itemID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reading_list_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the student's reading list with the joined book records, in
// list order.
func (r *ReadingListPG) List(ctx context.Context, userID int64) ([]entity.ReadingListItem, []entity.Book, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.user_id, i.book_id, i.position, i.added_at, `+prefixedBookColumns("b")+`
		FROM reading_list_items i
		JOIN books b ON b.id = i.book_id
		WHERE i.user_id = $1
		ORDER BY i.position ASC`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		items []entity.ReadingListItem
		books []entity.Book
	)
	for rows.Next() {
		var (
			it entity.ReadingListItem
			b  entity.Book
		)
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.BookID, &it.Position, &it.AddedAt,
			&b.ID, &b.Title, &b.Author, &b.OpenLibraryID, &b.BookType,
			&b.Genre, &b.SubGenre, &b.Topic,
			&b.LexileRating, &b.Grade, &b.Owned, &b.Description,
			&b.CoverURL, &b.PublicationYear, &b.AddedAt,
		); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
		books = append(books, b)
	}
	return items, books, rows.Err()
}

// MarkRead records a completed book; repeat completions keep the first date.
func (r *ReadingListPG) MarkRead(ctx context.Context, userID, bookID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO books_read (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, book_id) DO NOTHING`,
		userID, bookID)
	return err
}

func (r *ReadingListPG) ListRead(ctx context.Context, userID int64) ([]entity.BookRead, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, book_id, completed_at
		FROM books_read WHERE user_id = $1
		ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reads []entity.BookRead
	for rows.Next() {
		var br entity.BookRead
		if err := rows.Scan(&br.ID, &br.UserID, &br.BookID, &br.CompletedAt); err != nil {
			return nil, err
		}
		reads = append(reads, br)
	}
	return reads, rows.Err()
}

// prefixedBookColumns rewrites the shared book column list for a table alias
// in a JOIN.
func prefixedBookColumns(alias string) string {
	return fmt.Sprintf(`
	%[1]s.id, %[1]s.title, %[1]s.author, COALESCE(%[1]s.openlibrary_id, ''), COALESCE(%[1]s.book_type, ''),
	COALESCE(%[1]s.genre, ''), COALESCE(%[1]s.sub_genre, ''), COALESCE(%[1]s.topic, ''),
	COALESCE(%[1]s.lexile_rating, ''), %[1]s.grade, %[1]s.owned, COALESCE(%[1]s.description, ''),
	COALESCE(%[1]s.cover_url, ''), %[1]s.publication_year, %[1]s.added_at`, alias)
}
