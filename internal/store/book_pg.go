package store

import (
	"context"
	"fmt"

	"readingtracker/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookPG struct {
	db *pgxpool.Pool
}

func NewBookPG(db *pgxpool.Pool) *BookPG {
	return &BookPG{db: db}
}

const bookColumns = `
	id, title, author, COALESCE(openlibrary_id, ''), COALESCE(book_type, ''),
	COALESCE(genre, ''), COALESCE(sub_genre, ''), COALESCE(topic, ''),
	COALESCE(lexile_rating, ''), grade, owned, COALESCE(description, ''),
	COALESCE(cover_url, ''), publication_year, added_at`

func scanBook(row pgx.Row) (entity.Book, error) {
	var b entity.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.OpenLibraryID, &b.BookType,
		&b.Genre, &b.SubGenre, &b.Topic,
		&b.LexileRating, &b.Grade, &b.Owned, &b.Description,
		&b.CoverURL, &b.PublicationYear, &b.AddedAt,
	)
	return b, err
}

// ListAll returns the whole catalog. Duplicate detection scans this snapshot;
// catalogs are classroom-scale so the full read stays cheap.
func (r *BookPG) ListAll(ctx context.Context) ([]entity.Book, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookPG) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	b, err := scanBook(r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return entity.Book{}, mapNoRows(err)
	}
	return b, nil
}

const insertBookSQL = `
	INSERT INTO books (
		title, author, openlibrary_id, book_type, genre, sub_genre, topic,
		lexile_rating, grade, owned, description, cover_url, publication_year
	) VALUES (
		$1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
		NULLIF($8, ''), $9, $10, NULLIF($11, ''), NULLIF($12, ''), $13
	)
	RETURNING id, added_at`

func insertBookArgs(b *entity.Book) []any {
	return []any{
		b.Title, b.Author, b.OpenLibraryID, b.BookType, b.Genre, b.SubGenre, b.Topic,
		b.LexileRating, b.Grade, b.Owned, b.Description, b.CoverURL, b.PublicationYear,
	}
}

// Create inserts a single book. A (author, title) uniqueness violation maps to
// ErrDuplicate.
func (r *BookPG) Create(ctx context.Context, b *entity.Book) error {
	err := r.db.QueryRow(ctx, insertBookSQL, insertBookArgs(b)...).Scan(&b.ID, &b.AddedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("book %q by %q: %w", b.Title, b.Author, ErrDuplicate)
	}
	return err
}

// CreateBatch inserts books in one transaction with a savepoint per row, so a
// persist-time conflict (e.g. a uniqueness race with a concurrent import)
// rolls back only that row. The returned slice is parallel to books; a nil
// entry means that row committed.
func (r *BookPG) CreateBatch(ctx context.Context, books []entity.Book) ([]error, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rowErrs := make([]error, len(books))
	for i := range books {
		sp, err := tx.Begin(ctx) // savepoint
		if err != nil {
			return nil, err
		}
		insErr := sp.QueryRow(ctx, insertBookSQL, insertBookArgs(&books[i])...).
			Scan(&books[i].ID, &books[i].AddedAt)
		if insErr != nil {
			_ = sp.Rollback(ctx)
			if isUniqueViolation(insErr) {
				rowErrs[i] = fmt.Errorf("book %q by %q: %w", books[i].Title, books[i].Author, ErrDuplicate)
			} else {
				rowErrs[i] = insErr
			}
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rowErrs, nil
}

// Update rewrites every mutable field of the record.
func (r *BookPG) Update(ctx context.Context, b *entity.Book) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE books SET
			title = $2, author = $3, openlibrary_id = NULLIF($4, ''),
			book_type = NULLIF($5, ''), genre = NULLIF($6, ''), sub_genre = NULLIF($7, ''),
			topic = NULLIF($8, ''), lexile_rating = NULLIF($9, ''), grade = $10,
			owned = $11, description = NULLIF($12, ''), cover_url = NULLIF($13, ''),
			publication_year = $14
		WHERE id = $1`,
		b.ID, b.Title, b.Author, b.OpenLibraryID,
		b.BookType, b.Genre, b.SubGenre,
		b.Topic, b.LexileRating, b.Grade,
		b.Owned, b.Description, b.CoverURL,
		b.PublicationYear,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("book %q by %q: %w", b.Title, b.Author, ErrDuplicate)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a book unless it has reviews; reviewed books are terminal
// references and stay in the catalog.
func (r *BookPG) Delete(ctx context.Context, id int64) error {
	var reviewCount int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE book_id = $1`, id).Scan(&reviewCount); err != nil {
		return err
	}
	if reviewCount > 0 {
		return fmt.Errorf("book has %d review(s): %w", reviewCount, ErrInUse)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByTaxonomy reports how many books reference a taxonomy value; the admin
// interface refuses to remove referenced values.
func (r *BookPG) CountByTaxonomy(ctx context.Context, field, value string) (int, error) {
	var query string
	switch field {
	case "genre":
		query = `SELECT COUNT(*) FROM books WHERE genre = $1`
	case "sub_genre":
		query = `SELECT COUNT(*) FROM books WHERE sub_genre = $1`
	case "topic":
		query = `SELECT COUNT(*) FROM books WHERE topic = $1`
	default:
		return 0, fmt.Errorf("unknown taxonomy field %q", field)
	}
	var n int
	err := r.db.QueryRow(ctx, query, value).Scan(&n)
	return n, err
}
