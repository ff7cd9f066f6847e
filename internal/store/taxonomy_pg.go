package store

import (
	"context"
	"fmt"

	"readingtracker/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TaxonomyPG struct {
	db *pgxpool.Pool
}

func NewTaxonomyPG(db *pgxpool.Pool) *TaxonomyPG {
	return &TaxonomyPG{db: db}
}

func (r *TaxonomyPG) ListGenres(ctx context.Context) ([]entity.Genre, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, book_type, name FROM genres ORDER BY book_type, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []entity.Genre
	for rows.Next() {
		var g entity.Genre
		if err := rows.Scan(&g.ID, &g.BookType, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *TaxonomyPG) ListSubGenres(ctx context.Context) ([]entity.SubGenre, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, genre_id, name FROM sub_genres ORDER BY genre_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []entity.SubGenre
	for rows.Next() {
		var sg entity.SubGenre
		if err := rows.Scan(&sg.ID, &sg.GenreID, &sg.Name); err != nil {
			return nil, err
		}
		subs = append(subs, sg)
	}
	return subs, rows.Err()
}

func (r *TaxonomyPG) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM topics ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []entity.Topic
	for rows.Next() {
		var t entity.Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *TaxonomyPG) ListAliases(ctx context.Context) ([]entity.GenreAlias, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, alternative_name, canonical_name FROM genre_aliases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []entity.GenreAlias
	for rows.Next() {
		var a entity.GenreAlias
		if err := rows.Scan(&a.ID, &a.AlternativeName, &a.CanonicalName); err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

func (r *TaxonomyPG) CreateGenre(ctx context.Context, g *entity.Genre) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO genres (book_type, name) VALUES ($1, $2) RETURNING id`,
		g.BookType, g.Name).Scan(&g.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("genre %q for %s: %w", g.Name, g.BookType, ErrDuplicate)
	}
	return err
}

func (r *TaxonomyPG) CreateSubGenre(ctx context.Context, sg *entity.SubGenre) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO sub_genres (genre_id, name) VALUES ($1, $2) RETURNING id`,
		sg.GenreID, sg.Name).Scan(&sg.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("sub-genre %q: %w", sg.Name, ErrDuplicate)
	}
	return err
}

// CreateTopic is idempotent: inserting an existing topic name is a no-op, so
// interactive topic registration can retry freely.
func (r *TaxonomyPG) CreateTopic(ctx context.Context, name string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO topics (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

func (r *TaxonomyPG) CreateAlias(ctx context.Context, a *entity.GenreAlias) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO genre_aliases (alternative_name, canonical_name) VALUES ($1, $2) RETURNING id`,
		a.AlternativeName, a.CanonicalName).Scan(&a.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("alias %q: %w", a.AlternativeName, ErrDuplicate)
	}
	return err
}

func (r *TaxonomyPG) DeleteGenre(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyPG) DeleteSubGenre(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sub_genres WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyPG) DeleteTopic(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyPG) DeleteAlias(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM genre_aliases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaxonomyPG) GetGenre(ctx context.Context, id int64) (entity.Genre, error) {
	var g entity.Genre
	err := r.db.QueryRow(ctx,
		`SELECT id, book_type, name FROM genres WHERE id = $1`, id).
		Scan(&g.ID, &g.BookType, &g.Name)
	if err != nil {
		return entity.Genre{}, mapNoRows(err)
	}
	return g, nil
}

func (r *TaxonomyPG) GetSubGenre(ctx context.Context, id int64) (entity.SubGenre, error) {
	var sg entity.SubGenre
	err := r.db.QueryRow(ctx,
		`SELECT id, genre_id, name FROM sub_genres WHERE id = $1`, id).
		Scan(&sg.ID, &sg.GenreID, &sg.Name)
	if err != nil {
		return entity.SubGenre{}, mapNoRows(err)
	}
	return sg, nil
}

func (r *TaxonomyPG) GetTopic(ctx context.Context, id int64) (entity.Topic, error) {
	var t entity.Topic
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM topics WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		return entity.Topic{}, mapNoRows(err)
	}
	return t, nil
}
