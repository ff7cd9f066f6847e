package store

import (
	"context"
	"fmt"

	"readingtracker/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewPG struct {
	db *pgxpool.Pool
}

func NewReviewPG(db *pgxpool.Pool) *ReviewPG {
	return &ReviewPG{db: db}
}

func (r *ReviewPG) Create(ctx context.Context, rev *entity.Review) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO reviews (user_id, book_id, rating, what_liked, what_learned, recommend_to, favorite_part)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id, created_at`,
		rev.UserID, rev.BookID, rev.Rating,
		rev.WhatLiked, rev.WhatLearned, rev.RecommendTo, rev.FavoritePart,
	).Scan(&rev.ID, &rev.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("review for book %d by user %d: %w", rev.BookID, rev.UserID, ErrDuplicate)
	}
	return err
}

func (r *ReviewPG) ListByBook(ctx context.Context, bookID int64) ([]entity.Review, error) {
	return r.list(ctx, `WHERE book_id = $1`, bookID)
}

func (r *ReviewPG) ListByUser(ctx context.Context, userID int64) ([]entity.Review, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *ReviewPG) list(ctx context.Context, where string, arg any) ([]entity.Review, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, book_id, rating,
			COALESCE(what_liked, ''), COALESCE(what_learned, ''),
			COALESCE(recommend_to, ''), COALESCE(favorite_part, ''), created_at
		FROM reviews `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		var rev entity.Review
		if err := rows.Scan(
			&rev.ID, &rev.UserID, &rev.BookID, &rev.Rating,
			&rev.WhatLiked, &rev.WhatLearned, &rev.RecommendTo, &rev.FavoritePart,
			&rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
