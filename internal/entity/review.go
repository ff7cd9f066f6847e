package entity

import "time"

// Review is a student's guided book review. Once a book has a review it can no
// longer be deleted from the catalog.
type Review struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	BookID       int64     `json:"book_id"`
	Rating       int       `json:"rating"` // 1-5 stars
	WhatLiked    string    `json:"what_liked,omitempty"`
	WhatLearned  string    `json:"what_learned,omitempty"`
	RecommendTo  string    `json:"recommend_to,omitempty"`
	FavoritePart string    `json:"favorite_part,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
