package http

import (
	"context"
	"errors"
	"net/http"

	"readingtracker/internal/entity"
	"readingtracker/internal/httpx"
	"readingtracker/internal/store"
)

type ReviewStore interface {
	Create(ctx context.Context, rev *entity.Review) error
	ListByBook(ctx context.Context, bookID int64) ([]entity.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Review, error)
}

type ReviewHandler struct {
	reviews ReviewStore
	books   BookStore
}

func NewReviewHandler(reviews ReviewStore, books BookStore) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, books: books}
}

type reviewRequest struct {
	BookID       int64  `json:"book_id" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	WhatLiked    string `json:"what_liked" validate:"max=2000"`
	WhatLearned  string `json:"what_learned" validate:"max=2000"`
	RecommendTo  string `json:"recommend_to" validate:"max=2000"`
	FavoritePart string `json:"favorite_part" validate:"max=2000"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", "Invalid review", details...)
		return
	}

	if _, err := h.books.GetByID(r.Context(), req.BookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", "Book not found")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load book")
		return
	}

	review := entity.Review{
		UserID:       httpx.UserIDFrom(r),
		BookID:       req.BookID,
		Rating:       req.Rating,
		WhatLiked:    req.WhatLiked,
		WhatLearned:  req.WhatLearned,
		RecommendTo:  req.RecommendTo,
		FavoritePart: req.FavoritePart,
	}
	if err := h.reviews.Create(r.Context(), &review); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusConflict, "duplicate", "You have already reviewed this book")
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not save review")
		return
	}
	httpx.JSONSuccessCreated(w, review)
}

func (h *ReviewHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, action, ok := pathIDAction(r, "/books/")
	if !ok || action != "reviews" {
		http.NotFound(w, r)
		return
	}
	reviews, err := h.reviews.ListByBook(r.Context(), bookID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load reviews")
		return
	}
	httpx.JSONSuccess(w, reviews)
}

func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByUser(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Could not load reviews")
		return
	}
	httpx.JSONSuccess(w, reviews)
}
