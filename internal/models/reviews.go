package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        int64      `json:"id,omitempty"`
	UserID    uuid.UUID  `json:"user_id" validate:"required"`
	Rating    int        `json:"rating" validate:"required,min=1,max=5"`
	Review    string     `json:"review"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Picture   string     `json:"picture,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type ReviewsRepo interface {
	ListReviews(ctx context.Context) ([]Review, error)
	FindReviewByUser(ctx context.Context, userID uuid.UUID) (*Review, error)
	InsertReview(ctx context.Context, r Review) (*Review, error)
	UpdateReview(ctx context.Context, id int64, r Review) (*Review, error)
}
