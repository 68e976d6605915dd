package services

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/tripdesk/internal/models"
)

type ReviewService struct {
	reviews models.ReviewsRepo
}

func NewReviewService(reviews models.ReviewsRepo) *ReviewService {
	return &ReviewService{
		reviews: reviews,
	}
}

func (rs *ReviewService) ListReviews(ctx context.Context) ([]models.Review, error) {
	return rs.reviews.ListReviews(ctx)
}

// SaveReview keeps one review per user: an existing review is overwritten,
// otherwise a new one is inserted. created reports which happened.
func (rs *ReviewService) SaveReview(ctx context.Context, r models.Review) (saved *models.Review, created bool, err error) {
	if err := models.Validate.Struct(r); err != nil {
		return nil, false, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	existing, err := rs.reviews.FindReviewByUser(ctx, r.UserID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		saved, err = rs.reviews.UpdateReview(ctx, existing.ID, r)
		return saved, false, err
	}
	saved, err = rs.reviews.InsertReview(ctx, r)
	return saved, true, err
}
