package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/models/modelstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReviewUpsertsPerUser(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewReviewService(store)
	ctx := context.Background()
	user := uuid.New()

	first, created, err := svc.SaveReview(ctx, models.Review{UserID: user, Rating: 4, Review: "Great"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.SaveReview(ctx, models.Review{UserID: user, Rating: 5, Review: "Even better"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	reviews, err := svc.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestSaveReviewValidation(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewReviewService(store)

	_, _, err := svc.SaveReview(context.Background(), models.Review{UserID: uuid.New(), Rating: 6})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = svc.SaveReview(context.Background(), models.Review{Rating: 3})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, store.Calls())
}
