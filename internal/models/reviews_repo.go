package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

func (su *SupabaseRepo) ListReviews(ctx context.Context) ([]Review, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(ReviewsTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, err
	}

	reviews := []Review{}
	if err := json.Unmarshal(raw, &reviews); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reviews: %w", err)
	}
	return reviews, nil
}

func (su *SupabaseRepo) FindReviewByUser(ctx context.Context, userID uuid.UUID) (*Review, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(ReviewsTable).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []Review
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (su *SupabaseRepo) InsertReview(ctx context.Context, r Review) (*Review, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	r.ID = 0
	r.CreatedAt = nil
	raw, _, err := client.From(ReviewsTable).
		Insert(r, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, err
	}
	return firstReview(raw)
}

func (su *SupabaseRepo) UpdateReview(ctx context.Context, id int64, r Review) (*Review, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(ReviewsTable).
		Update(map[string]interface{}{
			"rating":  r.Rating,
			"review":  r.Review,
			"name":    r.Name,
			"email":   r.Email,
			"picture": r.Picture,
		}, "representation", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return nil, err
	}
	return firstReview(raw)
}

func firstReview(raw []byte) (*Review, error) {
	var rows []Review
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal review: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no review returned")
	}
	return &rows[0], nil
}
