package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/postgrest-go"
)

const (
	TripsTable       = "trips"
	EnrollmentsTable = "trip_users"
	ReviewsTable     = "reviews"
	ProfileTable     = "profiles"
)

func (su *SupabaseRepo) ListTrips(ctx context.Context) ([]Trip, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(TripsTable).
		Select("*", "", false).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	trips := []Trip{}
	if err := json.Unmarshal(raw, &trips); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trips: %w", err)
	}
	return trips, nil
}

// GetTrip expects exactly one row; a missing id surfaces as the store's
// single-row error.
func (su *SupabaseRepo) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(TripsTable).
		Select("*", "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Single().
		Execute()
	if err != nil {
		return nil, err
	}

	var trip Trip
	if err := json.Unmarshal(raw, &trip); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trip: %w", err)
	}
	return &trip, nil
}

func (su *SupabaseRepo) CreateTrip(ctx context.Context, in TripInput) ([]Trip, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(TripsTable).
		Insert(in, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, err
	}

	var created []Trip
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created trip: %w", err)
	}
	return created, nil
}

// UpdateTrip returns the updated rows; an unknown id yields an empty slice
// rather than an error.
func (su *SupabaseRepo) UpdateTrip(ctx context.Context, id int64, patch TripPatch) ([]Trip, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(TripsTable).
		Update(patch, "representation", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return nil, err
	}

	updated := []Trip{}
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated trip: %w", err)
	}
	return updated, nil
}

func (su *SupabaseRepo) DeleteTrip(ctx context.Context, id int64) error {
	client, err := su.clientFor(ctx)
	if err != nil {
		return err
	}

	_, _, err = client.From(TripsTable).
		Delete("minimal", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	return err
}
