package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/models"
)

// SavedTripsService manages a signed-in user's trip wishlist.
type SavedTripsService struct {
	saved models.SavedTripsRepo
	trips models.TripRepo
}

func NewSavedTripsService(saved models.SavedTripsRepo, trips models.TripRepo) *SavedTripsService {
	return &SavedTripsService{
		saved: saved,
		trips: trips,
	}
}

func (ss *SavedTripsService) SaveTrip(ctx context.Context, userID uuid.UUID, tripID int64) (*models.SavedTrips, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid user ID", models.ErrInvalidInput)
	}
	if tripID <= 0 {
		return nil, fmt.Errorf("%w: invalid trip ID", models.ErrInvalidInput)
	}

	trip, err := ss.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return ss.saved.SaveTrip(ctx, userID, *trip)
}

func (ss *SavedTripsService) UnsaveTrip(ctx context.Context, userID uuid.UUID, tripID int64) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: invalid user ID", models.ErrInvalidInput)
	}
	if tripID <= 0 {
		return fmt.Errorf("%w: invalid trip ID", models.ErrInvalidInput)
	}
	return ss.saved.UnsaveTrip(ctx, userID, tripID)
}

func (ss *SavedTripsService) GetSavedTrips(ctx context.Context, userID uuid.UUID) (*models.SavedTrips, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid user ID", models.ErrInvalidInput)
	}
	return ss.saved.GetSavedTrips(ctx, userID)
}
