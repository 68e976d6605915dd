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

func TestSavedTrips(t *testing.T) {
	store := modelstest.NewStore()
	store.Trips = []models.Trip{{ID: 4, Title: "Lisbon"}}
	svc := NewSavedTripsService(store, store)
	ctx := context.Background()
	user := uuid.New()

	saved, err := svc.SaveTrip(ctx, user, 4)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", saved.Items["4"].Title)

	_, err = svc.SaveTrip(ctx, user, 5)
	assert.ErrorIs(t, err, modelstest.ErrNoRows)

	require.NoError(t, svc.UnsaveTrip(ctx, user, 4))
	list, err := svc.GetSavedTrips(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	_, err = svc.GetSavedTrips(ctx, uuid.Nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
