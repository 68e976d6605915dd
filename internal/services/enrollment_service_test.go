package services

import (
	"context"
	"testing"

	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/models/modelstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registration() models.Enrollment {
	return models.Enrollment{
		TripID:   1,
		TripName: "Goa Getaway",
		Email:    "ama@example.com",
		Price:    12000,
		Counter:  models.Counter{Count: 2},
	}
}

func TestSaveUserTripOncePerTripAndEmail(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewEnrollmentService(store)
	ctx := context.Background()

	first, err := svc.SaveUserTrip(ctx, registration())
	require.NoError(t, err)

	again := registration()
	again.Counter.Count = 5
	existing, err := svc.SaveUserTrip(ctx, again)
	assert.ErrorIs(t, err, models.ErrAlreadyRegistered)
	assert.Equal(t, first.ID, existing.ID)

	require.Len(t, store.Enrollments, 1)
	assert.Equal(t, 2, store.Enrollments[0].Counter.Count)
}

func TestSaveUserTripSameEmailOtherTrip(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewEnrollmentService(store)

	_, err := svc.SaveUserTrip(context.Background(), registration())
	require.NoError(t, err)

	other := registration()
	other.TripID = 2
	other.TripName = "Bali"
	_, err = svc.SaveUserTrip(context.Background(), other)
	require.NoError(t, err)
	assert.Len(t, store.Enrollments, 2)
}

func TestSaveUserTripMissingFields(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewEnrollmentService(store)

	e := registration()
	e.Email = "  "
	_, err := svc.SaveUserTrip(context.Background(), e)
	assert.ErrorIs(t, err, models.ErrMissingField)
	assert.Empty(t, store.Calls())
}

func TestSaveUserTripDefaultsSeatCount(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewEnrollmentService(store)

	e := registration()
	e.Counter.Count = 0
	saved, err := svc.SaveUserTrip(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Counter.Count)
}

func TestTripsWithUsers(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewEnrollmentService(store)
	ctx := context.Background()

	_, err := svc.SaveUserTrip(ctx, registration())
	require.NoError(t, err)
	other := registration()
	other.Email = "kofi@example.com"
	_, err = svc.SaveUserTrip(ctx, other)
	require.NoError(t, err)

	grouped, err := svc.TripsWithUsers(ctx)
	require.NoError(t, err)
	require.Len(t, grouped, 1)
	assert.Equal(t, "Goa Getaway", grouped[0].TripName)
	assert.Len(t, grouped[0].Users, 2)
}

func TestUpdateUserReplacesByEmail(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewEnrollmentService(store)
	ctx := context.Background()

	saved, err := svc.SaveUserTrip(ctx, registration())
	require.NoError(t, err)

	update := registration()
	update.Counter = models.Counter{Count: 2, Confirmed: true, Paid: 12000}
	n, err := svc.UpdateUser(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, saved.ID, store.Enrollments[0].ID)
	assert.True(t, store.Enrollments[0].Counter.Confirmed)

	_, err = svc.UpdateUser(ctx, models.Enrollment{})
	assert.ErrorIs(t, err, models.ErrMissingField)

	update.Counter.Paid = -1
	_, err = svc.UpdateUser(ctx, update)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDeleteUser(t *testing.T) {
	store := modelstest.NewStore()
	svc := NewEnrollmentService(store)
	ctx := context.Background()

	saved, err := svc.SaveUserTrip(ctx, registration())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(ctx, saved.ID))
	assert.Empty(t, store.Enrollments)

	assert.ErrorIs(t, svc.DeleteUser(ctx, 0), models.ErrMissingField)
}
