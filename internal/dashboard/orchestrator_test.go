package dashboard

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loaded(t *testing.T, gw *fakeGateway) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(gw, quietLogger())
	o.Load(context.Background())
	require.Empty(t, o.Snapshot().LastError)
	return o
}

func goaInput() models.TripInput {
	return models.TripInput{
		Title:      "Goa Getaway",
		StartDate:  "2025-01-10",
		ReturnDate: "2025-01-15",
		Duration:   "5",
		Status:     "open",
		Price:      12000,
		Seats:      20,
	}
}

func TestLoad(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)

	v := o.Snapshot()
	assert.Equal(t, sampleTrips(), v.Trips)
	assert.False(t, v.Loading)
}

func TestLoadFailureKeepsPriorList(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)

	gw.listErr = errBackend
	o.Load(context.Background())

	v := o.Snapshot()
	assert.Equal(t, sampleTrips(), v.Trips)
	assert.False(t, v.Loading)
	assert.Equal(t, errBackend.Error(), v.LastError)
}

func TestSubmitCreateAppendsStoreAssignedTrip(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)

	require.NoError(t, o.OpenAdd())
	require.NoError(t, o.Submit(context.Background(), goaInput()))

	v := o.Snapshot()
	require.Len(t, v.Trips, 4)
	created := v.Trips[3]
	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, "Goa Getaway", created.Title)
	assert.NotNil(t, created.Image)
	assert.Equal(t, Idle, v.Modal.Mode)
	assert.False(t, v.Submitting)
	assert.True(t, gw.has(101))
}

func TestSubmitUpdateChangesOnlyTarget(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)

	require.NoError(t, o.Edit(models.Trip{ID: 2, Title: "Bali"}))
	assert.Equal(t, int64(2), o.Snapshot().Modal.Editing.ID)

	in := goaInput()
	in.Title = "Bali Deluxe"
	require.NoError(t, o.Submit(context.Background(), in))

	v := o.Snapshot()
	require.Len(t, v.Trips, 3)
	assert.Equal(t, sampleTrips()[0], v.Trips[0])
	assert.Equal(t, "Bali Deluxe", v.Trips[1].Title)
	assert.Equal(t, int64(2), v.Trips[1].ID)
	assert.Equal(t, sampleTrips()[2], v.Trips[2])
	assert.Equal(t, Idle, v.Modal.Mode)
}

func TestSubmitUpdateOfMissingRowStillMirrorsLocally(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)

	gw.rows = gw.rows[:2]
	require.NoError(t, o.Edit(models.Trip{ID: 3, Title: "Lisbon"}))
	in := goaInput()
	in.Title = "Porto"
	require.NoError(t, o.Submit(context.Background(), in))

	v := o.Snapshot()
	assert.Equal(t, "Porto", v.Trips[2].Title)
	assert.Equal(t, int64(3), v.Trips[2].ID)
	assert.Empty(t, v.LastError)
}

func TestSubmitFailureKeepsFormOpen(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)
	gw.createErr = errBackend

	require.NoError(t, o.OpenAdd())
	require.NoError(t, o.Submit(context.Background(), goaInput()))

	v := o.Snapshot()
	assert.Len(t, v.Trips, 3)
	assert.Equal(t, FormOpen, v.Modal.Mode)
	assert.False(t, v.Submitting)
	assert.Equal(t, errBackend.Error(), v.LastError)
}

func TestSubmitUpdateFailureLeavesListUntouched(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)
	gw.updateErr = errBackend

	require.NoError(t, o.Edit(models.Trip{ID: 2, Title: "Bali"}))
	in := goaInput()
	in.Title = "Bali Deluxe"
	require.NoError(t, o.Submit(context.Background(), in))

	v := o.Snapshot()
	assert.Equal(t, sampleTrips(), v.Trips)
	assert.Equal(t, FormOpen, v.Modal.Mode)
	require.NotNil(t, v.Modal.Editing)
	assert.Equal(t, int64(2), v.Modal.Editing.ID)
	assert.Equal(t, errBackend.Error(), v.LastError)
}

func TestSubmitWithoutFormIsRejected(t *testing.T) {
	gw := newFakeGateway()
	o := loaded(t, gw)
	assert.ErrorIs(t, o.Submit(context.Background(), goaInput()), ErrInvalidTransition)
	assert.NotContains(t, gw.calls, "create")
}

func TestConfirmDeleteRemovesImagesThenRow(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	gw.images["2"] = []string{"trips/2/a.jpg"}
	o := loaded(t, gw)

	require.NoError(t, o.Delete(2))
	assert.Equal(t, ConfirmingDelete, o.Snapshot().Modal.Mode)
	require.NoError(t, o.ConfirmDelete(context.Background()))

	v := o.Snapshot()
	assert.Equal(t, []models.Trip{{ID: 1, Title: "Goa"}, {ID: 3, Title: "Lisbon"}}, v.Trips)
	assert.Equal(t, Idle, v.Modal.Mode)
	assert.Equal(t, []string{"list", "delete_images", "delete"}, gw.calls)
	assert.NotContains(t, gw.images, "2")
}

func TestSecondDeleteIsNoop(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)

	for i := 0; i < 2; i++ {
		require.NoError(t, o.Delete(2))
		require.NoError(t, o.ConfirmDelete(context.Background()))
	}

	v := o.Snapshot()
	assert.Len(t, v.Trips, 2)
	assert.Empty(t, v.LastError)
}

func TestImageDeleteFailureLeavesRow(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)
	gw.deleteImagesErr = errBackend

	require.NoError(t, o.Delete(2))
	require.NoError(t, o.ConfirmDelete(context.Background()))

	v := o.Snapshot()
	assert.Len(t, v.Trips, 3)
	assert.True(t, gw.has(2))
	assert.NotContains(t, gw.calls, "delete")
	assert.Equal(t, Idle, v.Modal.Mode)
	assert.Equal(t, errBackend.Error(), v.LastError)
}

func TestRowDeleteFailureClosesConfirmation(t *testing.T) {
	gw := newFakeGateway(sampleTrips()...)
	o := loaded(t, gw)
	gw.deleteErr = errBackend

	require.NoError(t, o.Delete(1))
	require.NoError(t, o.ConfirmDelete(context.Background()))

	v := o.Snapshot()
	assert.Len(t, v.Trips, 3)
	assert.Equal(t, Idle, v.Modal.Mode)
}

func TestCancelAndEscape(t *testing.T) {
	o := loaded(t, newFakeGateway(sampleTrips()...))

	require.NoError(t, o.Delete(1))
	assert.ErrorIs(t, o.Cancel(), ErrInvalidTransition)
	require.NoError(t, o.CancelDelete())
	assert.Equal(t, Idle, o.Snapshot().Modal.Mode)

	require.NoError(t, o.OpenAdd())
	assert.ErrorIs(t, o.OpenAdd(), ErrInvalidTransition)
	assert.ErrorIs(t, o.CancelDelete(), ErrInvalidTransition)
	require.NoError(t, o.Escape())
	assert.Equal(t, Idle, o.Snapshot().Modal.Mode)

	require.NoError(t, o.Edit(models.Trip{ID: 1}))
	require.NoError(t, o.BackdropClick())
	assert.Equal(t, Idle, o.Snapshot().Modal.Mode)

	require.NoError(t, o.Escape())
	assert.ErrorIs(t, o.ConfirmDelete(context.Background()), ErrInvalidTransition)
}

func TestSnapshotIsACopy(t *testing.T) {
	o := loaded(t, newFakeGateway(sampleTrips()...))
	require.NoError(t, o.Edit(models.Trip{ID: 1, Title: "Goa"}))

	v := o.Snapshot()
	v.Trips[0].Title = "mutated"
	v.Modal.Editing.Title = "mutated"

	again := o.Snapshot()
	assert.Equal(t, "Goa", again.Trips[0].Title)
	assert.Equal(t, "Goa", again.Modal.Editing.Title)
}

func TestRemoteWrapsOnce(t *testing.T) {
	err := Remote(errBackend)
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, errBackend.Error(), re.Message)
	assert.ErrorIs(t, err, errBackend)
	assert.Same(t, err, Remote(err))
	assert.NoError(t, Remote(nil))
}
