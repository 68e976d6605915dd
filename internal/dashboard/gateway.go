// Package dashboard holds the admin trip dashboard: the remote gateway
// contract, the trip list reducer, the modal state machine and the
// orchestrator that ties them together.
package dashboard

import (
	"context"
	"errors"

	"github.com/joshua-takyi/tripdesk/internal/models"
)

// Gateway is the remote trip store as the dashboard sees it.
//
// UpdateTrip and DeleteTrip succeed when the id matches nothing; UpdateTrip
// then returns the zero Trip. DeleteTripImages removes every object under the
// trip's storage folder and only logs objects that survive the removal.
type Gateway interface {
	ListTrips(ctx context.Context) ([]models.Trip, error)
	CreateTrip(ctx context.Context, in models.TripInput) (models.Trip, error)
	UpdateTrip(ctx context.Context, id int64, patch models.TripPatch) (models.Trip, error)
	DeleteTrip(ctx context.Context, id int64) error
	DeleteTripImages(ctx context.Context, tripKey string) error
}

// RemoteError carries the backend's message text.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Remote wraps err as a RemoteError unless it already is one.
func Remote(err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Message: err.Error(), Err: err}
}
