package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joshua-takyi/tripdesk/internal/models"
)

// View is a point-in-time copy of the dashboard for a presenter.
type View struct {
	Trips      []models.Trip
	Loading    bool
	Submitting bool
	Modal      ModalState
	LastError  string
}

// Orchestrator is the single writer of the dashboard's trip list and modal
// state. Gateway calls run without holding the lock.
type Orchestrator struct {
	gw     Gateway
	logger *slog.Logger

	mu         sync.Mutex
	trips      []models.Trip
	loading    bool
	submitting bool
	modal      ModalState
	lastErr    string
}

func NewOrchestrator(gw Gateway, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gw:     gw,
		logger: logger,
		trips:  []models.Trip{},
	}
}

func (o *Orchestrator) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := View{
		Trips:      append([]models.Trip(nil), o.trips...),
		Loading:    o.loading,
		Submitting: o.submitting,
		Modal:      o.modal,
		LastError:  o.lastErr,
	}
	if o.modal.Editing != nil {
		editing := *o.modal.Editing
		v.Modal.Editing = &editing
	}
	return v
}

// Load replaces the list with a fresh snapshot from the gateway. On failure
// the previous list is kept.
func (o *Orchestrator) Load(ctx context.Context) {
	o.mu.Lock()
	o.loading = true
	o.mu.Unlock()

	trips, err := o.gw.ListTrips(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.loading = false
	if err != nil {
		o.fail("failed to load trips", err)
		return
	}
	o.trips = Reduce(o.trips, Action{Kind: ActionLoad, Trips: trips})
	o.lastErr = ""
}

func (o *Orchestrator) OpenAdd() error {
	return o.dispatch(Event{Kind: EventOpenAdd})
}

func (o *Orchestrator) Edit(trip models.Trip) error {
	return o.dispatch(Event{Kind: EventOpenEdit, Trip: &trip})
}

// Delete asks for confirmation before anything is removed.
func (o *Orchestrator) Delete(id int64) error {
	return o.dispatch(Event{Kind: EventRequestDelete, TargetID: id})
}

func (o *Orchestrator) CancelDelete() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.modal.Mode != ConfirmingDelete {
		return ErrInvalidTransition
	}
	return o.transition(Event{Kind: EventCancel})
}

// Cancel closes the trip form.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.modal.Mode != FormOpen {
		return ErrInvalidTransition
	}
	return o.transition(Event{Kind: EventCancel})
}

func (o *Orchestrator) Escape() error {
	return o.dispatch(Event{Kind: EventEscape})
}

func (o *Orchestrator) BackdropClick() error {
	return o.dispatch(Event{Kind: EventBackdropClick})
}

// Submit creates a trip, or updates the one being edited. The form closes on
// success and stays open on failure. Concurrent submits are not rejected.
func (o *Orchestrator) Submit(ctx context.Context, in models.TripInput) error {
	o.mu.Lock()
	if o.modal.Mode != FormOpen {
		o.mu.Unlock()
		return ErrInvalidTransition
	}
	var editing *models.Trip
	if o.modal.Editing != nil {
		t := *o.modal.Editing
		editing = &t
	}
	o.submitting = true
	o.mu.Unlock()

	var (
		result models.Trip
		patch  models.TripPatch
		err    error
	)
	if editing != nil {
		patch = models.PatchFromInput(in)
		result, err = o.gw.UpdateTrip(ctx, editing.ID, patch)
	} else {
		in.Normalize()
		result, err = o.gw.CreateTrip(ctx, in)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitting = false
	if err != nil {
		if editing != nil {
			o.fail("failed to update trip", err, "trip_id", editing.ID)
		} else {
			o.fail("failed to create trip", err)
		}
		return nil
	}

	action := Action{Kind: ActionCreate, Trip: result}
	if editing != nil {
		if result.ID == 0 {
			// nothing matched remotely; mirror the edit locally anyway
			result = patch.Apply(*editing)
		}
		action = Action{Kind: ActionUpdate, Trip: result}
	}
	o.trips = Reduce(o.trips, action)
	o.lastErr = ""
	if o.modal.Mode == FormOpen {
		_ = o.transition(Event{Kind: EventSubmitted})
	}
	return nil
}

// ConfirmDelete removes the target trip's images and then its row. A failed
// image removal stops before the row is touched. The confirmation closes
// either way.
func (o *Orchestrator) ConfirmDelete(ctx context.Context) error {
	o.mu.Lock()
	if o.modal.Mode != ConfirmingDelete {
		o.mu.Unlock()
		return ErrInvalidTransition
	}
	id := o.modal.TargetID
	o.loading = true
	o.mu.Unlock()

	err := o.gw.DeleteTripImages(ctx, models.Trip{ID: id}.Key())
	msg := "failed to delete trip images"
	if err == nil {
		err = o.gw.DeleteTrip(ctx, id)
		msg = "failed to delete trip"
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.loading = false
	if err != nil {
		o.fail(msg, err, "trip_id", id)
	} else {
		o.trips = Reduce(o.trips, Action{Kind: ActionDelete, ID: id})
		o.lastErr = ""
	}
	if o.modal.Mode == ConfirmingDelete && o.modal.TargetID == id {
		_ = o.transition(Event{Kind: EventDeleteFinished})
	}
	return nil
}

func (o *Orchestrator) dispatch(ev Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transition(ev)
}

// transition must be called with mu held.
func (o *Orchestrator) transition(ev Event) error {
	next, err := o.modal.Transition(ev)
	if err != nil {
		o.logger.Debug("modal transition rejected", "event", ev.Kind.String(), "mode", o.modal.Mode.String())
		return err
	}
	o.modal = next
	return nil
}

// fail must be called with mu held.
func (o *Orchestrator) fail(msg string, err error, attrs ...any) {
	o.logger.Error(msg, append(attrs, "error", err)...)
	o.lastErr = err.Error()
}
