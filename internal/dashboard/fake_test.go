package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/joshua-takyi/tripdesk/internal/models"
)

// fakeGateway is an in-memory trip table with a flat image folder per trip.
type fakeGateway struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.Trip
	images map[string][]string
	calls  []string

	listErr         error
	createErr       error
	updateErr       error
	deleteErr       error
	deleteImagesErr error
}

func newFakeGateway(rows ...models.Trip) *fakeGateway {
	g := &fakeGateway{nextID: 100, images: map[string][]string{}}
	g.rows = append(g.rows, rows...)
	return g
}

func (g *fakeGateway) record(call string) {
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) ListTrips(ctx context.Context) ([]models.Trip, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("list")
	if g.listErr != nil {
		return nil, Remote(g.listErr)
	}
	return append([]models.Trip(nil), g.rows...), nil
}

func (g *fakeGateway) CreateTrip(ctx context.Context, in models.TripInput) (models.Trip, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("create")
	if g.createErr != nil {
		return models.Trip{}, Remote(g.createErr)
	}
	g.nextID++
	t := models.Trip{
		ID:         g.nextID,
		Title:      in.Title,
		StartDate:  in.StartDate,
		ReturnDate: in.ReturnDate,
		Duration:   in.Duration,
		Status:     in.Status,
		Price:      in.Price,
		Seats:      in.Seats,
		Image:      in.Image,
		Plans:      in.Plans,
	}
	g.rows = append(g.rows, t)
	return t, nil
}

func (g *fakeGateway) UpdateTrip(ctx context.Context, id int64, patch models.TripPatch) (models.Trip, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("update")
	if g.updateErr != nil {
		return models.Trip{}, Remote(g.updateErr)
	}
	for i, t := range g.rows {
		if t.ID == id {
			g.rows[i] = patch.Apply(t)
			return g.rows[i], nil
		}
	}
	return models.Trip{}, nil
}

func (g *fakeGateway) DeleteTrip(ctx context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("delete")
	if g.deleteErr != nil {
		return Remote(g.deleteErr)
	}
	out := g.rows[:0]
	for _, t := range g.rows {
		if t.ID != id {
			out = append(out, t)
		}
	}
	g.rows = out
	return nil
}

func (g *fakeGateway) DeleteTripImages(ctx context.Context, tripKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("delete_images")
	if g.deleteImagesErr != nil {
		return Remote(g.deleteImagesErr)
	}
	delete(g.images, tripKey)
	return nil
}

func (g *fakeGateway) has(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range g.rows {
		if t.ID == id {
			return true
		}
	}
	return false
}

var errBackend = errors.New("(PGRST301) JWT expired")
