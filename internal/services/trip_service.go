package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/joshua-takyi/tripdesk/internal/dashboard"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/models"
)

// TripService is the server-side trip gateway: trip rows in Postgres, trip
// images in the storage bucket, and page views in Mongo when configured.
type TripService struct {
	trips  models.TripRepo
	images models.ImageStore
	views  models.TripViewsRepo
	logger *slog.Logger
}

var _ dashboard.Gateway = (*TripService)(nil)

func NewTripService(trips models.TripRepo, images models.ImageStore, views models.TripViewsRepo, logger *slog.Logger) *TripService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TripService{
		trips:  trips,
		images: images,
		views:  views,
		logger: logger,
	}
}

func (ts *TripService) ListTrips(ctx context.Context) ([]models.Trip, error) {
	trips, err := ts.trips.ListTrips(ctx)
	if err != nil {
		return nil, dashboard.Remote(err)
	}
	return trips, nil
}

func (ts *TripService) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	trip, err := ts.trips.GetTrip(ctx, id)
	if err != nil {
		return nil, dashboard.Remote(err)
	}
	return trip, nil
}

// InsertTrip validates and inserts in, returning the rows the store echoed.
func (ts *TripService) InsertTrip(ctx context.Context, in models.TripInput) ([]models.Trip, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	rows, err := ts.trips.CreateTrip(ctx, in)
	if err != nil {
		return nil, dashboard.Remote(err)
	}
	return rows, nil
}

func (ts *TripService) CreateTrip(ctx context.Context, in models.TripInput) (models.Trip, error) {
	rows, err := ts.InsertTrip(ctx, in)
	if err != nil {
		return models.Trip{}, dashboard.Remote(err)
	}
	if len(rows) == 0 {
		return models.Trip{}, &dashboard.RemoteError{Message: "no trip returned after insert"}
	}
	return rows[0], nil
}

// PatchTrip applies a partial update and returns the rows that matched.
func (ts *TripService) PatchTrip(ctx context.Context, id int64, patch models.TripPatch) ([]models.Trip, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: trip id must be positive", models.ErrInvalidInput)
	}
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	rows, err := ts.trips.UpdateTrip(ctx, id, patch)
	if err != nil {
		return nil, dashboard.Remote(err)
	}
	return rows, nil
}

func (ts *TripService) UpdateTrip(ctx context.Context, id int64, patch models.TripPatch) (models.Trip, error) {
	rows, err := ts.PatchTrip(ctx, id, patch)
	if err != nil {
		return models.Trip{}, dashboard.Remote(err)
	}
	if len(rows) == 0 {
		ts.logger.Warn("trip update matched no rows", "trip_id", id)
		return models.Trip{}, nil
	}
	return rows[0], nil
}

func (ts *TripService) DeleteTrip(ctx context.Context, id int64) error {
	if err := ts.trips.DeleteTrip(ctx, id); err != nil {
		return dashboard.Remote(err)
	}
	return nil
}

// DeleteTripImages empties the trip's storage folder. Objects still listed
// after the removal are logged, not reported.
func (ts *TripService) DeleteTripImages(ctx context.Context, tripKey string) error {
	tripKey = strings.TrimSpace(tripKey)
	if tripKey == "" {
		return dashboard.Remote(fmt.Errorf("%w: trip key is required", models.ErrInvalidInput))
	}
	folder := helpers.TripImageFolder(tripKey)

	paths, err := ts.images.ListObjects(ctx, folder)
	if err != nil {
		return dashboard.Remote(err)
	}
	if len(paths) == 0 {
		return nil
	}
	if err := ts.images.RemoveObjects(ctx, paths); err != nil {
		return dashboard.Remote(err)
	}

	residual, err := ts.images.ListObjects(ctx, folder)
	if err != nil {
		ts.logger.Warn("could not verify trip image removal", "folder", folder, "error", err)
		return nil
	}
	if len(residual) > 0 {
		ts.logger.Warn("trip images remain after removal", "folder", folder, "remaining", residual)
	}
	return nil
}

// UploadTripImage stores one image under the trip's folder and returns its
// public URL.
func (ts *TripService) UploadTripImage(ctx context.Context, id int64, filename, contentType string, body io.Reader) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: trip id must be positive", models.ErrInvalidInput)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: unsupported content type %q", models.ErrInvalidInput, contentType)
	}

	objectPath := path.Join(helpers.TripImageFolder(models.Trip{ID: id}.Key()), uuid.NewString()+"-"+objectName(filename))

	url, err := ts.images.UploadObject(ctx, objectPath, contentType, body)
	if err != nil {
		return "", dashboard.Remote(err)
	}
	return url, nil
}

// objectName reduces an uploaded filename to a slugged stem plus its
// lowercased extension.
func objectName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := strings.ToLower(path.Ext(base))
	stem := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "image"
	}
	if ext == "." {
		ext = ""
	}
	return stem + ext
}

func (ts *TripService) ListTripImages(ctx context.Context, id int64) ([]string, error) {
	paths, err := ts.images.ListObjects(ctx, helpers.TripImageFolder(models.Trip{ID: id}.Key()))
	if err != nil {
		return nil, dashboard.Remote(err)
	}
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, ts.images.PublicURL(p))
	}
	return urls, nil
}

// RecordView tracks a page view. It is a no-op when no document store is
// configured.
func (ts *TripService) RecordView(ctx context.Context, view *models.TripView) error {
	if ts.views == nil {
		return nil
	}
	if view.TripID <= 0 || view.SessionID == "" {
		return fmt.Errorf("%w: trip id and session id are required", models.ErrInvalidInput)
	}
	err := ts.views.TrackTripView(ctx, view)
	if errors.Is(err, models.ErrStoreNotConfigured) {
		return nil
	}
	return err
}

func (ts *TripService) ViewStats(ctx context.Context, id int64) (*models.TripViewStats, error) {
	if ts.views == nil {
		return &models.TripViewStats{TripID: id}, nil
	}
	stats, err := ts.views.GetTripViewStats(ctx, id)
	if errors.Is(err, models.ErrStoreNotConfigured) {
		return &models.TripViewStats{TripID: id}, nil
	}
	return stats, err
}
