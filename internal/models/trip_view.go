package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	TripViewsColName = "trip_views"
	viewDedupWindow  = time.Hour
	viewRetention    = 30 * 24 * time.Hour
)

type TripView struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TripID    int64              `bson:"trip_id" json:"trip_id" validate:"required"`
	UserID    *string            `bson:"user_id,omitempty" json:"user_id,omitempty"`
	SessionID string             `bson:"session_id" json:"session_id" validate:"required"`
	IPAddress string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	ViewedAt  time.Time          `bson:"viewed_at" json:"viewed_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}

type TripViewStats struct {
	TripID        int64 `json:"trip_id"`
	TotalViews    int64 `json:"total_views"`
	UniqueViews   int64 `json:"unique_views"`
	ViewsToday    int64 `json:"views_today"`
	ViewsThisWeek int64 `json:"views_this_week"`
}

type TripViewsRepo interface {
	EnsureIndexes(ctx context.Context) error
	TrackTripView(ctx context.Context, view *TripView) error
	GetTripViewStats(ctx context.Context, tripID int64) (*TripViewStats, error)
	CountViewsByTrip(ctx context.Context) (map[int64]int64, error)
}

// EnsureIndexes creates necessary indexes including TTL
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(TripViewsColName)
	if err != nil {
		return err
	}

	indexes := []mongo.IndexModel{
		// documents expire at the time stored in expires_at
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetName("expires_at_ttl"),
		},
		{
			Keys: bson.D{
				{Key: "trip_id", Value: 1},
				{Key: "viewed_at", Value: -1},
			},
			Options: options.Index().SetName("trip_viewed_at_idx"),
		},
		{
			Keys: bson.D{
				{Key: "trip_id", Value: 1},
				{Key: "session_id", Value: 1},
			},
			Options: options.Index().SetName("trip_session_idx"),
		},
	}

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating indexes: %w", err)
	}

	if _, err := mdb.savedTripsIndexes(ctx); err != nil {
		return err
	}
	return nil
}

// TrackTripView records a view unless the same session viewed the trip
// within the dedup window.
func (mdb *MongodbRepo) TrackTripView(ctx context.Context, view *TripView) error {
	col, err := mdb.GetCollection(TripViewsColName)
	if err != nil {
		return err
	}

	since := time.Now().Add(-viewDedupWindow)
	err = col.FindOne(ctx, bson.M{
		"trip_id":    view.TripID,
		"session_id": view.SessionID,
		"viewed_at":  bson.M{"$gte": since},
	}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("error checking recent views: %w", err)
	}

	now := time.Now()
	view.ViewedAt = now
	view.ExpiresAt = now.Add(viewRetention)
	if view.ID.IsZero() {
		view.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, view); err != nil {
		return fmt.Errorf("error inserting trip view: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetTripViewStats(ctx context.Context, tripID int64) (*TripViewStats, error) {
	col, err := mdb.GetCollection(TripViewsColName)
	if err != nil {
		return nil, err
	}

	stats := &TripViewStats{TripID: tripID}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))

	if stats.TotalViews, err = col.CountDocuments(ctx, bson.M{"trip_id": tripID}); err != nil {
		return nil, fmt.Errorf("error counting total views: %w", err)
	}

	uniquePipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"trip_id": tripID}}},
		{{Key: "$group", Value: bson.M{"_id": "$session_id"}}},
		{{Key: "$count", Value: "unique_sessions"}},
	}
	cursor, err := col.Aggregate(ctx, uniquePipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating unique views: %w", err)
	}
	defer cursor.Close(ctx)

	var uniqueResult []struct {
		UniqueSessions int64 `bson:"unique_sessions"`
	}
	if err := cursor.All(ctx, &uniqueResult); err != nil {
		return nil, fmt.Errorf("error decoding unique views: %w", err)
	}
	if len(uniqueResult) > 0 {
		stats.UniqueViews = uniqueResult[0].UniqueSessions
	}

	if stats.ViewsToday, err = col.CountDocuments(ctx, bson.M{
		"trip_id":   tripID,
		"viewed_at": bson.M{"$gte": startOfDay},
	}); err != nil {
		return nil, fmt.Errorf("error counting today's views: %w", err)
	}

	if stats.ViewsThisWeek, err = col.CountDocuments(ctx, bson.M{
		"trip_id":   tripID,
		"viewed_at": bson.M{"$gte": startOfWeek},
	}); err != nil {
		return nil, fmt.Errorf("error counting this week's views: %w", err)
	}

	return stats, nil
}

// CountViewsByTrip returns total retained views keyed by trip id.
func (mdb *MongodbRepo) CountViewsByTrip(ctx context.Context) (map[int64]int64, error) {
	col, err := mdb.GetCollection(TripViewsColName)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$trip_id",
			"views": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating views: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TripID int64 `bson:"_id"`
		Views  int64 `bson:"views"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding views: %w", err)
	}

	out := make(map[int64]int64, len(rows))
	for _, r := range rows {
		out[r.TripID] = r.Views
	}
	return out, nil
}
