package models

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SavedTripsColName = "saved_trips"

type SavedTrip struct {
	TripID  int64     `bson:"trip_id" json:"trip_id"`
	Title   string    `bson:"title" json:"title"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}

// SavedTrips is one user's wishlist, keyed by trip id.
type SavedTrips struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    string               `bson:"user_id" json:"user_id" validate:"required"`
	Items     map[string]SavedTrip `bson:"items" json:"items"`
	CreatedAt time.Time            `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time            `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type SavedTripsRepo interface {
	SaveTrip(ctx context.Context, userID uuid.UUID, trip Trip) (*SavedTrips, error)
	UnsaveTrip(ctx context.Context, userID uuid.UUID, tripID int64) error
	GetSavedTrips(ctx context.Context, userID uuid.UUID) (*SavedTrips, error)
}

func (mdb *MongodbRepo) savedTripsIndexes(ctx context.Context) (string, error) {
	col, err := mdb.GetCollection(SavedTripsColName)
	if err != nil {
		return "", err
	}
	name, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	if err != nil {
		return "", fmt.Errorf("error creating saved trips index: %w", err)
	}
	return name, nil
}

func (mdb *MongodbRepo) SaveTrip(ctx context.Context, userID uuid.UUID, trip Trip) (*SavedTrips, error) {
	col, err := mdb.GetCollection(SavedTripsColName)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	key := strconv.FormatInt(trip.ID, 10)

	update := bson.M{
		"$set": bson.M{
			"updated_at":     now,
			"items." + key: SavedTrip{
				TripID:  trip.ID,
				Title:   trip.Title,
				AddedAt: now,
			},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID.String(),
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result SavedTrips
	err = col.FindOneAndUpdate(ctx, bson.M{"user_id": userID.String()}, update, opts).Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("error saving trip: %w", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) UnsaveTrip(ctx context.Context, userID uuid.UUID, tripID int64) error {
	col, err := mdb.GetCollection(SavedTripsColName)
	if err != nil {
		return err
	}

	update := bson.M{
		"$unset": bson.M{"items." + strconv.FormatInt(tripID, 10): ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}
	if _, err := col.UpdateOne(ctx, bson.M{"user_id": userID.String()}, update); err != nil {
		return fmt.Errorf("error removing saved trip: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetSavedTrips(ctx context.Context, userID uuid.UUID) (*SavedTrips, error) {
	col, err := mdb.GetCollection(SavedTripsColName)
	if err != nil {
		return nil, err
	}

	var result SavedTrips
	err = col.FindOne(ctx, bson.M{"user_id": userID.String()}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return &SavedTrips{UserID: userID.String(), Items: map[string]SavedTrip{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding saved trips: %w", err)
	}
	return &result, nil
}
