package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyRegistered  = errors.New("user already registered for this trip")
	ErrNothingToUpdate    = errors.New("no fields to update")
	ErrStoreNotConfigured = errors.New("document store is not configured")
)

type SupabaseRepo struct {
	supabaseClient *supabase.Client
	url            string
	key            string
	bucket         string
}

func SupabaseNewRepo(supabaseClient *supabase.Client, url, key, bucket string) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
		url:            url,
		key:            key,
		bucket:         bucket,
	}
}

// GetAuthenticatedClient returns a Supabase client with the given access token
func (su *SupabaseRepo) GetAuthenticatedClient(accessToken string) (*supabase.Client, error) {
	if su.url == "" || su.key == "" {
		return su.supabaseClient, nil
	}

	options := &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	}

	return supabase.NewClient(su.url, su.key, options)
}

// clientFor picks the authenticated client when the request carries a token.
func (su *SupabaseRepo) clientFor(ctx context.Context) (*supabase.Client, error) {
	token := helpers.AccessTokenFrom(ctx)
	if token == "" {
		return su.supabaseClient, nil
	}
	client, err := su.GetAuthenticatedClient(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %w", err)
	}
	return client, nil
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb == nil || mdb.mongodbClient == nil {
		return nil, ErrStoreNotConfigured
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}
