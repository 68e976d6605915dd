package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/tripdesk/internal/config"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/services"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

const mongoDatabase = "tripdesk"

// Repos lists every store the services depend on.
type Repos struct {
	Trips       models.TripRepo
	Images      models.ImageStore
	Enrollments models.EnrollmentRepo
	Reviews     models.ReviewsRepo
	Users       models.UserRepo
	Views       models.TripViewsRepo
	Saved       models.SavedTripsRepo
}

type Options struct {
	FrontendURL    string
	AllowedOrigins []string
	SecureCookies  bool
	Production     bool
}

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	Options        Options
	TokenValidator helpers.TokenValidator

	// Database clients; nil when built from plain repositories.
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	Views          models.TripViewsRepo

	UserService       *services.UserService
	TripService       *services.TripService
	EnrollmentService *services.EnrollmentService
	ReviewService     *services.ReviewService
	SavedTripsService *services.SavedTripsService
	StatsService      *services.StatsService
}

// NewContainer wires the Supabase and MongoDB backed repositories. A nil
// mongoDBClient leaves view tracking and saved trips disabled; a non-nil cld
// moves trip images from the storage bucket to Cloudinary.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	cld *cloudinary.Cloudinary,
	validator helpers.TokenValidator,
) *Container {
	supa := models.SupabaseNewRepo(supabaseClient, cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.StorageBucket)
	mdb := models.MongodbNewRepo(mongoDBClient, mongoDatabase)

	var images models.ImageStore = supa
	if cld != nil {
		images = models.NewCloudinaryStore(cld)
	}

	c := NewWithRepos(logger, Repos{
		Trips:       supa,
		Images:      images,
		Enrollments: supa,
		Reviews:     supa,
		Users:       supa,
		Views:       mdb,
		Saved:       mdb,
	}, validator, Options{
		FrontendURL:    cfg.FrontendURL,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
		Production:     cfg.IsProduction(),
	})
	c.SupabaseClient = supabaseClient
	c.MongoDBClient = mongoDBClient
	return c
}

func NewWithRepos(logger *slog.Logger, repos Repos, validator helpers.TokenValidator, opts Options) *Container {
	return &Container{
		Logger:            logger,
		Options:           opts,
		TokenValidator:    validator,
		Views:             repos.Views,
		UserService:       services.NewUserService(repos.Users),
		TripService:       services.NewTripService(repos.Trips, repos.Images, repos.Views, logger),
		EnrollmentService: services.NewEnrollmentService(repos.Enrollments),
		ReviewService:     services.NewReviewService(repos.Reviews),
		SavedTripsService: services.NewSavedTripsService(repos.Saved, repos.Trips),
		StatsService:      services.NewStatsService(repos.Trips, repos.Enrollments, repos.Reviews, repos.Users, repos.Views, logger),
	}
}
