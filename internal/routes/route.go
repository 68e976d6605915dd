package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tripdesk/internal/container"
	"github.com/joshua-takyi/tripdesk/internal/handlers"
	"github.com/joshua-takyi/tripdesk/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Options.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	origins := container.Options.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{container.Options.FrontendURL}
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.Recovery(container.Logger))
	r.MaxMultipartMemory = 16 << 20

	authOpts := handlers.AuthOptions{
		FrontendURL:   container.Options.FrontendURL,
		SecureCookies: container.Options.SecureCookies,
	}
	auth := middleware.AuthMiddleware(container.TokenValidator, container.UserService, container.Options.SecureCookies, container.Logger)
	admin := middleware.RequireAdmin()

	r.GET("/auth/callback", handlers.OAuthCallback(container.UserService, authOpts))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health("tripdesk-api"))

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", handlers.SignUp(container.UserService))
			authRoutes.POST("/login", handlers.Login(container.UserService, authOpts))
			authRoutes.GET("/oauth/:provider", handlers.OAuthStart(container.UserService, authOpts))
			authRoutes.POST("/logout", handlers.Logout(container.UserService, authOpts))
			authRoutes.GET("/session", auth, handlers.Session())
		}

		tripRoutes := api.Group("/trips")
		{
			tripRoutes.GET("", handlers.ListTrips(container.TripService))
			tripRoutes.GET("/:id", handlers.GetTrip(container.TripService))
			tripRoutes.POST("/:id/view", middleware.OptionalAuth(container.TokenValidator), handlers.RecordTripView(container.TripService, container.Options.SecureCookies))
			tripRoutes.POST("/manage/save-user-trip", handlers.SaveUserTrip(container.EnrollmentService))

			tripRoutes.POST("", auth, admin, handlers.CreateTrip(container.TripService))
			tripRoutes.PUT("/:id", auth, admin, handlers.UpdateTrip(container.TripService))
			tripRoutes.DELETE("/:id", auth, admin, handlers.DeleteTrip(container.TripService))

			tripRoutes.GET("/:id/images", handlers.ListTripImages(container.TripService))
			tripRoutes.POST("/:id/images", auth, admin, handlers.UploadTripImage(container.TripService))
			tripRoutes.DELETE("/:id/images", auth, admin, handlers.DeleteTripImages(container.TripService))
		}

		reviewRoutes := api.Group("/reviews")
		{
			reviewRoutes.GET("", handlers.ListReviews(container.ReviewService))
			reviewRoutes.POST("", auth, handlers.SaveReview(container.ReviewService))
		}

		savedRoutes := api.Group("/saved-trips", auth)
		{
			savedRoutes.GET("", handlers.ListSavedTrips(container.SavedTripsService))
			savedRoutes.POST("/:id", handlers.SaveTripForUser(container.SavedTripsService))
			savedRoutes.DELETE("/:id", handlers.UnsaveTripForUser(container.SavedTripsService))
		}

		userRoutes := api.Group("/user/manage", auth, admin)
		{
			userRoutes.GET("/get-trips", handlers.GetUserTrips(container.EnrollmentService))
			userRoutes.PUT("/update-user", handlers.UpdateUser(container.EnrollmentService))
			userRoutes.DELETE("/delete-user", handlers.DeleteUser(container.EnrollmentService))
		}

		adminRoutes := api.Group("/admin", auth, admin)
		{
			adminRoutes.GET("/stats", handlers.DashboardStats(container.StatsService))
			adminRoutes.GET("/trips/:id/views", handlers.TripViewStats(container.TripService))
		}
	}

	return r
}
