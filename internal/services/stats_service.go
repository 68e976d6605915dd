package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joshua-takyi/tripdesk/internal/charts"
	"github.com/joshua-takyi/tripdesk/internal/models"
)

// DashboardStats feeds the admin overview charts.
type DashboardStats struct {
	TotalTrips       int                     `json:"total_trips"`
	TotalEnrollments int                     `json:"total_enrollments"`
	TotalReviews     int                     `json:"total_reviews"`
	TotalUsers       int                     `json:"total_users"`
	Revenue          []charts.RevenuePoint   `json:"revenue"`
	Occupancy        []charts.OccupancyPoint `json:"occupancy"`
	Signups          []charts.MonthlyCount   `json:"signups"`
	Ratings          [5]int                  `json:"ratings"`
	Views            map[int64]int64         `json:"views"`
}

type StatsService struct {
	trips       models.TripRepo
	enrollments models.EnrollmentRepo
	reviews     models.ReviewsRepo
	users       models.UserRepo
	views       models.TripViewsRepo
	logger      *slog.Logger
}

func NewStatsService(trips models.TripRepo, enrollments models.EnrollmentRepo, reviews models.ReviewsRepo, users models.UserRepo, views models.TripViewsRepo, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{
		trips:       trips,
		enrollments: enrollments,
		reviews:     reviews,
		users:       users,
		views:       views,
		logger:      logger,
	}
}

// Overview reads every table once and reshapes the rows for the charts.
// View counts are best effort.
func (ss *StatsService) Overview(ctx context.Context) (*DashboardStats, error) {
	trips, err := ss.trips.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	enrollments, err := ss.enrollments.ListEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := ss.reviews.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := ss.users.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalTrips:       len(trips),
		TotalEnrollments: len(enrollments),
		TotalReviews:     len(reviews),
		TotalUsers:       len(profiles),
		Revenue:          charts.RevenueByTrip(enrollments),
		Occupancy:        charts.SeatOccupancy(trips, enrollments),
		Signups:          charts.SignupsByMonth(profiles),
		Ratings:          charts.RatingDistribution(reviews),
		Views:            map[int64]int64{},
	}

	if ss.views != nil {
		views, err := ss.views.CountViewsByTrip(ctx)
		switch {
		case errors.Is(err, models.ErrStoreNotConfigured):
		case err != nil:
			ss.logger.Warn("failed to count trip views", "error", err)
		default:
			stats.Views = views
		}
	}
	return stats, nil
}
