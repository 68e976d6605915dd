package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/tripdesk/internal/charts"
	"github.com/joshua-takyi/tripdesk/internal/models"
)

type EnrollmentService struct {
	enrollments models.EnrollmentRepo
}

func NewEnrollmentService(enrollments models.EnrollmentRepo) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
	}
}

// SaveUserTrip registers e unless the same email is already on the trip.
// The lookup and the insert are separate calls, so two concurrent requests
// can still both insert.
func (es *EnrollmentService) SaveUserTrip(ctx context.Context, e models.Enrollment) (*models.Enrollment, error) {
	e.Email = strings.TrimSpace(e.Email)
	e.TripName = strings.TrimSpace(e.TripName)
	if e.MissingFields() {
		return nil, models.ErrMissingField
	}

	existing, err := es.enrollments.FindEnrollment(ctx, e.TripID, e.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, models.ErrAlreadyRegistered
	}

	if e.Counter.Count <= 0 {
		e.Counter.Count = 1
	}
	return es.enrollments.InsertEnrollment(ctx, e)
}

func (es *EnrollmentService) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return es.enrollments.ListEnrollments(ctx)
}

// TripsWithUsers groups every enrollment under its trip name.
func (es *EnrollmentService) TripsWithUsers(ctx context.Context) ([]charts.TripEnrollments, error) {
	rows, err := es.enrollments.ListEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	return charts.GroupEnrollmentsByTrip(rows), nil
}

// UpdateUser replaces every enrollment carrying e.Email and reports how many
// rows changed.
func (es *EnrollmentService) UpdateUser(ctx context.Context, e models.Enrollment) (int, error) {
	e.Email = strings.TrimSpace(e.Email)
	if e.Email == "" {
		return 0, models.ErrMissingField
	}
	if e.Counter.Paid < 0 || e.Counter.Balance < 0 || e.Price < 0 {
		return 0, fmt.Errorf("%w: amounts cannot be negative", models.ErrInvalidInput)
	}
	return es.enrollments.UpdateEnrollmentByEmail(ctx, e.Email, e)
}

func (es *EnrollmentService) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return models.ErrMissingField
	}
	return es.enrollments.DeleteEnrollment(ctx, id)
}
