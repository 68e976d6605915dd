package models

import (
	"context"
	"time"
)

// Counter tracks seats and payment for one enrollment.
type Counter struct {
	Count     int     `json:"count"`
	Confirmed bool    `json:"confirmed"`
	Paid      float64 `json:"paid"`
	Balance   float64 `json:"balance"`
	Refund    bool    `json:"refund"`
}

// Enrollment links a person (by email) to a trip.
type Enrollment struct {
	ID         int64      `json:"id,omitempty"`
	TripID     int64      `json:"trip_id"`
	TripName   string     `json:"trip_name"`
	Email      string     `json:"email"`
	Name       string     `json:"name,omitempty"`
	Mobile     string     `json:"mobile,omitempty"`
	Counter    Counter    `json:"counter"`
	Price      float64    `json:"price"`
	StartDate  string     `json:"start_date,omitempty"`
	ReturnDate string     `json:"return_date,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// MissingFields reports whether the registration keys are absent.
func (e Enrollment) MissingFields() bool {
	return e.TripID == 0 || e.TripName == "" || e.Email == ""
}

// ForReplace strips the fields the store owns before a full-record replace.
func (e Enrollment) ForReplace() Enrollment {
	e.ID = 0
	e.CreatedAt = nil
	return e
}

type EnrollmentRepo interface {
	FindEnrollment(ctx context.Context, tripID int64, email string) (*Enrollment, error)
	InsertEnrollment(ctx context.Context, e Enrollment) (*Enrollment, error)
	ListEnrollments(ctx context.Context) ([]Enrollment, error)
	UpdateEnrollmentByEmail(ctx context.Context, email string, e Enrollment) (int, error)
	DeleteEnrollment(ctx context.Context, id int64) error
}
