package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/tripdesk/internal/helpers"
)

const DateLayout = "2006-01-02"

// Trip is a bookable itinerary. The id is assigned by the store on insert.
type Trip struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	StartDate  string     `json:"start_date"`
	ReturnDate string     `json:"return_date"`
	Duration   string     `json:"duration"`
	Status     string     `json:"status"`
	Price      float64    `json:"price"`
	Seats      int        `json:"seats"`
	Image      []string   `json:"image"`
	Plans      []string   `json:"plans"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// DisplayImages returns the image URLs worth rendering.
func (t Trip) DisplayImages() []string {
	return helpers.CompactStrings(t.Image)
}

// Key names the storage folder holding the trip's images.
func (t Trip) Key() string {
	return fmt.Sprint(t.ID)
}

// TripInput carries every attribute except the identifier.
type TripInput struct {
	Title      string   `json:"title" validate:"required"`
	StartDate  string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	ReturnDate string   `json:"return_date" validate:"required,datetime=2006-01-02"`
	Duration   string   `json:"duration"`
	Status     string   `json:"status"`
	Price      float64  `json:"price" validate:"gte=0"`
	Seats      int      `json:"seats" validate:"gte=0"`
	Image      []string `json:"image"`
	Plans      []string `json:"plans"`
}

// Normalize fills the list defaults a new trip starts with.
func (in *TripInput) Normalize() {
	if in.Image == nil {
		in.Image = []string{}
	}
	if in.Plans == nil {
		in.Plans = []string{}
	}
}

func (in TripInput) Validate() error {
	if err := Validate.Struct(in); err != nil {
		return err
	}
	return checkDateOrder(in.StartDate, in.ReturnDate)
}

// TripPatch is a partial replace; nil fields are left untouched.
type TripPatch struct {
	Title      *string   `json:"title,omitempty"`
	StartDate  *string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate *string   `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Duration   *string   `json:"duration,omitempty"`
	Status     *string   `json:"status,omitempty"`
	Price      *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Seats      *int      `json:"seats,omitempty" validate:"omitempty,gte=0"`
	Image      *[]string `json:"image,omitempty"`
	Plans      *[]string `json:"plans,omitempty"`
}

func (p TripPatch) IsEmpty() bool {
	return p == TripPatch{}
}

func (p TripPatch) Validate() error {
	if p.IsEmpty() {
		return ErrNothingToUpdate
	}
	if err := Validate.Struct(p); err != nil {
		return err
	}
	if p.StartDate != nil && p.ReturnDate != nil {
		return checkDateOrder(*p.StartDate, *p.ReturnDate)
	}
	return nil
}

// Apply returns a copy of t with the patch's fields replaced.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.ReturnDate != nil {
		t.ReturnDate = *p.ReturnDate
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.Seats != nil {
		t.Seats = *p.Seats
	}
	if p.Image != nil {
		t.Image = append([]string(nil), (*p.Image)...)
	}
	if p.Plans != nil {
		t.Plans = append([]string(nil), (*p.Plans)...)
	}
	return t
}

// PatchFromInput turns a full form submission into a patch that replaces
// every attribute.
func PatchFromInput(in TripInput) TripPatch {
	in.Normalize()
	return TripPatch{
		Title:      &in.Title,
		StartDate:  &in.StartDate,
		ReturnDate: &in.ReturnDate,
		Duration:   &in.Duration,
		Status:     &in.Status,
		Price:      &in.Price,
		Seats:      &in.Seats,
		Image:      &in.Image,
		Plans:      &in.Plans,
	}
}

func checkDateOrder(start, ret string) error {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	r, err := time.Parse(DateLayout, ret)
	if err != nil {
		return fmt.Errorf("invalid return_date: %w", err)
	}
	if r.Before(s) {
		return fmt.Errorf("return_date cannot be before start_date")
	}
	return nil
}

type TripRepo interface {
	ListTrips(ctx context.Context) ([]Trip, error)
	GetTrip(ctx context.Context, id int64) (*Trip, error)
	CreateTrip(ctx context.Context, in TripInput) ([]Trip, error)
	UpdateTrip(ctx context.Context, id int64, patch TripPatch) ([]Trip, error)
	DeleteTrip(ctx context.Context, id int64) error
}
