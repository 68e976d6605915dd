// Package charts reshapes flat store rows into the nested series the admin
// dashboard plots.
package charts

import (
	"sort"

	"github.com/joshua-takyi/tripdesk/internal/models"
)

// TripEnrollments groups the people registered for one trip.
type TripEnrollments struct {
	TripName string              `json:"trip_name"`
	Users    []models.Enrollment `json:"users"`
}

type RevenuePoint struct {
	TripName string  `json:"trip_name"`
	Paid     float64 `json:"paid"`
	Balance  float64 `json:"balance"`
	Refunds  int     `json:"refunds"`
}

type OccupancyPoint struct {
	TripID    int64  `json:"trip_id"`
	Title     string `json:"title"`
	Seats     int    `json:"seats"`
	Booked    int    `json:"booked"`
	Confirmed int    `json:"confirmed"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// GroupEnrollmentsByTrip buckets rows by trip name, keeping the order in
// which each trip was first seen.
func GroupEnrollmentsByTrip(rows []models.Enrollment) []TripEnrollments {
	out := []TripEnrollments{}
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.TripName]
		if !ok {
			i = len(out)
			index[r.TripName] = i
			out = append(out, TripEnrollments{TripName: r.TripName, Users: []models.Enrollment{}})
		}
		out[i].Users = append(out[i].Users, r)
	}
	return out
}

func RevenueByTrip(rows []models.Enrollment) []RevenuePoint {
	out := []RevenuePoint{}
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.TripName]
		if !ok {
			i = len(out)
			index[r.TripName] = i
			out = append(out, RevenuePoint{TripName: r.TripName})
		}
		out[i].Paid += r.Counter.Paid
		out[i].Balance += r.Counter.Balance
		if r.Counter.Refund {
			out[i].Refunds++
		}
	}
	return out
}

// SeatOccupancy compares each trip's seat count with the seats booked
// against it. Booked counts every enrollment's counter; Confirmed only the
// confirmed ones. A zero counter is treated as one seat.
func SeatOccupancy(trips []models.Trip, rows []models.Enrollment) []OccupancyPoint {
	booked := map[int64]int{}
	confirmed := map[int64]int{}
	for _, r := range rows {
		n := r.Counter.Count
		if n <= 0 {
			n = 1
		}
		booked[r.TripID] += n
		if r.Counter.Confirmed {
			confirmed[r.TripID] += n
		}
	}

	out := make([]OccupancyPoint, 0, len(trips))
	for _, t := range trips {
		out = append(out, OccupancyPoint{
			TripID:    t.ID,
			Title:     t.Title,
			Seats:     t.Seats,
			Booked:    booked[t.ID],
			Confirmed: confirmed[t.ID],
		})
	}
	return out
}

// SignupsByMonth counts profiles per creation month (YYYY-MM), oldest first.
func SignupsByMonth(users []models.Profile) []MonthlyCount {
	counts := map[string]int{}
	for _, u := range users {
		if u.CreatedAt.IsZero() {
			continue
		}
		counts[u.CreatedAt.UTC().Format("2006-01")]++
	}

	out := make([]MonthlyCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MonthlyCount{Month: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// RatingDistribution returns the number of reviews per star; index 0 holds
// one-star reviews. Out of range ratings are ignored.
func RatingDistribution(reviews []models.Review) [5]int {
	var dist [5]int
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		dist[r.Rating-1]++
	}
	return dist
}
