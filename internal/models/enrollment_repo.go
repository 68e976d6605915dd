package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/postgrest-go"
)

func (su *SupabaseRepo) FindEnrollment(ctx context.Context, tripID int64, email string) (*Enrollment, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(EnrollmentsTable).
		Select("*", "", false).
		Eq("trip_id", strconv.FormatInt(tripID, 10)).
		Eq("email", email).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}

	var rows []Enrollment
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enrollment rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (su *SupabaseRepo) InsertEnrollment(ctx context.Context, e Enrollment) (*Enrollment, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(EnrollmentsTable).
		Insert(e.ForReplace(), false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []Enrollment
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inserted enrollment: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no enrollment returned after insert")
	}
	return &rows[0], nil
}

func (su *SupabaseRepo) ListEnrollments(ctx context.Context) ([]Enrollment, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	raw, _, err := client.From(EnrollmentsTable).
		Select("*", "", false).
		Order("id", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, err
	}

	rows := []Enrollment{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enrollments: %w", err)
	}
	return rows, nil
}

// UpdateEnrollmentByEmail replaces every row carrying email. Two enrollments
// for different trips sharing an email are both overwritten.
func (su *SupabaseRepo) UpdateEnrollmentByEmail(ctx context.Context, email string, e Enrollment) (int, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return 0, err
	}

	raw, _, err := client.From(EnrollmentsTable).
		Update(e.ForReplace(), "representation", "").
		Eq("email", email).
		Execute()
	if err != nil {
		return 0, err
	}

	var rows []Enrollment
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal updated enrollments: %w", err)
	}
	return len(rows), nil
}

func (su *SupabaseRepo) DeleteEnrollment(ctx context.Context, id int64) error {
	client, err := su.clientFor(ctx)
	if err != nil {
		return err
	}

	_, _, err = client.From(EnrollmentsTable).
		Delete("minimal", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	return err
}
