// Package modelstest provides an in-memory implementation of the model
// repositories for tests.
package modelstest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

// ErrNoRows mirrors the store's single-row error text.
var ErrNoRows = errors.New("(PGRST116) JSON object requested, multiple (or no) rows returned")

var (
	_ models.TripRepo       = (*Store)(nil)
	_ models.ImageStore     = (*Store)(nil)
	_ models.EnrollmentRepo = (*Store)(nil)
	_ models.ReviewsRepo    = (*Store)(nil)
	_ models.UserRepo       = (*Store)(nil)
	_ models.TripViewsRepo  = (*Store)(nil)
	_ models.SavedTripsRepo = (*Store)(nil)
)

// Store holds every table in memory. Fail makes the named method return an
// error until cleared with Fail(name, nil).
type Store struct {
	mu sync.Mutex

	nextID      int64
	Trips       []models.Trip
	Enrollments []models.Enrollment
	Reviews     []models.Review
	Profiles    []models.Profile
	Objects     map[string][]byte
	Views       []models.TripView
	Saved       map[uuid.UUID]*models.SavedTrips

	// Residual keeps objects in place on removal, to exercise verification.
	Residual bool
	// Users maps email to password for the auth methods.
	Users map[string]string

	failures map[string]error
	calls    []string
}

func NewStore() *Store {
	return &Store{
		nextID:   0,
		Objects:  map[string][]byte{},
		Saved:    map[uuid.UUID]*models.SavedTrips{},
		Users:    map[string]string{},
		failures: map[string]error{},
	}
}

func (s *Store) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// Calls lists the methods invoked so far, in order.
func (s *Store) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Store) enter(method string) error {
	s.calls = append(s.calls, method)
	return s.failures[method]
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) ListTrips(ctx context.Context) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListTrips"); err != nil {
		return nil, err
	}
	return append([]models.Trip{}, s.Trips...), nil
}

func (s *Store) GetTrip(ctx context.Context, id int64) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetTrip"); err != nil {
		return nil, err
	}
	for _, t := range s.Trips {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrNoRows
}

func (s *Store) CreateTrip(ctx context.Context, in models.TripInput) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateTrip"); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := models.Trip{
		ID:         s.id(),
		Title:      in.Title,
		StartDate:  in.StartDate,
		ReturnDate: in.ReturnDate,
		Duration:   in.Duration,
		Status:     in.Status,
		Price:      in.Price,
		Seats:      in.Seats,
		Image:      in.Image,
		Plans:      in.Plans,
		CreatedAt:  &now,
	}
	s.Trips = append(s.Trips, t)
	return []models.Trip{t}, nil
}

func (s *Store) UpdateTrip(ctx context.Context, id int64, patch models.TripPatch) ([]models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateTrip"); err != nil {
		return nil, err
	}
	for i, t := range s.Trips {
		if t.ID == id {
			s.Trips[i] = patch.Apply(t)
			return []models.Trip{s.Trips[i]}, nil
		}
	}
	return []models.Trip{}, nil
}

func (s *Store) DeleteTrip(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteTrip"); err != nil {
		return err
	}
	out := s.Trips[:0]
	for _, t := range s.Trips {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.Trips = out
	return nil
}

func (s *Store) ListObjects(ctx context.Context, folder string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListObjects"); err != nil {
		return nil, err
	}
	var out []string
	for p := range s.Objects {
		if path.Dir(p) == folder {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) RemoveObjects(ctx context.Context, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("RemoveObjects"); err != nil {
		return err
	}
	if s.Residual {
		return nil
	}
	for _, p := range paths {
		delete(s.Objects, p)
	}
	return nil
}

func (s *Store) UploadObject(ctx context.Context, objectPath string, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UploadObject"); err != nil {
		return "", err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if _, ok := s.Objects[objectPath]; ok {
		return "", fmt.Errorf("the resource already exists")
	}
	s.Objects[objectPath] = data
	return s.PublicURL(objectPath), nil
}

func (s *Store) PublicURL(objectPath string) string {
	return "https://storage.test/trip-images/" + objectPath
}

func (s *Store) FindEnrollment(ctx context.Context, tripID int64, email string) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindEnrollment"); err != nil {
		return nil, err
	}
	for _, e := range s.Enrollments {
		if e.TripID == tripID && e.Email == email {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertEnrollment(ctx context.Context, e models.Enrollment) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertEnrollment"); err != nil {
		return nil, err
	}
	e = e.ForReplace()
	e.ID = s.id()
	s.Enrollments = append(s.Enrollments, e)
	return &e, nil
}

func (s *Store) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListEnrollments"); err != nil {
		return nil, err
	}
	return append([]models.Enrollment{}, s.Enrollments...), nil
}

func (s *Store) UpdateEnrollmentByEmail(ctx context.Context, email string, e models.Enrollment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateEnrollmentByEmail"); err != nil {
		return 0, err
	}
	n := 0
	for i, row := range s.Enrollments {
		if row.Email == email {
			next := e.ForReplace()
			next.ID = row.ID
			next.CreatedAt = row.CreatedAt
			s.Enrollments[i] = next
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteEnrollment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteEnrollment"); err != nil {
		return err
	}
	out := s.Enrollments[:0]
	for _, e := range s.Enrollments {
		if e.ID != id {
			out = append(out, e)
		}
	}
	s.Enrollments = out
	return nil
}

func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListReviews"); err != nil {
		return nil, err
	}
	return append([]models.Review{}, s.Reviews...), nil
}

func (s *Store) FindReviewByUser(ctx context.Context, userID uuid.UUID) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindReviewByUser"); err != nil {
		return nil, err
	}
	for _, r := range s.Reviews {
		if r.UserID == userID {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertReview(ctx context.Context, r models.Review) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertReview"); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	r.ID = s.id()
	r.CreatedAt = &now
	s.Reviews = append(s.Reviews, r)
	return &r, nil
}

func (s *Store) UpdateReview(ctx context.Context, id int64, r models.Review) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateReview"); err != nil {
		return nil, err
	}
	for i, row := range s.Reviews {
		if row.ID == id {
			r.ID = row.ID
			r.UserID = row.UserID
			r.CreatedAt = row.CreatedAt
			s.Reviews[i] = r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("no review returned")
}

func (s *Store) SignUp(ctx context.Context, req models.SignupRequest) (*types.SignupResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SignUp"); err != nil {
		return nil, err
	}
	if _, ok := s.Users[req.Email]; ok {
		return nil, fmt.Errorf("email already in use")
	}
	s.Users[req.Email] = req.Password
	id := uuid.New()
	s.Profiles = append(s.Profiles, models.Profile{ID: id, Email: req.Email, FullName: req.Metadata.Name, Role: "user", CreatedAt: time.Now().UTC()})

	res := &types.SignupResponse{}
	res.User.ID = id
	res.User.Email = req.Email
	return res, nil
}

func (s *Store) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AuthenticateUser"); err != nil {
		return nil, err
	}
	if pw, ok := s.Users[email]; !ok || pw != password {
		return nil, fmt.Errorf("invalid login credentials")
	}
	return tokenFor(email), nil
}

func (s *Store) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("RefreshToken"); err != nil {
		return nil, err
	}
	subject, ok := strings.CutPrefix(refreshToken, "refresh-")
	if !ok {
		return nil, fmt.Errorf("invalid refresh token")
	}
	return tokenFor(strings.Replace(subject, ".at.", "@", 1)), nil
}

func (s *Store) AuthorizeURL(ctx context.Context, provider, redirectTo string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AuthorizeURL"); err != nil {
		return "", "", err
	}
	return "https://auth.test/authorize?provider=" + provider, "verifier-" + provider, nil
}

func (s *Store) ExchangeCode(ctx context.Context, code, verifier string) (*types.TokenResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ExchangeCode"); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(verifier, "verifier-") {
		return nil, fmt.Errorf("code challenge does not match")
	}
	return tokenFor(code + "@oauth.test"), nil
}

func (s *Store) Logout(ctx context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enter("Logout")
}

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetProfile"); err != nil {
		return nil, err
	}
	for _, p := range s.Profiles {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListProfiles"); err != nil {
		return nil, err
	}
	return append([]models.Profile{}, s.Profiles...), nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enter("EnsureIndexes")
}

func (s *Store) TrackTripView(ctx context.Context, view *models.TripView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("TrackTripView"); err != nil {
		return err
	}
	for _, v := range s.Views {
		if v.TripID == view.TripID && v.SessionID == view.SessionID {
			return nil
		}
	}
	view.ViewedAt = time.Now()
	s.Views = append(s.Views, *view)
	return nil
}

func (s *Store) GetTripViewStats(ctx context.Context, tripID int64) (*models.TripViewStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetTripViewStats"); err != nil {
		return nil, err
	}
	stats := &models.TripViewStats{TripID: tripID}
	sessions := map[string]bool{}
	for _, v := range s.Views {
		if v.TripID == tripID {
			stats.TotalViews++
			sessions[v.SessionID] = true
		}
	}
	stats.UniqueViews = int64(len(sessions))
	stats.ViewsToday = stats.TotalViews
	stats.ViewsThisWeek = stats.TotalViews
	return stats, nil
}

func (s *Store) CountViewsByTrip(ctx context.Context) (map[int64]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountViewsByTrip"); err != nil {
		return nil, err
	}
	out := map[int64]int64{}
	for _, v := range s.Views {
		out[v.TripID]++
	}
	return out, nil
}

func (s *Store) SaveTrip(ctx context.Context, userID uuid.UUID, trip models.Trip) (*models.SavedTrips, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SaveTrip"); err != nil {
		return nil, err
	}
	doc, ok := s.Saved[userID]
	if !ok {
		doc = &models.SavedTrips{UserID: userID.String(), Items: map[string]models.SavedTrip{}, CreatedAt: time.Now()}
		s.Saved[userID] = doc
	}
	doc.Items[strconv.FormatInt(trip.ID, 10)] = models.SavedTrip{TripID: trip.ID, Title: trip.Title, AddedAt: time.Now()}
	doc.UpdatedAt = time.Now()
	copied := *doc
	return &copied, nil
}

func (s *Store) UnsaveTrip(ctx context.Context, userID uuid.UUID, tripID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UnsaveTrip"); err != nil {
		return err
	}
	if doc, ok := s.Saved[userID]; ok {
		delete(doc.Items, strconv.FormatInt(tripID, 10))
	}
	return nil
}

func (s *Store) GetSavedTrips(ctx context.Context, userID uuid.UUID) (*models.SavedTrips, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetSavedTrips"); err != nil {
		return nil, err
	}
	doc, ok := s.Saved[userID]
	if !ok {
		return &models.SavedTrips{UserID: userID.String(), Items: map[string]models.SavedTrip{}}, nil
	}
	copied := *doc
	return &copied, nil
}

// tokenFor issues opaque tokens that survive cookie escaping unchanged, so
// "ama@example.com" gets "access-ama.at.example.com".
func tokenFor(email string) *types.TokenResponse {
	subject := strings.Replace(email, "@", ".at.", 1)
	res := &types.TokenResponse{}
	res.AccessToken = "access-" + subject
	res.RefreshToken = "refresh-" + subject
	res.ExpiresIn = 3600
	res.User.Email = email
	return res
}
