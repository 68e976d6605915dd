package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joshua-takyi/tripdesk/internal/container"
	"github.com/joshua-takyi/tripdesk/internal/helpers"
	"github.com/joshua-takyi/tripdesk/internal/models"
	"github.com/joshua-takyi/tripdesk/internal/models/modelstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

type stubValidator map[string]*helpers.CustomClaims

func (v stubValidator) ValidateToken(token string) (*helpers.CustomClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, helpers.ErrInvalidToken
}

type testServer struct {
	router *gin.Engine
	store  *modelstest.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adminID, userID := uuid.New(), uuid.New()
	store := modelstest.NewStore()
	store.Profiles = []models.Profile{
		{ID: adminID, Email: "admin@tripdesk.io", Role: "admin"},
		{ID: userID, Email: "ama@example.com", Role: "user", FullName: "Ama"},
	}
	validator := stubValidator{
		adminToken: {Email: "admin@tripdesk.io", RegisteredClaims: jwt.RegisteredClaims{Subject: adminID.String()}},
		userToken:  {Email: "ama@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}},
	}

	c := container.NewWithRepos(slog.New(slog.NewTextHandler(io.Discard, nil)), container.Repos{
		Trips:       store,
		Images:      store,
		Enrollments: store,
		Reviews:     store,
		Users:       store,
		Views:       store,
		Saved:       store,
	}, validator, container.Options{
		FrontendURL:    "http://localhost:3000",
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return &testServer{router: SetupRoutes(c), store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func goaBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Goa Getaway",
		"start_date":  "2025-01-10",
		"return_date": "2025-01-15",
		"price":       12000,
		"seats":       20,
		"image":       []string{},
		"duration":    "5",
		"status":      "open",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTripLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/trips", adminToken, goaBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created []models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created, 1)
	id := created[0].ID
	assert.NotZero(t, id)
	path := "/api/trips/" + strconv.FormatInt(id, 10)

	w = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Goa Getaway", got.Title)
	assert.Equal(t, "2025-01-10", got.StartDate)
	assert.Equal(t, "2025-01-15", got.ReturnDate)
	assert.Equal(t, 12000.0, got.Price)
	assert.Equal(t, 20, got.Seats)
	assert.Equal(t, "5", got.Duration)
	assert.Equal(t, "open", got.Status)

	w = s.do(t, http.MethodDelete, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Trip deleted successfully"}`, w.Body.String())

	w = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var errBody models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, modelstest.ErrNoRows.Error(), errBody.Error)

	w = s.do(t, http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListAndUpdateTrips(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/trips", adminToken, goaBody()).Code)
	}

	w := s.do(t, http.MethodPut, "/api/trips/2", adminToken, map[string]interface{}{"price": 9000})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/trips", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trips []models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trips))
	require.Len(t, trips, 2)
	assert.Equal(t, 12000.0, trips[0].Price)
	assert.Equal(t, 9000.0, trips[1].Price)

	w = s.do(t, http.MethodPut, "/api/trips/99", adminToken, map[string]interface{}{"price": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateTripValidation(t *testing.T) {
	s := newTestServer(t)
	body := goaBody()
	body["return_date"] = "2025-01-01"

	w := s.do(t, http.MethodPost, "/api/trips", adminToken, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.store.Trips)
}

func TestTripMutationsNeedAdmin(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/trips", "", goaBody()).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/trips", userToken, goaBody()).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/user/manage/get-trips", userToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/admin/stats", userToken, nil).Code)
}

func TestStoreErrorIsRelayed(t *testing.T) {
	s := newTestServer(t)
	s.store.Fail("ListTrips", assert.AnError)

	w := s.do(t, http.MethodGet, "/api/trips", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"`+assert.AnError.Error()+`"}`, w.Body.String())
}

func enrollmentBody() map[string]interface{} {
	return map[string]interface{}{
		"trip_id":   1,
		"trip_name": "Goa Getaway",
		"email":     "ama@example.com",
		"price":     12000,
		"counter":   map[string]interface{}{"count": 2, "confirmed": false, "paid": 0, "balance": 12000, "refund": false},
	}
}

func TestSaveUserTripOnce(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/trips/manage/save-user-trip", "", enrollmentBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Trip saved successfully"}`, w.Body.String())

	second := enrollmentBody()
	second["counter"] = map[string]interface{}{"count": 9}
	w = s.do(t, http.MethodPost, "/api/trips/manage/save-user-trip", "", second)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")

	require.Len(t, s.store.Enrollments, 1)
	assert.Equal(t, 2, s.store.Enrollments[0].Counter.Count)
}

func TestSaveUserTripMissingField(t *testing.T) {
	s := newTestServer(t)
	body := enrollmentBody()
	delete(body, "email")

	w := s.do(t, http.MethodPost, "/api/trips/manage/save-user-trip", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"missing required field"}`, w.Body.String())
}

func TestManageUsers(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/trips/manage/save-user-trip", "", enrollmentBody()).Code)

	w := s.do(t, http.MethodGet, "/api/user/manage/get-trips", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var grouped struct {
		Trips []struct {
			TripName string              `json:"trip_name"`
			Users    []models.Enrollment `json:"users"`
		} `json:"trips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grouped))
	require.Len(t, grouped.Trips, 1)
	assert.Equal(t, "Goa Getaway", grouped.Trips[0].TripName)
	require.Len(t, grouped.Trips[0].Users, 1)
	id := grouped.Trips[0].Users[0].ID

	update := enrollmentBody()
	update["counter"] = map[string]interface{}{"count": 2, "confirmed": true, "paid": 12000, "balance": 0}
	w = s.do(t, http.MethodPut, "/api/user/manage/update-user", adminToken, update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.store.Enrollments[0].Counter.Confirmed)

	w = s.do(t, http.MethodDelete, "/api/user/manage/delete-user", adminToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/user/manage/delete-user", adminToken, map[string]interface{}{"id": id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.store.Enrollments)
}

func TestReviews(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/reviews", "", map[string]interface{}{"rating": 5}).Code)

	w := s.do(t, http.MethodPost, "/api/reviews", userToken, map[string]interface{}{"rating": 4, "review": "Lovely"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(t, http.MethodPost, "/api/reviews", userToken, map[string]interface{}{"rating": 5, "review": "Even better"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/reviews", "", nil)
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Ama", reviews[0].Name)

	w = s.do(t, http.MethodPost, "/api/reviews", userToken, map[string]interface{}{"rating": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionAndStats(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/auth/session", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ama@example.com")

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/trips", adminToken, goaBody()).Code)
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/trips/1/view", "", nil).Code)

	w = s.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalTrips int              `json:"total_trips"`
		Views      map[string]int64 `json:"views"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalTrips)
	assert.Equal(t, int64(1), stats.Views["1"])
}

func TestSavedTrips(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/trips", adminToken, goaBody()).Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/saved-trips/1", userToken, nil).Code)
	w := s.do(t, http.MethodGet, "/api/saved-trips", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Goa Getaway")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/saved-trips/1", userToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/saved-trips", "", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/trips", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
