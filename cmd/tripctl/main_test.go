package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	puts  []map[string]any
	fail  string
}

func (f *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.fail != "" && r.Method != http.MethodGet {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": f.fail})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/trips":
		_, _ = w.Write([]byte(`[{"id":1,"title":"Cape Coast","start_date":"2025-03-01","return_date":"2025-03-03","price":250,"seats":20}]`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/admin/stats":
		_, _ = w.Write([]byte(`{"total_trips":1}`))
	case r.Method == http.MethodPost:
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":9,"title":"Volta"}]`))
	case r.Method == http.MethodPut:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.puts = append(f.puts, body)
		f.mu.Unlock()
		body["id"] = 1
		_ = json.NewEncoder(w).Encode([]map[string]any{body})
	default:
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}
}

func setup(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRIPCTL_URL", "")
	t.Setenv("TRIPCTL_TOKEN", "")
	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)
	return api, srv.URL
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func TestList(t *testing.T) {
	api, url := setup(t)

	out, err := runCLI(t, "", "--url", url, "--token", "admin-token", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Cape Coast")
	assert.Contains(t, out, "250.00")
	assert.Equal(t, []string{"GET /api/trips"}, api.calls)
}

func TestUsage(t *testing.T) {
	_, url := setup(t)

	_, err := runCLI(t, "", "--url", url)
	assert.ErrorIs(t, err, errUsage)

	_, err = runCLI(t, "", "--url", url, "launch")
	assert.ErrorIs(t, err, errUsage)
}

func TestAdd(t *testing.T) {
	api, url := setup(t)

	out, err := runCLI(t, "", "--url", url, "add",
		"--title", "Volta", "--start", "2025-05-01", "--return", "2025-05-02", "--plan", "boat", "--plan", "lunch")
	require.NoError(t, err)
	assert.Contains(t, out, "created trip 9")
	assert.Equal(t, []string{"POST /api/trips"}, api.calls)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	api, url := setup(t)

	_, err := runCLI(t, "", "--url", url, "add", "--title", "Volta", "--start", "2025-05-03", "--return", "2025-05-01")
	assert.Error(t, err)
	assert.Empty(t, api.calls)
}

func TestEditKeepsUnsetFields(t *testing.T) {
	api, url := setup(t)

	out, err := runCLI(t, "", "--url", url, "edit", "1", "--status", "sold out")
	require.NoError(t, err)
	assert.Contains(t, out, "updated trip 1")

	require.Len(t, api.puts, 1)
	assert.Equal(t, "sold out", api.puts[0]["status"])
	assert.Equal(t, "Cape Coast", api.puts[0]["title"])
	assert.Equal(t, float64(20), api.puts[0]["seats"])
}

func TestEditUnknownTrip(t *testing.T) {
	_, url := setup(t)

	_, err := runCLI(t, "", "--url", url, "edit", "99", "--title", "x")
	assert.ErrorContains(t, err, "trip 99 not found")
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	api, url := setup(t)

	out, err := runCLI(t, "n\n", "--url", url, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")
	assert.Empty(t, api.calls)

	out, err = runCLI(t, "y\n", "--url", url, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted trip 1")
	assert.Equal(t, []string{"DELETE /api/trips/1/images", "DELETE /api/trips/1"}, api.calls)
}

func TestDeleteReportsRemoteError(t *testing.T) {
	api, url := setup(t)
	api.fail = "storage unavailable"

	_, err := runCLI(t, "", "--url", url, "delete", "--yes", "1")
	assert.EqualError(t, err, "storage unavailable")
	assert.Equal(t, []string{"DELETE /api/trips/1/images"}, api.calls)
}

func TestSettingsFromConfigFile(t *testing.T) {
	api, url := setup(t)
	cfg := filepath.Join(t.TempDir(), "tripctl.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("url: "+url+"\ntoken: from-file\n"), 0o600))

	out, err := runCLI(t, "", "--config", cfg, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_trips": 1`)
	assert.Equal(t, []string{"GET /api/admin/stats"}, api.calls)
}

func TestSettingsFromEnv(t *testing.T) {
	api, url := setup(t)
	t.Setenv("TRIPCTL_URL", url)

	_, err := runCLI(t, "", "list")
	require.NoError(t, err)
	assert.Len(t, api.calls, 1)
}
