package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Atticdm/GloCalAI/internal/api"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakePublisher struct {
	mu       sync.Mutex
	routedTo []string
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routedTo = append(f.routedTo, routingKey)
	return nil
}

func newTestRouter(t *testing.T) (*httptest.Server, *fakePublisher) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background(), db))

	fp := &fakePublisher{}
	jobHandler := &api.JobHandler{
		Jobs:     store.NewJobRepo(db),
		Variants: store.NewVariantRepo(db),
		DB:       db,
		Bus:      fp,
		Log:      logger.NewNop(),
	}
	router := api.NewRouter(api.RouterConfig{Jobs: jobHandler})
	return httptest.NewServer(router), fp
}

func TestCreateJobRejectsEmptyLanguages(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	body, _ := json.Marshal(map[string]any{
		"project_id":      "11111111-1111-1111-1111-111111111111",
		"source_asset_id": "22222222-2222-2222-2222-222222222222",
		"languages":       []string{},
	})
	resp, err := http.Post(srv.URL+"/jobs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateJobRejectsDuplicateLanguages(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	body, _ := json.Marshal(map[string]any{
		"project_id":      "11111111-1111-1111-1111-111111111111",
		"source_asset_id": "22222222-2222-2222-2222-222222222222",
		"languages":       []string{"de", "de"},
	})
	resp, err := http.Post(srv.URL+"/jobs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateJobPublishesJobCreated(t *testing.T) {
	srv, fp := newTestRouter(t)
	defer srv.Close()

	body, _ := json.Marshal(map[string]any{
		"project_id":      "11111111-1111-1111-1111-111111111111",
		"source_asset_id": "22222222-2222-2222-2222-222222222222",
		"languages":       []string{"de", "fr"},
		"options":         map[string]any{"dub": true, "subs": true},
	})
	resp, err := http.Post(srv.URL+"/jobs", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.JobResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Len(t, created.Variants, 2)

	require.Equal(t, []string{"job.created"}, fp.routedTo)
}

func TestGetJobNotFound(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/jobs/11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
