// AngelaMos | 2026
// handler_test.go

package cron

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarker struct {
	updated int
	calls   int
}

func (f *fakeMarker) MarkLate(ctx context.Context) (int, error) {
	f.calls++
	return f.updated, nil
}

func newTestRouter(secret string, marker LateMarker) chi.Router {
	r := chi.NewRouter()
	NewHandler(secret, marker).RegisterRoutes(r)
	return r
}

func TestUpdateTenantStatusRequiresSecret(t *testing.T) {
	marker := &fakeMarker{}
	router := newTestRouter("topsecret", marker)

	req := httptest.NewRequest(http.MethodPost, "/internal/cron/update-tenant-status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, marker.calls)

	req = httptest.NewRequest(http.MethodPost, "/internal/cron/update-tenant-status", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, marker.calls)
}

func TestUpdateTenantStatusReportsCount(t *testing.T) {
	marker := &fakeMarker{updated: 3}
	router := newTestRouter("topsecret", marker)

	req := httptest.NewRequest(http.MethodPost, "/internal/cron/update-tenant-status", nil)
	req.Header.Set("X-Cron-Secret", "topsecret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, marker.calls)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Updated int `json:"updated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Data.Updated)
}

func TestUpdateTenantStatusIdempotentRepeatCalls(t *testing.T) {
	marker := &fakeMarker{updated: 0}
	router := newTestRouter("topsecret", marker)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/internal/cron/update-tenant-status", nil)
		req.Header.Set("X-Cron-Secret", "topsecret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 3, marker.calls)
}
