package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogRouter(t *testing.T, vendor http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewLogHandler(newVendorClient(t, vendor))

	router := gin.New()
	router.GET("/api/logs", h.List)
	router.GET("/api/logs/archived", h.Archived)
	return router
}

func TestLogsDefaultToLastSevenDays(t *testing.T) {
	var gotQuery url.Values
	router := newLogRouter(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"logs": [], "count": 0}`))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	start, err := time.Parse(time.RFC3339, gotQuery.Get("start_date"))
	require.NoError(t, err)
	end, err := time.Parse(time.RFC3339, gotQuery.Get("end_date"))
	require.NoError(t, err)
	assert.InDelta(t, 7*24*time.Hour, end.Sub(start), float64(time.Minute))
}

func TestLogsRejectInvalidDates(t *testing.T) {
	router := newLogRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("vendor must not be called")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs?start_date=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogsRejectInvertedWindow(t *testing.T) {
	router := newLogRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("vendor must not be called")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs?start_date=2026-08-10&end_date=2026-08-01", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "end_date must be after start_date")
}

func TestLogsAcceptBareDates(t *testing.T) {
	router := newLogRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"logs": [], "count": 0}`))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs?start_date=2026-08-01&end_date=2026-08-08", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestArchivedRequiresWindow(t *testing.T) {
	router := newLogRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("vendor must not be called")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs/archived", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArchivedForwardsDownloadURLs(t *testing.T) {
	router := newLogRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organization-management/v1/user-action-logs/archived-download-urls", r.URL.Path)
		assert.Equal(t, "600", r.URL.Query().Get("expires_in"))
		w.Write([]byte(`{"download_urls": ["https://archive.example/1.csv"], "count": 1}`))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs/archived?start_date=2026-01-01&end_date=2026-02-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "archive.example")
}
