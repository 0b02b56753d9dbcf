package integration

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vagondeck/internal/config"
	"vagondeck/internal/server"
	"vagondeck/internal/vagon"
)

func testConfig() config.Config {
	return config.Config{
		Environment:   "test",
		HTTPPort:      "0",
		WebDir:        "../web",
		SessionSecret: "integration-secret",
	}
}

func newDashboard(t *testing.T, cfg config.Config, vendor http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(vendor)
	t.Cleanup(srv.Close)

	client := vagon.NewClient("k", "s", srv.URL)
	return server.New(client, cfg).Engine
}

func TestDashboardRendersMachineList(t *testing.T) {
	router := newDashboard(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/organization-management/v1/machines", r.URL.Path)
		w.Write([]byte(`{"machines": [
			{"id": 1, "type": "organization_machine", "attributes": {
				"name": "render-node", "status": "running", "time_left": 90
			}}
		], "count": 1, "next_page": null}`))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "render-node")
	assert.Contains(t, body, "running")
	assert.Contains(t, body, "1 hour 30 minutes")
}

func TestDashboardRendersVendorErrorPage(t *testing.T) {
	router := newDashboard(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message": "Maintenance window", "client_code": 503}`))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Maintenance window")
}

func TestAPIForwardsVendorError(t *testing.T) {
	router := newDashboard(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message": "Insufficient balance", "client_code": 480}`))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/machines/5/start", nil))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), `"client_code":480`)
}

func TestLoginWall(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.PasswordHash = string(hash)

	router := newDashboard(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"machines": [], "count": 0}`))
	})

	// anonymous page hit redirects to the login form
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// anonymous API hit gets a JSON 401
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/machines", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// wrong password re-renders the form with an error
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(url.Values{"password": {"wrong"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid password")

	// correct password sets the session cookie
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(url.Values{"password": {"hunter2"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "deck_session" {
			session = c
		}
	}
	require.NotNil(t, session, "login must set the session cookie")

	// the cookie unlocks both pages and API
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(session)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// logout clears the session
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(session)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestMetricsCountRequests(t *testing.T) {
	router := newDashboard(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"machines": [], "count": 0}`))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/machines", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vagondeck_http_requests_total")
	assert.Contains(t, w.Body.String(), "vagondeck_vendor_requests_total")
}
