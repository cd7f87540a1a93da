package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crowdfix/internal/dbs"
	"crowdfix/internal/repositories"
	"crowdfix/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := dbs.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repositories.Migrate(db))

	if opts.JWTSecret == "" {
		opts.JWTSecret = "test-secret"
	}
	srv := httptest.NewServer(NewRouter(db, opts))
	t.Cleanup(srv.Close)
	return srv
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (a *apiClient) call(method, path string, body interface{}) (int, []byte) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.base+path, r)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, raw
}

func signUp(t *testing.T, srv *httptest.Server, username string) *apiClient {
	t.Helper()
	a := &apiClient{t: t, base: srv.URL + "/api"}
	status, _ := a.call(http.MethodPost, "/auth/register", map[string]string{
		"username": username, "email": username + "@example.com", "password": "password123",
		"securityQuestion": "pet?", "securityAnswer": "rex",
	})
	require.Equal(t, http.StatusCreated, status)

	status, raw := a.call(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	var tok struct{ Token string }
	require.NoError(t, json.Unmarshal(raw, &tok))
	a.token = tok.Token
	return a
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, Options{})
	anon := &apiClient{t: t, base: srv.URL + "/api"}

	status, _ := anon.call(http.MethodGet, "/problems", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	anon.token = "forged"
	status, _ = anon.call(http.MethodGet, "/problems", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t, Options{})
	signUp(t, srv, "alice")
	anon := &apiClient{t: t, base: srv.URL + "/api"}

	status, _ := anon.call(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegister_Duplicate(t *testing.T) {
	srv := newTestServer(t, Options{})
	signUp(t, srv, "alice")
	anon := &apiClient{t: t, base: srv.URL + "/api"}

	status, _ := anon.call(http.MethodPost, "/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestProblemOwnership(t *testing.T) {
	srv := newTestServer(t, Options{})
	alice := signUp(t, srv, "alice")
	bob := signUp(t, srv, "bob")

	status, raw := alice.call(http.MethodPost, "/problems", map[string]string{"title": "Leaky faucet", "description": "drips at night"})
	require.Equal(t, http.StatusCreated, status)
	var p struct {
		ID   int64
		User struct{ Username string }
	}
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "alice", p.User.Username)

	path := "/problems/" + jsonID(p.ID)
	status, _ = bob.call(http.MethodPut, path, map[string]string{"title": "mine now", "description": "x"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = bob.call(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = alice.call(http.MethodPut, path, map[string]string{"title": "", "description": "x"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = alice.call(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = alice.call(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestVote_RejectsUnknownType(t *testing.T) {
	srv := newTestServer(t, Options{})
	alice := signUp(t, srv, "alice")

	status, _ := alice.call(http.MethodPost, "/votes/solution/1?voteType=SIDEWAYS", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = alice.call(http.MethodPost, "/votes/solution/1?voteType=UPVOTE", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestForgotPassword(t *testing.T) {
	srv := newTestServer(t, Options{})
	signUp(t, srv, "alice")
	anon := &apiClient{t: t, base: srv.URL + "/api"}

	req := map[string]string{"email": "alice@example.com", "securityQuestion": "pet?", "securityAnswer": "max", "newPassword": "newpassword1"}
	status, _ := anon.call(http.MethodPost, "/auth/forgot-password", req)
	assert.Equal(t, http.StatusBadRequest, status)

	req["securityAnswer"] = "Rex"
	status, _ = anon.call(http.MethodPost, "/auth/forgot-password", req)
	require.Equal(t, http.StatusOK, status)

	status, _ = anon.call(http.MethodPost, "/auth/login", map[string]string{"username": "alice", "password": "newpassword1"})
	assert.Equal(t, http.StatusOK, status)
}

func TestProblemListCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := services.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "api:")
	srv := newTestServer(t, Options{Cache: cache})
	alice := signUp(t, srv, "alice")

	status, raw := alice.call(http.MethodGet, "/problems", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))
	assert.True(t, mr.Exists("api:problems:list"))

	status, _ = alice.call(http.MethodPost, "/problems", map[string]string{"title": "t", "description": "d"})
	require.Equal(t, http.StatusCreated, status)
	assert.False(t, mr.Exists("api:problems:list"), "writes invalidate the listing")

	_, raw = alice.call(http.MethodGet, "/problems", nil)
	assert.Contains(t, string(raw), `"title":"t"`)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, Options{Registry: reg})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `crowdfix_api_requests_total{method="GET",route="/health",status="200"} 1`))
}

func jsonID(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
