package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"crowdfix/internal/dbs"
	"crowdfix/internal/errs"
	"crowdfix/internal/models"
	"crowdfix/internal/repositories"
	"crowdfix/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBackend(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := dbs.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repositories.Migrate(db))

	srv := httptest.NewServer(server.NewRouter(db, server.Options{JWTSecret: "cli-secret"}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// useProfile points the CLI at a backend and a local state directory.
func useProfile(t *testing.T, apiURL, dir string) {
	t.Setenv("API_BASE_URL", apiURL)
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_PATH", dir)
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputJSON, password, email, question, answer, newPassword = false, "", "", "", "", ""
	role, title, description, solutionID = "USER", "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, out)
	return out
}

func signUp(t *testing.T, username string) {
	t.Helper()
	mustExecute(t, "register", username, "--email", username+"@example.com", "--password", "password123",
		"--question", "pet?", "--answer", "rex")
	mustExecute(t, "login", username, "--password", "password123")
}

func TestCLI_ProblemLifecycle(t *testing.T) {
	api := startBackend(t)
	useProfile(t, api, t.TempDir())
	signUp(t, "alice")

	out := mustExecute(t, "whoami")
	assert.Contains(t, out, "alice")

	out = mustExecute(t, "problems", "create", "--title", "Leaky faucet", "--description", "drips at night")
	assert.Contains(t, out, "Your problem was successfully posted!")

	out = mustExecute(t, "problems", "list", "--json")
	var problems []models.Problem
	require.NoError(t, json.Unmarshal([]byte(out), &problems))
	require.Len(t, problems, 1)
	assert.Equal(t, "alice", problems[0].OwnerUsername)
	problemID := problems[0].ID

	out = mustExecute(t, "solutions", "create", problemID, "--description", "use a washer", "--json")
	var sol models.Solution
	require.NoError(t, json.Unmarshal([]byte(out), &sol))
	assert.Equal(t, models.StatusPending, sol.Status)

	out = mustExecute(t, "vote", sol.ID, "up")
	assert.Contains(t, out, "1 up, 0 down")
	out = mustExecute(t, "vote", sol.ID, "up")
	assert.Contains(t, out, "0 up, 0 down", "repeating a vote retracts it")

	out = mustExecute(t, "solutions", "status", sol.ID, "accepted")
	assert.Contains(t, out, "ACCEPTED")

	mustExecute(t, "comments", "add", sol.ID, "nice fix")
	out = mustExecute(t, "comments", "list", sol.ID)
	assert.Contains(t, out, "nice fix")

	out = mustExecute(t, "notifications", "--json")
	var notes []models.Notification
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	var messages []string
	for _, n := range notes {
		messages = append(messages, n.Message)
	}
	assert.Contains(t, messages, "Your problem was successfully posted!")
	assert.Contains(t, messages, "Solution "+sol.ID+" marked as ACCEPTED")

	mustExecute(t, "problems", "delete", problemID)
	out = mustExecute(t, "problems", "list")
	assert.NotContains(t, out, "Leaky faucet")

	mustExecute(t, "logout")
	out = mustExecute(t, "whoami")
	assert.Contains(t, out, "Not signed in")
}

func TestCLI_CannotEditOthersProblem(t *testing.T) {
	api := startBackend(t)

	useProfile(t, api, t.TempDir())
	signUp(t, "alice")
	mustExecute(t, "problems", "create", "--title", "Squeaky door", "--description", "hinge")

	useProfile(t, api, t.TempDir())
	signUp(t, "bobby")

	_, err := execute(t, "problems", "delete", "1")
	assert.ErrorIs(t, err, errs.ErrAuthorization)

	_, err = execute(t, "problems", "update", "1", "--title", "mine", "--description", "now")
	assert.ErrorIs(t, err, errs.ErrAuthorization)
}

func TestCLI_SignedOutCreateFails(t *testing.T) {
	useProfile(t, startBackend(t), t.TempDir())

	_, err := execute(t, "problems", "create", "--title", "t", "--description", "d")
	assert.ErrorIs(t, err, errs.ErrAuthorization)
}

func TestCLI_DarkModeSurvivesLogout(t *testing.T) {
	useProfile(t, startBackend(t), t.TempDir())
	signUp(t, "carol")

	out := mustExecute(t, "dark-mode")
	assert.Contains(t, out, "Dark mode on")
	mustExecute(t, "logout")

	out = mustExecute(t, "whoami")
	assert.Contains(t, out, "dark mode: true")
}

func TestCLI_MarkNotificationRead(t *testing.T) {
	useProfile(t, startBackend(t), t.TempDir())

	out := mustExecute(t, "notifications")
	assert.Contains(t, out, "2 unread")

	mustExecute(t, "notifications", "read", "1")
	out = mustExecute(t, "notifications")
	assert.Contains(t, out, "1 unread")

	_, err := execute(t, "notifications", "read", "abc")
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = execute(t, "notifications", "read", "99")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
