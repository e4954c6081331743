package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurukulschool/portal/internal/cli/auth"
	"github.com/gurukulschool/portal/internal/cli/client"
	"github.com/gurukulschool/portal/internal/cli/config"
	"github.com/gurukulschool/portal/internal/cli/guard"
	serverconfig "github.com/gurukulschool/portal/internal/config"
	"github.com/gurukulschool/portal/internal/database"
	"github.com/gurukulschool/portal/internal/seed"
	"github.com/gurukulschool/portal/internal/server"
)

const (
	adminEmail    = "admin@gurukulschool.net"
	adminPassword = "admin123"
)

// testEnv is a running backend plus the options pointing commands at it
type testEnv struct {
	server *config.Server
	store  *auth.MemoryStore
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "portal.sqlite"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = seed.Run(db, adminEmail, adminPassword, zerolog.Nop())
	require.NoError(t, err)

	cfg := &serverconfig.Config{Auth: serverconfig.AuthConfig{JWTSecret: "cli-secret", JWTExpiry: time.Hour}}
	srv := httptest.NewServer(server.NewWithDB(cfg, db, zerolog.Nop(), "test").Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		server: &config.Server{URL: srv.URL, Alias: "test"},
		store:  auth.NewMemoryStore(),
		out:    &bytes.Buffer{},
	}
}

func (e *testEnv) opts() []Option {
	return []Option{WithServer(e.server), WithTokenStore(e.store), WithOutput(e.out)}
}

func (e *testEnv) register(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, runRegister(context.Background(), registerParams{
		Email: email, Name: "Asha", Phone: "9999999999", Password: "p1",
	}, e.opts()...))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")
	require.NoError(t, runLogout(env.opts()...))
	env.out.Reset()

	err := runLogin(context.Background(), "asha@example.com", "p1", false, env.opts()...)
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Login successful")
	assert.Contains(t, env.out.String(), "asha@example.com")

	token, err := env.store.LoadToken(env.server.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")
	require.NoError(t, runLogout(env.opts()...))

	err := runLogin(context.Background(), "asha@example.com", "wrong", false, env.opts()...)
	require.Error(t, err)
	assert.Equal(t, "login failed: Incorrect email or password", err.Error())

	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)

	_, err = env.store.LoadToken(env.server.URL)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestLoginRequiresEmail(t *testing.T) {
	t.Setenv("PORTAL_EMAIL", "")
	env := newTestEnv(t)

	err := runLogin(context.Background(), "", "p1", false, env.opts()...)
	assert.ErrorContains(t, err, "email is required")
}

func TestLoginFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("PORTAL_EMAIL", adminEmail)
	t.Setenv("PORTAL_PASSWORD", adminPassword)

	require.NoError(t, runLogin(context.Background(), "", "", true, env.opts()...))
	assert.Contains(t, env.out.String(), "Role: Admin")
}

func TestAdminLoginRejectsUserAccount(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")
	require.NoError(t, runLogout(env.opts()...))

	err := runLogin(context.Background(), "asha@example.com", "p1", true, env.opts()...)
	require.Error(t, err)
	assert.Equal(t, "login failed: Invalid admin credentials", err.Error())

	// Still signed out, so admin commands send the user to login
	err = runAdminStats(context.Background(), env.opts()...)
	assert.ErrorIs(t, err, guard.ErrNotAuthenticated)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	env := newTestEnv(t)

	err := runRegister(context.Background(), registerParams{
		Email: "asha@example.com", Name: "Asha", Phone: "1", Password: "p1", ConfirmPassword: "p2",
	}, env.opts()...)
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Contains(t, err.Error(), "passwords do not match")

	_, err = env.store.LoadToken(env.server.URL)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	err := runRegister(context.Background(), registerParams{
		Email: "asha@example.com", Name: "Asha", Phone: "1", Password: "p1",
	}, env.opts()...)
	require.Error(t, err)
	assert.Equal(t, "registration failed: Email already registered", err.Error())
}

func TestWhoamiAndDashboard(t *testing.T) {
	env := newTestEnv(t)

	err := runWhoami(context.Background(), env.opts()...)
	assert.ErrorIs(t, err, guard.ErrNotAuthenticated)

	env.register(t, "asha@example.com")
	env.out.Reset()

	require.NoError(t, runWhoami(context.Background(), env.opts()...))
	assert.Contains(t, env.out.String(), "asha@example.com")
	assert.Contains(t, env.out.String(), "Role:   user")

	env.out.Reset()
	require.NoError(t, runDashboard(context.Background(), env.opts()...))
	assert.Contains(t, env.out.String(), "Welcome, Asha!")
	assert.Contains(t, env.out.String(), "TITLE")
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")
	env.out.Reset()

	require.NoError(t, runProfile(context.Background(), client.ProfileUpdate{Phone: "12345"}, env.opts()...))
	assert.Contains(t, env.out.String(), "Phone:  12345")
	assert.Contains(t, env.out.String(), "Name:   Asha")

	assert.Error(t, runProfile(context.Background(), client.ProfileUpdate{}, env.opts()...))
}

func TestInvalidStoredTokenIsPurged(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.SaveToken(env.server.URL, "stale-token"))

	err := runWhoami(context.Background(), env.opts()...)
	assert.ErrorIs(t, err, guard.ErrNotAuthenticated)

	_, err = env.store.LoadToken(env.server.URL)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	require.NoError(t, runLogout(env.opts()...))
	assert.Contains(t, env.out.String(), "Logged out")

	err := runWhoami(context.Background(), env.opts()...)
	assert.ErrorIs(t, err, guard.ErrNotAuthenticated)
}

func TestAdminCommandsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "asha@example.com")

	ctx := context.Background()
	checks := map[string]error{
		"stats":      runAdminStats(ctx, env.opts()...),
		"users":      runAdminListUsers(ctx, env.opts()...),
		"admissions": runAdminListAdmissions(ctx, env.opts()...),
		"contacts":   runAdminListContacts(ctx, env.opts()...),
		"announce":   runAdminCreateAnnouncement(ctx, client.AnnouncementRequest{Title: "x", Content: "y"}, env.opts()...),
	}
	for name, err := range checks {
		assert.ErrorIs(t, err, guard.ErrAdminRequired, name)
	}
}

func TestAdminWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, runApply(ctx, client.AdmissionRequest{
		StudentName: "Meera", ParentName: "Ravi", Email: "ravi@example.com", Phone: "1",
		Grade: "5", DOB: "2015-01-01", Address: "Street 1",
	}, env.opts()...))
	assert.Contains(t, env.out.String(), "Status:    pending")

	require.NoError(t, runContact(ctx, client.ContactRequest{
		Name: "Ravi", Email: "ravi@example.com", Phone: "1", Subject: "Fees", Message: "Hello",
	}, env.opts()...))

	require.NoError(t, runLogin(ctx, adminEmail, adminPassword, true, env.opts()...))

	env.out.Reset()
	require.NoError(t, runAdminStats(ctx, env.opts()...))
	assert.Contains(t, env.out.String(), "Pending applications")
	assert.Contains(t, env.out.String(), "35:1")

	env.out.Reset()
	require.NoError(t, runAdminListContacts(ctx, env.opts()...))
	assert.Contains(t, env.out.String(), "Fees")

	// Find the admission through the API to drive the status change
	api := client.New(env.server.URL)
	admissions, err := api.ListAdmissions(ctx, env.bearer(t))
	require.NoError(t, err)
	require.Len(t, admissions, 1)
	id := admissions[0].ID

	err = runAdminSetAdmissionStatus(ctx, id, "enrolled", env.opts()...)
	assert.ErrorIs(t, err, client.ErrValidation)

	env.out.Reset()
	require.NoError(t, runAdminSetAdmissionStatus(ctx, id, client.StatusApproved, env.opts()...))
	assert.Contains(t, env.out.String(), "approved")

	env.out.Reset()
	require.NoError(t, runAdminShowAdmission(ctx, id, env.opts()...))
	assert.Contains(t, env.out.String(), "Meera")
	assert.Contains(t, env.out.String(), "approved")
}

func TestAdminAnnouncements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, runLogin(ctx, adminEmail, adminPassword, true, env.opts()...))

	// Missing title is caught before any request
	err := runAdminCreateAnnouncement(ctx, client.AnnouncementRequest{Content: "body"}, env.opts()...)
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Contains(t, err.Error(), "title is required")

	env.out.Reset()
	require.NoError(t, runAdminCreateAnnouncement(ctx, client.AnnouncementRequest{Title: "Sports Day", Content: "Friday"}, env.opts()...))
	assert.Contains(t, env.out.String(), "Sports Day")

	announcements, err := client.New(env.server.URL).ListAnnouncements(ctx)
	require.NoError(t, err)
	var id string
	for _, a := range announcements {
		if a.Title == "Sports Day" {
			id = a.ID
		}
	}
	require.NotEmpty(t, id)

	inactive := false
	env.out.Reset()
	require.NoError(t, runAdminUpdateAnnouncement(ctx, id, client.AnnouncementUpdate{IsActive: &inactive}, env.opts()...))
	assert.Contains(t, env.out.String(), "inactive")

	assert.Error(t, runAdminUpdateAnnouncement(ctx, id, client.AnnouncementUpdate{}, env.opts()...))

	require.NoError(t, runAdminDeleteAnnouncement(ctx, id, env.opts()...))
	err = runAdminDeleteAnnouncement(ctx, id, env.opts()...)
	require.Error(t, err)
	assert.Equal(t, "failed to delete announcement: Announcement not found", err.Error())
}

func TestPublicListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, runAnnouncements(ctx, env.opts()...))
	assert.Contains(t, env.out.String(), "TITLE")

	env.out.Reset()
	require.NoError(t, runGallery(ctx, env.opts()...))
	assert.Contains(t, env.out.String(), "URL")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, runInit(dir, "http://localhost:8001/", "", &out))
	assert.Contains(t, out.String(), "Created ./portal.json")

	require.NoError(t, runInit(dir, "https://portal.example.com", "", &out))
	require.NoError(t, runInit(dir, "http://localhost:8001", "", &out))
	assert.Contains(t, out.String(), "already exists")

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, []config.Server{
		{URL: "http://localhost:8001", Alias: "production"},
		{URL: "https://portal.example.com", Alias: "server-2"},
	}, cfg.Servers)

	assert.Error(t, runInit(dir, "localhost", "", &out))
}

func TestServerFromEnvironment(t *testing.T) {
	t.Setenv("PORTAL_URL", "http://portal.internal:8001/")

	server, err := getSelectedServer("")
	require.NoError(t, err)
	assert.Equal(t, "http://portal.internal:8001", server.URL)
}

func TestServerFromConfigFile(t *testing.T) {
	t.Setenv("PORTAL_URL", "")
	isolateUserConfig(t)
	dir := t.TempDir()
	require.NoError(t, config.Save(filepath.Join(dir, config.ConfigFileName), &config.Config{
		Servers: []config.Server{{URL: "http://localhost:8001", Alias: "local"}},
	}))
	t.Chdir(dir)

	server, err := getSelectedServer("")
	require.NoError(t, err)
	assert.Equal(t, "local", server.Alias)
}

// isolateUserConfig points the user config directory at a temp dir
func isolateUserConfig(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
}

// bearer returns the Authorization header for the stored token
func (e *testEnv) bearer(t *testing.T) http.Header {
	t.Helper()
	token, err := e.store.LoadToken(e.server.URL)
	require.NoError(t, err)
	return http.Header{"Authorization": {"Bearer " + token}}
}
