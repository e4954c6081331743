package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a server running handler and counts the requests it
// receives
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL + "/")
	c.SetHTTPClient(srv.Client())
	return c, &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, AuthResponse{
			AccessToken: "tok",
			TokenType:   "bearer",
			User:        &User{ID: "u1", Email: req.Email, Role: RoleUser},
		})
	})

	resp, err := c.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin())

	_, err = c.Login(context.Background(), "a@x.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
	assert.Equal(t, "Incorrect email or password", apiErr.Detail)
	assert.Equal(t, "Incorrect email or password", Message(err, "Invalid credentials"))
}

func TestAdminLoginUsesAdminEndpoint(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/login", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid admin credentials"})
	})

	_, err := c.AdminLogin(context.Background(), "a@x.com", "p1")
	assert.Equal(t, "Invalid admin credentials", Message(err, "fallback"))
}

func TestMalformedAuthResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "old-shape"})
	})

	_, err := c.Login(context.Background(), "a@x.com", "p1")
	assert.Error(t, err)
}

func TestMeRejectsEmptyUser(t *testing.T) {
	for _, body := range []string{"null", "{}", `{"email":"a@x.com"}`} {
		t.Run(body, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			})

			user, err := c.Me(context.Background(), http.Header{"Authorization": []string{"Bearer tok"}})
			assert.Error(t, err)
			assert.Nil(t, user)
		})
	}
}

func TestRegisterValidatesBeforeSending(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, AuthResponse{AccessToken: "tok", User: &User{ID: "u1"}})
	})

	tests := []struct {
		name string
		req  RegisterRequest
		msg  string
	}{
		{
			name: "password mismatch",
			req:  RegisterRequest{Email: "a@x.com", Password: "p1", ConfirmPassword: "p2", Name: "A", Phone: "1"},
			msg:  "passwords do not match",
		},
		{
			name: "bad email",
			req:  RegisterRequest{Email: "not-an-email", Password: "p1", ConfirmPassword: "p1", Name: "A", Phone: "1"},
			msg:  "email must be a valid email address",
		},
		{
			name: "missing name",
			req:  RegisterRequest{Email: "a@x.com", Password: "p1", ConfirmPassword: "p1", Phone: "1"},
			msg:  "name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
	assert.Zero(t, atomic.LoadInt32(calls))

	resp, err := c.Register(context.Background(), RegisterRequest{
		Email: "a@x.com", Password: "p1", ConfirmPassword: "p1", Name: "A", Phone: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRegisterDoesNotSendConfirmation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "ConfirmPassword")
		assert.Len(t, body, 4)
		writeJSON(w, http.StatusOK, AuthResponse{AccessToken: "tok", User: &User{ID: "u1"}})
	})

	_, err := c.Register(context.Background(), RegisterRequest{
		Email: "a@x.com", Password: "p1", ConfirmPassword: "p1", Name: "A", Phone: "1",
	})
	require.NoError(t, err)
}

func TestCreateAnnouncementRequiresTitle(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Announcement{ID: "a1"})
	})

	_, err := c.CreateAnnouncement(context.Background(), http.Header{}, AnnouncementRequest{Content: "body"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "title is required")
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestAuthHeaderIsForwarded(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, User{ID: "u1", Email: "a@x.com", Role: RoleAdmin})
	})

	user, err := c.Me(context.Background(), http.Header{"Authorization": []string{"Bearer tok"}})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	_, err = c.Me(context.Background(), http.Header{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
}

func TestUpdateAdmissionStatus(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/admissions/ad1/status", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated successfully"})
	})

	err := c.UpdateAdmissionStatus(context.Background(), nil, "ad1", "enrolled")
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, atomic.LoadInt32(calls))

	require.NoError(t, c.UpdateAdmissionStatus(context.Background(), nil, "ad1", StatusApproved))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestUpdateAnnouncementSendsOnlySetFields(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"is_active": false}, body)
		writeJSON(w, http.StatusOK, Announcement{ID: "a1", Title: "Holiday"})
	})

	inactive := false
	out, err := c.UpdateAnnouncement(context.Background(), nil, "a1", AnnouncementUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Holiday", out.Title)
}

func TestTransportErrorUsesFallback(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.ListGallery(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "Something went wrong", Message(err, "Something went wrong"))
}

func TestParseDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail": "Email already registered"}`, "Email already registered"},
		{`{"error": "invalid credentials"}`, "invalid credentials"},
		{`{"detail": [{"msg": "field required"}]}`, `[{"msg": "field required"}]`},
		{`Bad Gateway`, "Bad Gateway"},
		{`{}`, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDetail([]byte(tt.body)), tt.body)
	}
}
