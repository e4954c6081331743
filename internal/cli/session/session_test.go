package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurukulschool/portal/internal/cli/auth"
	"github.com/gurukulschool/portal/internal/cli/client"
)

const testServer = "http://portal.test"

// fakeAPI answers auth calls from a fixed set of accounts
type fakeAPI struct {
	users    map[string]*client.User // by token
	password string
	meErr    error
	meCalls  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: map[string]*client.User{
			"user-token":  {ID: "u1", Email: "a@x.com", Role: client.RoleUser},
			"admin-token": {ID: "a1", Email: "admin@x.com", Role: client.RoleAdmin},
		},
		password: "p1",
	}
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*client.AuthResponse, error) {
	if password != f.password {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect email or password"}
	}
	for token, u := range f.users {
		if u.Email == email {
			return &client.AuthResponse{AccessToken: token, User: u}, nil
		}
	}
	return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect email or password"}
}

func (f *fakeAPI) AdminLogin(ctx context.Context, email, password string) (*client.AuthResponse, error) {
	resp, err := f.Login(ctx, email, password)
	if err != nil || !resp.User.IsAdmin() {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Invalid admin credentials"}
	}
	return resp, nil
}

func (f *fakeAPI) Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
	user := &client.User{ID: "new", Email: req.Email, Name: req.Name, Phone: req.Phone, Role: client.RoleUser}
	f.users["new-token"] = user
	return &client.AuthResponse{AccessToken: "new-token", User: user}, nil
}

func (f *fakeAPI) Me(ctx context.Context, header http.Header) (*client.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	const prefix = "Bearer "
	value := header.Get("Authorization")
	if len(value) <= len(prefix) {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Not authenticated"}
	}
	user, ok := f.users[value[len(prefix):]]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"}
	}
	return user, nil
}

// failingStore accepts reads and deletes but rejects writes
type failingStore struct {
	*auth.MemoryStore
}

func (f failingStore) SaveToken(serverURL, token string) error {
	return errors.New("keychain locked")
}

func TestHandleDispatch(t *testing.T) {
	h := NewHandle()
	user := &client.User{ID: "u1"}

	var seen []Session
	unsubscribe := h.Subscribe(func(s Session) { seen = append(seen, s) })

	h.Dispatch(Resolving{Token: "t"})
	assert.Equal(t, Session{Token: "t", Loading: true}, h.Current())

	h.Dispatch(Resolved{User: user})
	assert.Equal(t, Session{User: user, Token: "t"}, h.Current())

	h.Dispatch(LoggedOut{})
	assert.Equal(t, Session{}, h.Current())

	unsubscribe()
	h.Dispatch(Authenticated{User: user, Token: "t2"})

	require.Len(t, seen, 3)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
	assert.Equal(t, Session{}, seen[2])
}

func TestEventsKeepTokenInvariant(t *testing.T) {
	user := &client.User{ID: "u1"}

	// A profile without a token never produces a signed-in session
	h := NewHandle()
	assert.Equal(t, Session{}, h.Dispatch(Resolved{User: user}))
	assert.Equal(t, Session{}, h.Dispatch(Authenticated{User: user}))
	assert.Equal(t, Session{}, h.Dispatch(Authenticated{Token: "t"}))
}

func TestAuthHeader(t *testing.T) {
	assert.Empty(t, Session{}.AuthHeader())
	assert.Equal(t, "Bearer tok", Session{Token: "tok"}.AuthHeader().Get("Authorization"))
}

func TestResolveWithoutToken(t *testing.T) {
	api := newFakeAPI()
	m := NewManager(api, auth.NewMemoryStore(), testServer)

	s := m.Resolve(context.Background())
	assert.Equal(t, Session{}, s)
	assert.Zero(t, api.meCalls)
}

func TestResolveWithValidToken(t *testing.T) {
	api := newFakeAPI()
	store := auth.NewMemoryStore()
	require.NoError(t, store.SaveToken(testServer, "user-token"))
	m := NewManager(api, store, testServer)

	var loadingTransitions int
	wasLoading := false
	m.Handle().Subscribe(func(s Session) {
		if wasLoading && !s.Loading {
			loadingTransitions++
		}
		wasLoading = s.Loading
	})

	s := m.Resolve(context.Background())
	assert.False(t, s.Loading)
	assert.Equal(t, "a@x.com", s.User.Email)
	assert.Equal(t, "user-token", s.Token)
	assert.Equal(t, 1, loadingTransitions)
}

func TestResolveFailureLogsOut(t *testing.T) {
	failures := []error{
		&client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"},
		&client.APIError{StatusCode: http.StatusInternalServerError},
		errors.New("connection refused"),
		context.Canceled,
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			api := newFakeAPI()
			api.meErr = failure
			store := auth.NewMemoryStore()
			require.NoError(t, store.SaveToken(testServer, "user-token"))
			m := NewManager(api, store, testServer)

			s := m.Resolve(context.Background())
			assert.Equal(t, Session{}, s)

			_, err := store.LoadToken(testServer)
			assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
		})
	}
}

func TestLogin(t *testing.T) {
	api := newFakeAPI()
	store := auth.NewMemoryStore()
	m := NewManager(api, store, testServer)

	user, err := m.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	s := m.Session()
	assert.Equal(t, user, s.User)
	assert.Equal(t, "user-token", s.Token)

	token, err := store.LoadToken(testServer)
	require.NoError(t, err)
	assert.Equal(t, "user-token", token)

	assert.Equal(t, "Bearer user-token", m.AuthHeader().Get("Authorization"))
}

func TestFailedLoginLeavesSessionUnchanged(t *testing.T) {
	api := newFakeAPI()
	store := auth.NewMemoryStore()
	m := NewManager(api, store, testServer)

	_, err := m.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	before := m.Session()

	_, err = m.Login(context.Background(), "admin@x.com", "wrong")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect email or password", apiErr.Detail)
	assert.Equal(t, before, m.Session())

	_, err = m.AdminLogin(context.Background(), "a@x.com", "p1")
	require.Error(t, err)
	assert.Equal(t, before, m.Session())

	token, err := store.LoadToken(testServer)
	require.NoError(t, err)
	assert.Equal(t, "user-token", token)
}

func TestStoreFailureLeavesSessionUnchanged(t *testing.T) {
	api := newFakeAPI()
	m := NewManager(api, failingStore{auth.NewMemoryStore()}, testServer)

	_, err := m.Login(context.Background(), "a@x.com", "p1")
	require.Error(t, err)
	assert.Equal(t, Session{}, m.Session())
}

func TestAdminLogin(t *testing.T) {
	api := newFakeAPI()
	m := NewManager(api, auth.NewMemoryStore(), testServer)

	_, err := m.AdminLogin(context.Background(), "a@x.com", "p1")
	require.Error(t, err)
	assert.Equal(t, Session{}, m.Session())

	user, err := m.AdminLogin(context.Background(), "admin@x.com", "p1")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	assert.True(t, m.Session().Authenticated())
}

func TestRegister(t *testing.T) {
	api := newFakeAPI()
	m := NewManager(api, auth.NewMemoryStore(), testServer)

	user, err := m.Register(context.Background(), client.RegisterRequest{
		Email: "b@x.com", Password: "p1", ConfirmPassword: "p1", Name: "B", Phone: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", user.Email)
	assert.Equal(t, "new-token", m.Session().Token)
}

func TestLogout(t *testing.T) {
	api := newFakeAPI()
	store := auth.NewMemoryStore()
	m := NewManager(api, store, testServer)

	_, err := m.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	require.NoError(t, m.Logout())
	assert.Equal(t, Session{}, m.Session())
	assert.Empty(t, m.AuthHeader())

	_, err = store.LoadToken(testServer)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)

	// Logging out twice is harmless
	assert.NoError(t, m.Logout())
}

func TestSharedHandle(t *testing.T) {
	h := NewHandle()
	m := NewManager(newFakeAPI(), auth.NewMemoryStore(), testServer, WithHandle(h))

	_, err := m.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	assert.True(t, h.Current().Authenticated())
}
