package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gurukulschool/portal/internal/cli/auth"
	"github.com/gurukulschool/portal/internal/cli/client"
)

// AuthAPI is the subset of the portal API the session layer needs
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	AdminLogin(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
	Me(ctx context.Context, auth http.Header) (*client.User, error)
}

// Manager performs the authentication operations for one server. Every
// change it makes to the session goes through its Handle.
type Manager struct {
	api    AuthAPI
	store  auth.TokenStore
	server string
	handle *Handle
	log    zerolog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithHandle shares an existing session handle
func WithHandle(h *Handle) Option {
	return func(m *Manager) {
		m.handle = h
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a manager storing tokens for server in store
func NewManager(api AuthAPI, store auth.TokenStore, server string, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		store:  store,
		server: server,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.handle == nil {
		m.handle = NewHandle()
	}
	return m
}

// Handle returns the session handle
func (m *Manager) Handle() *Handle {
	return m.handle
}

// Session returns the current session
func (m *Manager) Session() Session {
	return m.handle.Current()
}

// AuthHeader returns the Authorization header for the current token, or an
// empty header when signed out
func (m *Manager) AuthHeader() http.Header {
	return m.handle.Current().AuthHeader()
}

// Resolve rehydrates the session from the stored token. Any failure to
// fetch the profile logs out. The returned session is always settled.
func (m *Manager) Resolve(ctx context.Context) Session {
	token, err := m.store.LoadToken(m.server)
	if err != nil {
		if !errors.Is(err, auth.ErrNotAuthenticated) {
			m.log.Debug().Err(err).Str("server", m.server).Msg("Failed to load stored token")
		}
		return m.handle.Dispatch(LoggedOut{})
	}

	current := m.handle.Dispatch(Resolving{Token: token})

	user, err := m.api.Me(ctx, current.AuthHeader())
	if err != nil {
		m.log.Debug().Err(err).Str("server", m.server).Msg("Stored token rejected, logging out")
		m.Logout()
		return m.handle.Current()
	}

	return m.handle.Dispatch(Resolved{User: user})
}

// Login signs in a user account
func (m *Manager) Login(ctx context.Context, email, password string) (*client.User, error) {
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

// AdminLogin signs in through the admin endpoint
func (m *Manager) AdminLogin(ctx context.Context, email, password string) (*client.User, error) {
	resp, err := m.api.AdminLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

// Register creates an account and signs it in
func (m *Manager) Register(ctx context.Context, req client.RegisterRequest) (*client.User, error) {
	resp, err := m.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

// establish persists the token before touching the session so a failed
// write leaves the previous session in place
func (m *Manager) establish(resp *client.AuthResponse) (*client.User, error) {
	if resp == nil || resp.AccessToken == "" || resp.User == nil {
		return nil, fmt.Errorf("incomplete authentication response")
	}

	if err := m.store.SaveToken(m.server, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to save authentication token: %w", err)
	}

	m.handle.Dispatch(Authenticated{User: resp.User, Token: resp.AccessToken})
	return resp.User, nil
}

// Logout clears the stored token and the session. The session is cleared
// even when the store fails; that failure is returned.
func (m *Manager) Logout() error {
	err := m.store.DeleteToken(m.server)
	if err != nil {
		m.log.Warn().Err(err).Str("server", m.server).Msg("Failed to delete stored token")
	}
	m.handle.Dispatch(LoggedOut{})
	return err
}
