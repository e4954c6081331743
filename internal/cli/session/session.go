// Package session holds the client's belief about who is signed in and the
// operations that change it.
package session

import (
	"net/http"
	"sync"

	"github.com/gurukulschool/portal/internal/cli/client"
)

// Session is a snapshot of the client session. A Session without a token
// never has a user.
type Session struct {
	User    *client.User
	Token   string
	Loading bool
}

// Authenticated reports whether a user is signed in
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// AuthHeader returns the Authorization header for the session's token, or an
// empty header when there is none
func (s Session) AuthHeader() http.Header {
	header := http.Header{}
	if s.Token != "" {
		header.Set("Authorization", "Bearer "+s.Token)
	}
	return header
}

// Event is a change applied to a session through Handle.Dispatch
type Event interface {
	apply(Session) Session
}

// Resolving starts resolution of a stored token
type Resolving struct {
	Token string
}

// Authenticated records a successful login or registration
type Authenticated struct {
	User  *client.User
	Token string
}

// Resolved records the profile a stored token belongs to
type Resolved struct {
	User *client.User
}

// LoggedOut clears the session
type LoggedOut struct{}

func (e Resolving) apply(Session) Session {
	return Session{Token: e.Token, Loading: true}
}

func (e Authenticated) apply(Session) Session {
	if e.Token == "" || e.User == nil {
		return Session{}
	}
	return Session{User: e.User, Token: e.Token}
}

func (e Resolved) apply(s Session) Session {
	if s.Token == "" || e.User == nil {
		return Session{}
	}
	return Session{User: e.User, Token: s.Token}
}

func (LoggedOut) apply(Session) Session {
	return Session{}
}

// Handle is the single owner of session state. State only changes through
// Dispatch; subscribers see every new snapshot.
type Handle struct {
	mu          sync.Mutex
	state       Session
	subscribers map[int]func(Session)
	nextID      int
}

// NewHandle creates a handle with an empty, settled session
func NewHandle() *Handle {
	return &Handle{subscribers: make(map[int]func(Session))}
}

// Current returns the current session
func (h *Handle) Current() Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Dispatch applies e and notifies subscribers with the resulting session
func (h *Handle) Dispatch(e Event) Session {
	h.mu.Lock()
	h.state = e.apply(h.state)
	next := h.state
	subscribers := make([]func(Session), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		subscribers = append(subscribers, fn)
	}
	h.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
	return next
}

// Subscribe registers fn for session changes and returns a function that
// removes it
func (h *Handle) Subscribe(fn func(Session)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers, id)
	}
}
