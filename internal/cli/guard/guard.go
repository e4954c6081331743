// Package guard decides whether a protected command may run for a session.
package guard

import (
	"errors"

	"github.com/gurukulschool/portal/internal/cli/session"
)

// Mode is the capability a protected command requires
type Mode int

const (
	// Protected requires any signed-in user
	Protected Mode = iota
	// AdminOnly requires a signed-in admin
	AdminOnly
)

// Redirect targets
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Outcome is the kind of decision the guard reached
type Outcome int

const (
	Allow Outcome = iota
	Pending
	Redirect
)

// Decision is the result of evaluating a guard. Path is set for Redirect.
type Decision struct {
	Outcome Outcome
	Path    string
}

var (
	ErrPending          = errors.New("session is still being resolved")
	ErrNotAuthenticated = errors.New("not authenticated. Please run 'portal login' first")
	ErrAdminRequired    = errors.New("admin access required. Please run 'portal login --admin'")
)

// Evaluate decides what to do with a navigation to a route of the given mode
func Evaluate(s session.Session, mode Mode) Decision {
	switch {
	case s.Loading:
		return Decision{Outcome: Pending}
	case s.User == nil:
		return Decision{Outcome: Redirect, Path: LoginPath}
	case mode == AdminOnly && !s.User.IsAdmin():
		return Decision{Outcome: Redirect, Path: HomePath}
	default:
		return Decision{Outcome: Allow}
	}
}

// Err converts d into an error for callers that cannot navigate; Allow
// yields nil
func (d Decision) Err() error {
	switch d.Outcome {
	case Allow:
		return nil
	case Pending:
		return ErrPending
	}
	if d.Path == LoginPath {
		return ErrNotAuthenticated
	}
	return ErrAdminRequired
}
