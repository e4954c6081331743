package auth

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the session belongs to an admin account
func (s *SessionData) IsAdmin() bool {
	return s.Role == RoleAdmin
}
