package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Roles and admission statuses as used by the portal API
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User is the profile returned by the auth endpoints
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AuthResponse is returned by login, admin login and register
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents the signup form. ConfirmPassword is checked
// locally and never sent.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
}

// ProfileUpdate changes the current user's name and/or phone
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Admission is an application submitted through the admissions form
type Admission struct {
	ID             string    `json:"id"`
	StudentName    string    `json:"student_name"`
	ParentName     string    `json:"parent_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Grade          string    `json:"grade"`
	DOB            string    `json:"dob"`
	Address        string    `json:"address"`
	PreviousSchool string    `json:"previous_school"`
	Status         string    `json:"status"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// AdmissionRequest is the public admissions form
type AdmissionRequest struct {
	StudentName    string `json:"student_name" validate:"required"`
	ParentName     string `json:"parent_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	Grade          string `json:"grade" validate:"required"`
	DOB            string `json:"dob" validate:"required"`
	Address        string `json:"address" validate:"required"`
	PreviousSchool string `json:"previous_school,omitempty"`
}

// StatusUpdate moves an admission through review
type StatusUpdate struct {
	Status string `json:"status" validate:"required,admission_status"`
}

// Contact is a message submitted through the contact form
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactRequest is the public contact form
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// GalleryImage is an image in the public gallery
type GalleryImage struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"image_url"`
	Category   string    `json:"category"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// GalleryImageRequest adds an image to the gallery
type GalleryImageRequest struct {
	Title    string `json:"title" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,url"`
	Category string `json:"category,omitempty"`
}

// Announcement is a notice published on the site
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnouncementRequest creates an announcement
type AnnouncementRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category,omitempty"`
}

// AnnouncementUpdate changes only the fields that are set
type AnnouncementUpdate struct {
	Title    *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Content  *string `json:"content,omitempty" validate:"omitnil,min=1"`
	Category *string `json:"category,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SchoolStats are the headline figures of the school
type SchoolStats struct {
	Students     int    `json:"students"`
	Faculty      int    `json:"faculty"`
	Years        int    `json:"years"`
	Ratio        string `json:"ratio"`
	Satisfaction string `json:"satisfaction"`
}

// DashboardStats aggregates record counts for the admin dashboard
type DashboardStats struct {
	TotalUsers        int64       `json:"total_users"`
	TotalAdmissions   int64       `json:"total_admissions"`
	PendingAdmissions int64       `json:"pending_admissions"`
	TotalContacts     int64       `json:"total_contacts"`
	TotalGallery      int64       `json:"total_gallery"`
	Stats             SchoolStats `json:"stats"`
}

func (c *Client) authenticate(ctx context.Context, path string, req any) (*AuthResponse, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, fmt.Errorf("malformed auth response from %s", path)
	}
	return &resp, nil
}

// Login authenticates a user and returns a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", LoginRequest{Email: email, Password: password})
}

// AdminLogin authenticates against the admin endpoint, which rejects
// non-admin accounts
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "/admin/login", LoginRequest{Email: email, Password: password})
}

// Register creates a user account and returns a token for it
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

// Me returns the profile the bearer token in auth belongs to
func (c *Client) Me(ctx context.Context, auth http.Header) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", auth, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("malformed user response from /auth/me")
	}
	return &user, nil
}

// UpdateProfile changes the current user's name and/or phone
func (c *Client) UpdateProfile(ctx context.Context, auth http.Header, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", auth, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAnnouncements returns the active announcements
func (c *Client) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	var out []Announcement
	if err := c.do(ctx, http.MethodGet, "/announcements", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAnnouncement publishes an announcement
func (c *Client) CreateAnnouncement(ctx context.Context, auth http.Header, req AnnouncementRequest) (*Announcement, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	var out Announcement
	if err := c.do(ctx, http.MethodPost, "/announcements", auth, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAnnouncement applies update to the announcement with id
func (c *Client) UpdateAnnouncement(ctx context.Context, auth http.Header, id string, update AnnouncementUpdate) (*Announcement, error) {
	if err := c.Validate(update); err != nil {
		return nil, err
	}
	var out Announcement
	if err := c.do(ctx, http.MethodPut, "/announcements/"+url.PathEscape(id), auth, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAnnouncement removes an announcement
func (c *Client) DeleteAnnouncement(ctx context.Context, auth http.Header, id string) error {
	return c.do(ctx, http.MethodDelete, "/announcements/"+url.PathEscape(id), auth, nil, nil)
}

// ListGallery returns all gallery images
func (c *Client) ListGallery(ctx context.Context) ([]GalleryImage, error) {
	var out []GalleryImage
	if err := c.do(ctx, http.MethodGet, "/gallery", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddGalleryImage publishes an image
func (c *Client) AddGalleryImage(ctx context.Context, auth http.Header, req GalleryImageRequest) (*GalleryImage, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	var out GalleryImage
	if err := c.do(ctx, http.MethodPost, "/gallery", auth, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGalleryImage removes an image
func (c *Client) DeleteGalleryImage(ctx context.Context, auth http.Header, id string) error {
	return c.do(ctx, http.MethodDelete, "/gallery/"+url.PathEscape(id), auth, nil, nil)
}

// SubmitAdmission sends an admission application; no token is needed
func (c *Client) SubmitAdmission(ctx context.Context, req AdmissionRequest) (*Admission, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	var out Admission
	if err := c.do(ctx, http.MethodPost, "/admissions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAdmissions returns every admission application
func (c *Client) ListAdmissions(ctx context.Context, auth http.Header) ([]Admission, error) {
	var out []Admission
	if err := c.do(ctx, http.MethodGet, "/admissions", auth, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAdmission returns a single application
func (c *Client) GetAdmission(ctx context.Context, auth http.Header, id string) (*Admission, error) {
	var out Admission
	if err := c.do(ctx, http.MethodGet, "/admissions/"+url.PathEscape(id), auth, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAdmissionStatus sets the review status of an application
func (c *Client) UpdateAdmissionStatus(ctx context.Context, auth http.Header, id, status string) error {
	req := StatusUpdate{Status: status}
	if err := c.Validate(req); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/admissions/"+url.PathEscape(id)+"/status", auth, req, nil)
}

// SubmitContact sends a contact message; no token is needed
func (c *Client) SubmitContact(ctx context.Context, req ContactRequest) (*Contact, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	var out Contact
	if err := c.do(ctx, http.MethodPost, "/contact", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListContacts returns every contact message
func (c *Client) ListContacts(ctx context.Context, auth http.Header) ([]Contact, error) {
	var out []Contact
	if err := c.do(ctx, http.MethodGet, "/contact", auth, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers returns the accounts with the user role
func (c *Client) ListUsers(ctx context.Context, auth http.Header) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/admin/users", auth, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, auth http.Header, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), auth, nil, nil)
}

// Dashboard returns the admin dashboard counts
func (c *Client) Dashboard(ctx context.Context, auth http.Header) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard", auth, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
