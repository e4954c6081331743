package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gurukulschool/portal/internal/auth"
	"github.com/gurukulschool/portal/internal/models"
)

// RegisterRequest represents a self-service signup
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the profile fields to change; empty fields
// are left as they are
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AuthResponse is returned by every endpoint that issues a token
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *UserDetail `json:"user"`
}

// UserDetail represents user information returned in responses
type UserDetail struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserDetail(user *models.User) *UserDetail {
	return &UserDetail{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

func (s *Server) issue(c *gin.Context, user *models.User) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		errorJSON(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        newUserDetail(user),
	})
}

// @Summary Register
// @Description Create a user account and log it in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Register request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check existing user")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		errorJSON(c, http.StatusBadRequest, "Email already registered")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		errorJSON(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         models.RoleUser,
	}
	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		errorJSON(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	s.issue(c, user)
}

// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (s *Server) login(c *gin.Context) {
	s.authenticate(c, "", "Incorrect email or password")
}

// @Summary Admin login
// @Description Authenticate an admin account; non-admin credentials are rejected
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]interface{}
// @Router /api/admin/login [post]
func (s *Server) adminLogin(c *gin.Context) {
	s.authenticate(c, models.RoleAdmin, "Invalid admin credentials")
}

// authenticate checks credentials, restricted to accounts with role when
// role is set, and responds with a token
func (s *Server) authenticate(c *gin.Context, role, rejection string) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	query := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email)))
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorJSON(c, http.StatusUnauthorized, rejection)
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		errorJSON(c, http.StatusUnauthorized, rejection)
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("User logged in")
	s.issue(c, &user)
}

// @Summary Get current user
// @Description Get information about the currently authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserDetail
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/me [get]
func (s *Server) getCurrentUser(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var user models.User
	if err := models.FindByID(s.db, sessionData.UserID, &user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorJSON(c, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, newUserDetail(&user))
}

// @Summary Update profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} UserDetail
// @Router /api/auth/profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.User{}).Where("id = ?", sessionData.UserID).Updates(updates).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update profile")
			errorJSON(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	s.getCurrentUser(c)
}
