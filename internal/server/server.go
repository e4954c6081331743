// Package server
//
// @title Gurukul School Portal API
// @version 1.0
// @description Admissions and CRM API for the school portal
// @host localhost:8001
// @BasePath /api
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gurukulschool/portal/internal/auth"
	"github.com/gurukulschool/portal/internal/config"
	"github.com/gurukulschool/portal/internal/database"
	"github.com/gurukulschool/portal/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	tokens    *auth.TokenIssuer
	version   string
}

// New opens the configured database and creates a server on top of it
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := database.Open(cfg.Database.URL, zlog)
	if err != nil {
		return nil, err
	}

	return NewWithDB(cfg, db, zlog, version), nil
}

// NewWithDB creates a server using an already migrated database
func NewWithDB(cfg *config.Config, db *gorm.DB, zlog zerolog.Logger, version string) *Server {
	validate := validator.New()

	// Admission status must be one of the workflow states
	validate.RegisterValidation("admission_status", func(fl validator.FieldLevel) bool {
		return models.ValidAdmissionStatus(fl.Field().String())
	})

	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		validator: validate,
		tokens:    auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry),
		version:   version,
	}

	server.setupRouter()

	return server
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Client IPs come from the socket unless the peer is a configured proxy
	if err := s.router.SetTrustedProxies(s.config.HTTP.TrustedProxies); err != nil {
		s.logger.Warn().Err(err).Strs("trusted_proxies", s.config.HTTP.TrustedProxies).Msg("Invalid trusted proxies, ignoring forwarded headers")
		_ = s.router.SetTrustedProxies(nil)
	}

	s.router.Use(gin.Recovery())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(s.config.HTTP.CORSOrigins) == 0 || s.config.HTTP.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.config.HTTP.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	s.router.Use(cors.New(corsConfig))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	api := s.router.Group("/api")
	api.GET("/", s.root)

	// Credential endpoints are rate limited per client IP
	credentials := api.Group("")
	credentials.Use(RateLimitMiddleware(s.config.Auth.LoginRateLimit, s.config.Auth.LoginBurst))
	{
		credentials.POST("/auth/register", s.register)
		credentials.POST("/auth/login", s.login)
		credentials.POST("/admin/login", s.adminLogin)
	}

	// Public site endpoints
	api.GET("/announcements", s.listAnnouncements)
	api.GET("/gallery", s.listGallery)
	api.POST("/admissions", s.submitAdmission)
	api.POST("/contact", s.submitContact)

	// Authenticated endpoints (bearer token required)
	authed := api.Group("")
	authed.Use(JWTAuthMiddleware(s.tokens, s.db, s.logger))
	{
		authed.GET("/auth/me", s.getCurrentUser)
		authed.PUT("/auth/profile", s.updateProfile)
		authed.GET("/admissions/:id", s.getAdmission)
	}

	// Admin endpoints
	admin := authed.Group("")
	admin.Use(AdminOnlyMiddleware(s.logger))
	{
		admin.GET("/admin/dashboard", s.getDashboardStats)
		admin.GET("/admin/users", s.listUsers)
		admin.DELETE("/admin/users/:id", s.deleteUser)

		admin.GET("/admissions", s.listAdmissions)
		admin.PUT("/admissions/:id/status", s.updateAdmissionStatus)

		admin.GET("/contact", s.listContacts)

		admin.POST("/gallery", s.addGalleryImage)
		admin.DELETE("/gallery/:id", s.deleteGalleryImage)

		admin.POST("/announcements", s.createAnnouncement)
		admin.PUT("/announcements/:id", s.updateAnnouncement)
		admin.DELETE("/announcements/:id", s.deleteAnnouncement)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "portal-api",
		"version":   s.version,
	})
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Gurukul School API is running"})
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	port := ":" + s.config.HTTP.Port

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              port,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("port", port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.logger.Error().Err(err).Msg("HTTP server error")
		return err
	case <-sigChan:
	}
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if err := database.Close(s.db); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	} else {
		s.logger.Info().Msg("Database closed successfully")
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
