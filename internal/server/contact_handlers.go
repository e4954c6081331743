package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurukulschool/portal/internal/models"
)

// SubmitContactRequest is the public contact form
type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// @Summary Submit contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body SubmitContactRequest true "Message"
// @Success 200 {object} models.Contact
// @Router /api/contact [post]
func (s *Server) submitContact(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	contact := &models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.db.Create(contact).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create contact")
		errorJSON(c, http.StatusInternalServerError, "Failed to submit message")
		return
	}

	c.JSON(http.StatusOK, contact)
}

// @Summary List contact messages
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Contact
// @Router /api/contact [get]
func (s *Server) listContacts(c *gin.Context) {
	var contacts []models.Contact
	if err := s.db.Order("created_at DESC").Find(&contacts).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list contacts")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, contacts)
}
