package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gurukulschool/portal/internal/models"
)

const defaultAnnouncementCategory = "general"

// CreateAnnouncementRequest describes a new announcement
type CreateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
	IsActive *bool  `json:"is_active"`
}

// UpdateAnnouncementRequest changes only the fields that are set
type UpdateAnnouncementRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	IsActive *bool   `json:"is_active"`
}

func (r *UpdateAnnouncementRequest) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Content != nil {
		updates["content"] = *r.Content
	}
	if r.Category != nil {
		updates["category"] = *r.Category
	}
	if r.IsActive != nil {
		updates["is_active"] = *r.IsActive
	}
	return updates
}

// @Summary List active announcements
// @Tags announcements
// @Produce json
// @Success 200 {array} models.Announcement
// @Router /api/announcements [get]
func (s *Server) listAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := s.db.Where("is_active = ?", true).Order("created_at DESC").Find(&announcements).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list announcements")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, announcements)
}

// @Summary Create announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAnnouncementRequest true "Announcement"
// @Success 200 {object} models.Announcement
// @Router /api/announcements [post]
func (s *Server) createAnnouncement(c *gin.Context) {
	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" {
		req.Category = defaultAnnouncementCategory
	}

	sessionData, _ := GetSessionData(c)
	announcement := &models.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		IsActive:  req.IsActive == nil || *req.IsActive,
		CreatedBy: sessionData.Email,
	}
	if err := s.db.Create(announcement).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create announcement")
		errorJSON(c, http.StatusInternalServerError, "Failed to create announcement")
		return
	}

	c.JSON(http.StatusOK, announcement)
}

// @Summary Update announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Param request body UpdateAnnouncementRequest true "Fields to change"
// @Success 200 {object} models.Announcement
// @Failure 404 {object} map[string]interface{}
// @Router /api/announcements/{id} [put]
func (s *Server) updateAnnouncement(c *gin.Context) {
	var req UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	var announcement models.Announcement
	if err := models.FindByID(s.db, c.Param("id"), &announcement); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorJSON(c, http.StatusNotFound, "Announcement not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find announcement")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if updates := req.updates(); len(updates) > 0 {
		if err := s.db.Model(&announcement).Updates(updates).Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to update announcement")
			errorJSON(c, http.StatusInternalServerError, "Failed to update announcement")
			return
		}
		if err := models.FindByID(s.db, announcement.ID, &announcement); err != nil {
			s.logger.Error().Err(err).Msg("Failed to reload announcement")
			errorJSON(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	c.JSON(http.StatusOK, announcement)
}

// @Summary Delete announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Announcement ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/announcements/{id} [delete]
func (s *Server) deleteAnnouncement(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Announcement{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete announcement")
		errorJSON(c, http.StatusInternalServerError, "Failed to delete announcement")
		return
	}
	if result.RowsAffected == 0 {
		errorJSON(c, http.StatusNotFound, "Announcement not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully"})
}
