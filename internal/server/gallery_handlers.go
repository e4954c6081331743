package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurukulschool/portal/internal/models"
)

const defaultGalleryCategory = "campus"

// AddGalleryImageRequest describes an image to publish
type AddGalleryImageRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"image_url" binding:"required,url"`
	Category string `json:"category"`
}

// @Summary List gallery images
// @Tags gallery
// @Produce json
// @Success 200 {array} models.GalleryImage
// @Router /api/gallery [get]
func (s *Server) listGallery(c *gin.Context) {
	var images []models.GalleryImage
	if err := s.db.Order("created_at ASC").Find(&images).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list gallery")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, images)
}

// @Summary Add gallery image
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddGalleryImageRequest true "Image"
// @Success 200 {object} models.GalleryImage
// @Router /api/gallery [post]
func (s *Server) addGalleryImage(c *gin.Context) {
	var req AddGalleryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == "" {
		req.Category = defaultGalleryCategory
	}

	sessionData, _ := GetSessionData(c)
	image := &models.GalleryImage{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		Category:   req.Category,
		UploadedBy: sessionData.Email,
	}
	if err := s.db.Create(image).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to add gallery image")
		errorJSON(c, http.StatusInternalServerError, "Failed to add image")
		return
	}

	c.JSON(http.StatusOK, image)
}

// @Summary Delete gallery image
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param id path string true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/gallery/{id} [delete]
func (s *Server) deleteGalleryImage(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.GalleryImage{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete gallery image")
		errorJSON(c, http.StatusInternalServerError, "Failed to delete image")
		return
	}
	if result.RowsAffected == 0 {
		errorJSON(c, http.StatusNotFound, "Image not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
