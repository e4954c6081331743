package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gurukulschool/portal/internal/models"
)

// SubmitAdmissionRequest is the public admissions form
type SubmitAdmissionRequest struct {
	StudentName    string `json:"student_name" binding:"required"`
	ParentName     string `json:"parent_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	Grade          string `json:"grade" binding:"required"`
	DOB            string `json:"dob" binding:"required"`
	Address        string `json:"address" binding:"required"`
	PreviousSchool string `json:"previous_school"`
}

// UpdateAdmissionStatusRequest moves an application through review
type UpdateAdmissionStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"admission_status"`
}

// @Summary Submit admission application
// @Tags admissions
// @Accept json
// @Produce json
// @Param request body SubmitAdmissionRequest true "Application"
// @Success 200 {object} models.Admission
// @Router /api/admissions [post]
func (s *Server) submitAdmission(c *gin.Context) {
	var req SubmitAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	admission := &models.Admission{
		StudentName:    req.StudentName,
		ParentName:     req.ParentName,
		Email:          req.Email,
		Phone:          req.Phone,
		Grade:          req.Grade,
		DOB:            req.DOB,
		Address:        req.Address,
		PreviousSchool: req.PreviousSchool,
		Status:         models.StatusPending,
	}
	if err := s.db.Create(admission).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create admission")
		errorJSON(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	s.logger.Info().Str("admission_id", admission.ID).Str("grade", admission.Grade).Msg("Admission submitted")
	c.JSON(http.StatusOK, admission)
}

// @Summary List admission applications
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Admission
// @Router /api/admissions [get]
func (s *Server) listAdmissions(c *gin.Context) {
	var admissions []models.Admission
	if err := s.db.Order("submitted_at DESC").Find(&admissions).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list admissions")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, admissions)
}

// @Summary Get admission application
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Success 200 {object} models.Admission
// @Failure 404 {object} map[string]interface{}
// @Router /api/admissions/{id} [get]
func (s *Server) getAdmission(c *gin.Context) {
	var admission models.Admission
	if err := models.FindByID(s.db, c.Param("id"), &admission); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errorJSON(c, http.StatusNotFound, "Admission not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find admission")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, admission)
}

// @Summary Update admission status
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admission ID"
// @Param request body UpdateAdmissionStatusRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admissions/{id}/status [put]
func (s *Server) updateAdmissionStatus(c *gin.Context) {
	var req UpdateAdmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Status must be one of pending, approved, rejected")
		return
	}

	result := s.db.Model(&models.Admission{}).Where("id = ?", c.Param("id")).Update("status", req.Status)
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to update admission status")
		errorJSON(c, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if result.RowsAffected == 0 {
		errorJSON(c, http.StatusNotFound, "Admission not found")
		return
	}

	s.logger.Info().Str("admission_id", c.Param("id")).Str("status", req.Status).Msg("Admission status updated")
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}
