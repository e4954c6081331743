package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gurukulschool/portal/internal/models"
)

// SchoolStats are the headline figures shown on the public site
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

var schoolStats = SchoolStats{
	Students:     6000,
	Faculty:      400,
	Years:        7,
	Ratio:        "35:1",
	Satisfaction: "100%",
}

// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardStats
// @Router /api/admin/dashboard [get]
func (s *Server) getDashboardStats(c *gin.Context) {
	stats := DashboardStats{Stats: schoolStats}

	counts := []*gorm.DB{
		s.db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&stats.TotalUsers),
		s.db.Model(&models.Admission{}).Count(&stats.TotalAdmissions),
		s.db.Model(&models.Admission{}).Where("status = ?", models.StatusPending).Count(&stats.PendingAdmissions),
		s.db.Model(&models.Contact{}).Count(&stats.TotalContacts),
		s.db.Model(&models.GalleryImage{}).Count(&stats.TotalGallery),
	}

	for _, count := range counts {
		if err := count.Error; err != nil {
			s.logger.Error().Err(err).Msg("Failed to compute dashboard stats")
			errorJSON(c, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary List users
// @Description List all accounts with the user role (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserDetail
// @Router /api/admin/users [get]
func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Where("role = ?", models.RoleUser).Order("created_at DESC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		errorJSON(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	userDetails := make([]*UserDetail, len(users))
	for i := range users {
		userDetails[i] = newUserDetail(&users[i])
	}

	c.JSON(http.StatusOK, userDetails)
}

// @Summary Delete user
// @Description Delete a user (admin only, cannot delete self)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/users/{id} [delete]
func (s *Server) deleteUser(c *gin.Context) {
	userID := c.Param("id")
	sessionData, _ := GetSessionData(c)

	if userID == sessionData.UserID {
		errorJSON(c, http.StatusBadRequest, "Cannot delete yourself")
		return
	}

	result := s.db.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete user")
		errorJSON(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if result.RowsAffected == 0 {
		errorJSON(c, http.StatusNotFound, "User not found")
		return
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("deleted_by", sessionData.UserID).
		Msg("User deleted")

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
