package handlers

import (
	"net/http"
	"strings"

	"github.com/thankiuday/Phygital-sub005/internal/database/repository"
	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/services"
	"github.com/thankiuday/Phygital-sub005/internal/services/auth"
	"github.com/thankiuday/Phygital-sub005/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler groups operator-only endpoints. Routes using it sit
// behind the admin middleware.
type AdminHandler struct {
	userRepo        *repository.UserRepository
	authService     *auth.AuthService
	campaignService *services.CampaignService
}

func NewAdminHandler(db *gorm.DB, authService *auth.AuthService, campaignService *services.CampaignService) *AdminHandler {
	return &AdminHandler{
		userRepo:        repository.NewUserRepository(db),
		authService:     authService,
		campaignService: campaignService,
	}
}

// GetUsers godoc
// @Summary List users
// @Description List all users with search and pagination (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param search query string false "Search by email or name"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	search := c.Query("search")

	users, total, err := h.userRepo.GetAllUsers(page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// SetUserActive godoc
// @Summary Activate or deactivate a user
// @Description Set a user's active flag. Deactivated users cannot authenticate. (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body models.SetUserActiveRequest true "Active flag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/users/{id}/active [put]
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID := c.Param("id")

	var req models.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.authService.SetUserActive(userID, req.IsActive); err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

// GetAllCampaigns godoc
// @Summary List all campaigns
// @Description List every campaign across all users (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/campaigns [get]
func (h *AdminHandler) GetAllCampaigns(c *gin.Context) {
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	campaigns, total, err := h.campaignService.GetAllCampaigns(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get campaigns", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns":  campaigns,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}
