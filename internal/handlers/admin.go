// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/services"
	"github.com/scholartrack/backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		handleServiceError(c, err, "Stats")
		return
	}

	utils.SuccessResponse(c, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	result, err := h.adminService.ListUsers(params.Search, params)
	if err != nil {
		handleServiceError(c, err, "Users")
		return
	}

	utils.PaginatedResponse(c, *result)
}

// SetUserStatus blocks or unblocks a student account.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=active blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Status must be active or blocked", nil)
		return
	}

	user, err := h.adminService.SetUserStatus(userID, models.UserStatus(req.Status))
	if err != nil {
		handleServiceError(c, err, "User")
		return
	}

	utils.SuccessResponse(c, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	user, err := h.adminService.UpdateUser(userID, &req)
	if err != nil {
		handleServiceError(c, err, "User")
		return
	}

	utils.SuccessResponse(c, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(userID); err != nil {
		handleServiceError(c, err, "User")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
