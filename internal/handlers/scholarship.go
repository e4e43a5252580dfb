// internal/handlers/scholarship.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/scholartrack/backend/internal/services"
	"github.com/scholartrack/backend/internal/utils"
)

type ScholarshipHandler struct {
	scholarshipService *services.ScholarshipService
}

func NewScholarshipHandler(scholarshipService *services.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipService: scholarshipService}
}

// List is the student-facing browse view: open scholarships only.
func (h *ScholarshipHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := services.ScholarshipFilters{
		Category:   c.Query("category"),
		State:      c.Query("state"),
		Type:       c.Query("type"),
		Search:     params.Search,
		ActiveOnly: true,
	}

	result, err := h.scholarshipService.List(filters, params)
	if err != nil {
		handleServiceError(c, err, "Scholarships")
		return
	}

	utils.PaginatedResponse(c, *result)
}

func (h *ScholarshipHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	scholarship, err := h.scholarshipService.GetByID(id)
	if err != nil {
		handleServiceError(c, err, "Scholarship")
		return
	}

	utils.SuccessResponse(c, scholarship)
}

// AdminList shows every scholarship regardless of status or deadline.
func (h *ScholarshipHandler) AdminList(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := services.ScholarshipFilters{
		Category: c.Query("category"),
		State:    c.Query("state"),
		Type:     c.Query("type"),
		Search:   params.Search,
	}

	result, err := h.scholarshipService.List(filters, params)
	if err != nil {
		handleServiceError(c, err, "Scholarships")
		return
	}

	utils.PaginatedResponse(c, *result)
}

func (h *ScholarshipHandler) Create(c *gin.Context) {
	var req services.ScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	scholarship, err := h.scholarshipService.Create(&req)
	if err != nil {
		handleServiceError(c, err, "Scholarship")
		return
	}

	utils.CreatedResponse(c, scholarship)
}

func (h *ScholarshipHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	scholarship, err := h.scholarshipService.Update(id, &req)
	if err != nil {
		handleServiceError(c, err, "Scholarship")
		return
	}

	utils.SuccessResponse(c, scholarship)
}

func (h *ScholarshipHandler) ToggleStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	scholarship, err := h.scholarshipService.ToggleStatus(id)
	if err != nil {
		handleServiceError(c, err, "Scholarship")
		return
	}

	utils.SuccessResponse(c, scholarship)
}

func (h *ScholarshipHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.scholarshipService.Delete(id); err != nil {
		handleServiceError(c, err, "Scholarship")
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
