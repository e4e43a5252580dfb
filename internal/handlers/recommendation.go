// internal/handlers/recommendation.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scholartrack/backend/internal/services"
	"github.com/scholartrack/backend/internal/utils"
)

type RecommendationHandler struct {
	recommendationService *services.RecommendationService
}

func NewRecommendationHandler(recommendationService *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// Get returns open scholarships ranked for the authenticated student.
func (h *RecommendationHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	recommendations, err := h.recommendationService.Recommend(userID, limit)
	if err != nil {
		handleServiceError(c, err, "Recommendations")
		return
	}

	utils.SuccessResponse(c, recommendations)
}
