// internal/services/recommendation_service.go
package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/models"
)

// RecommendationService suggests open scholarships to a student. It scores
// by overlap with the student's past applications (category and state),
// falling back to the newest open scholarships for students with no
// history. Deterministic on purpose: same inputs, same order.
type RecommendationService struct {
	db *gorm.DB
}

func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{db: db}
}

func (s *RecommendationService) Recommend(userID uuid.UUID, limit int) ([]models.Scholarship, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	var history []models.Application
	err := s.db.Preload("Scholarship").
		Where("user_id = ?", userID).
		Find(&history).Error
	if err != nil {
		return nil, err
	}

	appliedIDs := make(map[uuid.UUID]bool, len(history))
	categories := make(map[string]int)
	states := make(map[string]int)
	for _, app := range history {
		appliedIDs[app.ScholarshipID] = true
		if app.Scholarship != nil {
			categories[app.Scholarship.Category]++
			states[app.Scholarship.State]++
		}
	}

	var open []models.Scholarship
	err = s.db.Where("status = ? AND deadline > ?", models.ScholarshipStatusActive, time.Now()).
		Order("created_at DESC").
		Find(&open).Error
	if err != nil {
		return nil, err
	}

	type scored struct {
		scholarship models.Scholarship
		score       int
	}
	candidates := make([]scored, 0, len(open))
	for _, sch := range open {
		if appliedIDs[sch.ID] {
			continue
		}
		score := categories[sch.Category]*2 + states[sch.State]
		candidates = append(candidates, scored{scholarship: sch, score: score})
	}

	// Stable sort keeps the newest-first order within equal scores, which
	// is also the fallback ranking when the student has no history.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	recommendations := make([]models.Scholarship, 0, len(candidates))
	for _, c := range candidates {
		recommendations = append(recommendations, c.scholarship)
	}
	return recommendations, nil
}
