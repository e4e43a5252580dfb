// internal/services/scholarship_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/utils"
)

type ScholarshipService struct {
	db *gorm.DB
}

func NewScholarshipService(db *gorm.DB) *ScholarshipService {
	return &ScholarshipService{db: db}
}

type ScholarshipRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Provider    string  `json:"provider" validate:"max=255"`
	Category    string  `json:"category" validate:"required,max=100"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Deadline    string  `json:"deadline" validate:"required"`
	State       string  `json:"state" validate:"max=100"`
	Type        string  `json:"type" validate:"max=50"`
	Description string  `json:"description"`
	Eligibility string  `json:"eligibility"`
}

type ScholarshipFilters struct {
	Category string
	State    string
	Type     string
	Search   string
	// ActiveOnly hides closed and inactive scholarships, the student view.
	ActiveOnly bool
}

func (s *ScholarshipService) Create(req *ScholarshipRequest) (*models.Scholarship, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return nil, errors.New("deadline must be in YYYY-MM-DD format")
	}

	scholarship := &models.Scholarship{
		Name:        req.Name,
		Provider:    req.Provider,
		Category:    req.Category,
		Amount:      req.Amount,
		Deadline:    deadline,
		State:       req.State,
		Type:        req.Type,
		Description: req.Description,
		Eligibility: req.Eligibility,
		Status:      models.ScholarshipStatusActive,
	}

	if err := s.db.Create(scholarship).Error; err != nil {
		return nil, err
	}
	return scholarship, nil
}

func (s *ScholarshipService) Update(id uuid.UUID, req *ScholarshipRequest) (*models.Scholarship, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		return nil, errors.New("deadline must be in YYYY-MM-DD format")
	}

	var scholarship models.Scholarship
	if err := s.db.First(&scholarship, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	scholarship.Name = req.Name
	scholarship.Provider = req.Provider
	scholarship.Category = req.Category
	scholarship.Amount = req.Amount
	scholarship.Deadline = deadline
	scholarship.State = req.State
	scholarship.Type = req.Type
	scholarship.Description = req.Description
	scholarship.Eligibility = req.Eligibility

	if err := s.db.Save(&scholarship).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// ToggleStatus flips a scholarship between Active and Inactive. Existing
// applications keep flowing through the workflow either way.
func (s *ScholarshipService) ToggleStatus(id uuid.UUID) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	if err := s.db.First(&scholarship, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if scholarship.Status == models.ScholarshipStatusActive {
		scholarship.Status = models.ScholarshipStatusInactive
	} else {
		scholarship.Status = models.ScholarshipStatusActive
	}

	if err := s.db.Save(&scholarship).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

func (s *ScholarshipService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Scholarship{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ScholarshipService) GetByID(id uuid.UUID) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	if err := s.db.First(&scholarship, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &scholarship, nil
}

// List returns scholarships matching the filters. The student listing sets
// ActiveOnly; the admin listing sees everything.
func (s *ScholarshipService) List(filters ScholarshipFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Scholarship{})

	if filters.ActiveOnly {
		query = query.Where("status = ? AND deadline > ?", models.ScholarshipStatusActive, time.Now())
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.State != "" {
		query = query.Where("state = ?", filters.State)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(provider) LIKE LOWER(?)",
			"%"+filters.Search+"%", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var scholarships []models.Scholarship
	err := utils.ApplySort(utils.ApplyPagination(query, params), params, []string{"created_at", "deadline", "amount", "name"}).
		Find(&scholarships).Error
	if err != nil {
		return nil, err
	}

	result := utils.CreatePaginationResult(scholarships, total, params)
	return &result, nil
}
