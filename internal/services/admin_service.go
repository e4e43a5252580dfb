// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/utils"
)

// AdminService covers the admin portal surfaces outside the application
// workflow itself: the dashboard and user management.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type DashboardStats struct {
	TotalApplications int64                              `json:"total_applications"`
	ByStatus          map[models.ApplicationStatus]int64 `json:"by_status"`
	TotalScholarships int64                              `json:"total_scholarships"`
	ActiveScholars    int64                              `json:"active_scholarships"`
	TotalStudents     int64                              `json:"total_students"`
	ApprovedAmount    float64                            `json:"approved_amount"`
}

// GetDashboardStats aggregates the counters shown on the admin landing
// page. A missing status appears with a zero count.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		ByStatus: map[models.ApplicationStatus]int64{
			models.StatusSubmitted:   0,
			models.StatusUnderReview: 0,
			models.StatusApproved:    0,
			models.StatusRejected:    0,
			models.StatusWithdrawn:   0,
		},
	}

	var applications []models.Application
	if err := s.db.Select("status").Find(&applications).Error; err != nil {
		return nil, err
	}
	stats.TotalApplications = int64(len(applications))
	for status, count := range CountByStatus(applications) {
		stats.ByStatus[status] = int64(count)
	}

	if err := s.db.Model(&models.Scholarship{}).Count(&stats.TotalScholarships).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Scholarship{}).
		Where("status = ?", models.ScholarshipStatusActive).
		Count(&stats.ActiveScholars).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.UserRoleStudent).
		Count(&stats.TotalStudents).Error; err != nil {
		return nil, err
	}

	err := s.db.Model(&models.Application{}).
		Select("COALESCE(SUM(scholarships.amount), 0)").
		Joins("JOIN scholarships ON scholarships.id = applications.scholarship_id").
		Where("applications.status = ?", models.StatusApproved).
		Scan(&stats.ApprovedAmount).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// ListUsers returns student accounts, with optional username/email search.
func (s *AdminService) ListUsers(search string, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.User{}).Where("role = ?", models.UserRoleStudent)

	if search != "" {
		query = query.Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			"%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := utils.CreatePaginationResult(users, total, params)
	return &result, nil
}

// SetUserStatus blocks or unblocks a student account. Admin accounts
// cannot be blocked through this path.
func (s *AdminService) SetUserStatus(userID uuid.UUID, status models.UserStatus) (*models.User, error) {
	if status != models.UserStatusActive && status != models.UserStatusBlocked {
		return nil, fmt.Errorf("%w: unknown user status %q", ErrInvalidState, status)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := s.db.Model(&user).Update("status", status).Error; err != nil {
		return nil, err
	}
	user.Status = status
	return &user, nil
}

type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=10,max=15"`
}

// UpdateUser edits a student's contact details.
func (s *AdminService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.IsAdmin() {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		var taken int64
		s.db.Model(&models.User{}).Where("email = ? AND id != ?", *req.Email, userID).Count(&taken)
		if taken > 0 {
			return nil, fmt.Errorf("%w: email already in use", ErrDuplicate)
		}
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser soft-deletes a student account. Their applications stay for
// the audit trail.
func (s *AdminService) DeleteUser(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.IsAdmin() {
		return ErrForbidden
	}

	return s.db.Delete(&user).Error
}
