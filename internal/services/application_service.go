// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/utils"
)

// ApplicationService owns the application workflow: creation, the status
// state machine, the append-only timeline and the edit-while-pending rule.
type ApplicationService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

func NewApplicationService(db *gorm.DB, notificationService *NotificationService) *ApplicationService {
	return &ApplicationService{
		db:                  db,
		notificationService: notificationService,
	}
}

type ApplyRequest struct {
	ScholarshipID string `json:"scholarship_id" validate:"required,uuid"`

	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,min=10,max=15"`
	DOB      string `json:"dob" validate:"required"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`

	Institution string  `json:"institution" validate:"required,max=255"`
	Course      string  `json:"course" validate:"required,max=100"`
	Year        string  `json:"year" validate:"required,max=20"`
	CGPA        float64 `json:"cgpa" validate:"gte=0,lte=10"`

	Income     float64 `json:"income" validate:"gte=0"`
	FatherName string  `json:"father_name" validate:"max=255"`
	Occupation string  `json:"occupation" validate:"max=100"`

	Address string `json:"address" validate:"required"`
	State   string `json:"state" validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,pincode"`

	AccountHolder string `json:"account_holder" validate:"required,max=255"`
	BankName      string `json:"bank_name" validate:"required,max=255"`
	AccountNumber string `json:"account_number" validate:"required,min=9,max=18"`
	IFSC          string `json:"ifsc" validate:"required,ifsc"`

	IDProofURL    string   `json:"id_proof_url"`
	IncomeCertURL string   `json:"income_cert_url"`
	BonafideURL   string   `json:"bonafide_url"`
	MarksheetURLs []string `json:"marksheet_urls"`
}

// UpdateApplicationRequest carries the fields an applicant may amend while
// the application is still pending. Nil means leave unchanged.
type UpdateApplicationRequest struct {
	CGPA   *float64 `json:"cgpa" validate:"omitempty,gte=0,lte=10"`
	Income *float64 `json:"income" validate:"omitempty,gte=0"`

	AccountHolder *string `json:"account_holder" validate:"omitempty,max=255"`
	BankName      *string `json:"bank_name" validate:"omitempty,max=255"`
	AccountNumber *string `json:"account_number" validate:"omitempty,min=9,max=18"`
	IFSC          *string `json:"ifsc" validate:"omitempty,ifsc"`

	IDProofURL    *string   `json:"id_proof_url"`
	IncomeCertURL *string   `json:"income_cert_url"`
	BonafideURL   *string   `json:"bonafide_url"`
	MarksheetURLs *[]string `json:"marksheet_urls"`
}

type ApplicationFilters struct {
	Status string
	Search string
}

// Apply creates a new application in Submitted status with its first
// timeline entry. One live application per user and scholarship.
func (s *ApplicationService) Apply(userID uuid.UUID, req *ApplyRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	scholarshipID, err := uuid.Parse(req.ScholarshipID)
	if err != nil {
		return nil, fmt.Errorf("invalid scholarship id: %w", err)
	}

	var scholarship models.Scholarship
	if err := s.db.First(&scholarship, "id = ?", scholarshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !scholarship.Open(time.Now()) {
		return nil, fmt.Errorf("%w: scholarship is closed for applications", ErrInvalidState)
	}

	var existing int64
	s.db.Model(&models.Application{}).
		Where("user_id = ? AND scholarship_id = ? AND status != ?", userID, scholarshipID, models.StatusWithdrawn).
		Count(&existing)
	if existing > 0 {
		return nil, fmt.Errorf("%w: you have already applied for this scholarship", ErrDuplicate)
	}

	application := &models.Application{
		UserID:        userID,
		ScholarshipID: scholarshipID,
		Status:        models.StatusSubmitted,
		FullName:      req.FullName,
		Email:         req.Email,
		Mobile:        req.Mobile,
		DOB:           req.DOB,
		Gender:        req.Gender,
		Institution:   req.Institution,
		Course:        req.Course,
		Year:          req.Year,
		CGPA:          req.CGPA,
		Income:        req.Income,
		FatherName:    req.FatherName,
		Occupation:    req.Occupation,
		Address:       req.Address,
		State:         req.State,
		Pincode:       req.Pincode,
		AccountHolder: req.AccountHolder,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		IDProofURL:    req.IDProofURL,
		IncomeCertURL: req.IncomeCertURL,
		BonafideURL:   req.BonafideURL,
		MarksheetURLs: pq.StringArray(req.MarksheetURLs),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(application).Error; err != nil {
			return err
		}

		// Seed the timeline so an application always has at least one
		// entry and the last entry matches the current status.
		entry := &models.TimelineEntry{
			ApplicationID: application.ID,
			Status:        models.StatusSubmitted,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	application.Scholarship = &scholarship
	return application, nil
}

// TransitionStatus moves an application along an admin edge of the workflow
// and appends the matching timeline entry in the same transaction.
func (s *ApplicationService) TransitionStatus(applicationID uuid.UUID, to models.ApplicationStatus, message string) (*models.Application, error) {
	return s.transition(applicationID, to, models.ActorAdmin, message)
}

// Withdraw moves the caller's own application to Withdrawn.
func (s *ApplicationService) Withdraw(userID, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := s.db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if application.UserID != userID {
		return nil, ErrForbidden
	}

	return s.transition(applicationID, models.StatusWithdrawn, models.ActorApplicant, "")
}

// transition is the single write path for status changes. The UPDATE is
// guarded by the previous status so two concurrent decisions on the same
// application cannot both land: the loser matches zero rows.
func (s *ApplicationService) transition(applicationID uuid.UUID, to models.ApplicationStatus, actor models.Actor, message string) (*models.Application, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	var application models.Application
	if err := s.db.Preload("Scholarship").First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	from := application.Status
	if !models.CanTransition(from, to, actor) {
		return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, from, to)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", applicationID, from).
			Update("status", to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Another transition won the race since we loaded the row.
			return fmt.Errorf("%w: application status changed concurrently", ErrInvalidTransition)
		}

		entry := &models.TimelineEntry{
			ApplicationID: applicationID,
			Status:        to,
		}
		if message != "" {
			entry.Message = &message
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	// Return the row with the freshly appended timeline entry visible.
	err = s.db.Preload("Scholarship").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&application, "id = ?", applicationID).Error
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.NotifyStatusChange(&application, from, to, message)
	}

	logrus.WithFields(logrus.Fields{
		"application_id": applicationID,
		"from":           from,
		"to":             to,
		"actor":          actor,
	}).Info("Application status changed")

	return &application, nil
}

// Update amends the mutable fields of a pending application. Decided and
// withdrawn applications are frozen; edits never touch the timeline.
func (s *ApplicationService) Update(userID, applicationID uuid.UUID, req *UpdateApplicationRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var application models.Application
	if err := s.db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if application.UserID != userID {
		return nil, ErrForbidden
	}
	if !application.Status.Editable() {
		return nil, fmt.Errorf("%w: application is %s", ErrInvalidState, application.Status)
	}

	updates := map[string]interface{}{}
	if req.CGPA != nil {
		updates["cgpa"] = *req.CGPA
	}
	if req.Income != nil {
		updates["income"] = *req.Income
	}
	if req.AccountHolder != nil {
		updates["account_holder"] = *req.AccountHolder
	}
	if req.BankName != nil {
		updates["bank_name"] = *req.BankName
	}
	if req.AccountNumber != nil {
		updates["account_number"] = *req.AccountNumber
	}
	if req.IFSC != nil {
		updates["ifsc"] = *req.IFSC
	}
	if req.IDProofURL != nil {
		updates["id_proof_url"] = *req.IDProofURL
	}
	if req.IncomeCertURL != nil {
		updates["income_cert_url"] = *req.IncomeCertURL
	}
	if req.BonafideURL != nil {
		updates["bonafide_url"] = *req.BonafideURL
	}
	if req.MarksheetURLs != nil {
		updates["marksheet_urls"] = pq.StringArray(*req.MarksheetURLs)
	}

	if len(updates) == 0 {
		return &application, nil
	}

	// Re-check the status inside the WHERE so an edit racing a decision
	// cannot modify a frozen application.
	result := s.db.Model(&models.Application{}).
		Where("id = ? AND status IN ?", applicationID, []models.ApplicationStatus{models.StatusSubmitted, models.StatusUnderReview}).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: application is no longer editable", ErrInvalidState)
	}

	if err := s.db.First(&application, "id = ?", applicationID).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// GetApplication returns one application with its scholarship and ordered
// timeline. Students see only their own, admins see any.
func (s *ApplicationService) GetApplication(requesterID uuid.UUID, requesterRole string, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := s.db.Preload("Scholarship").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&application, "id = ?", applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if requesterRole != string(models.UserRoleAdmin) && application.UserID != requesterID {
		return nil, ErrForbidden
	}

	return &application, nil
}

// GetTimeline returns the append-only status history, oldest first.
func (s *ApplicationService) GetTimeline(requesterID uuid.UUID, requesterRole string, applicationID uuid.UUID) ([]models.TimelineEntry, error) {
	var application models.Application
	if err := s.db.Select("id", "user_id").First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if requesterRole != string(models.UserRoleAdmin) && application.UserID != requesterID {
		return nil, ErrForbidden
	}

	var entries []models.TimelineEntry
	err := s.db.Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

// GetMyApplications lists the caller's applications, newest first.
func (s *ApplicationService) GetMyApplications(userID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Application{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var applications []models.Application
	err := utils.ApplyPagination(query.Preload("Scholarship").Order("created_at DESC"), params).
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	result := utils.CreatePaginationResult(applications, total, params)
	return &result, nil
}

// ListApplications is the admin listing with status and applicant-name
// filtering, both optional and combined with AND. The review table filters
// the fetched set in memory, which keeps the filter semantics in one place
// and matches how the admin portal works over it.
func (s *ApplicationService) ListApplications(filters ApplicationFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	status := models.ApplicationStatus(filters.Status)
	if filters.Status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, filters.Status)
	}

	var applications []models.Application
	err := s.db.Preload("Scholarship").Preload("User").
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	filtered := FilterApplications(applications, status, filters.Search)

	start := (params.Page - 1) * params.Limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	result := utils.CreatePaginationResult(filtered[start:end], int64(len(filtered)), params)
	return &result, nil
}
