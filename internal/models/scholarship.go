// internal/models/scholarship.go
package models

import "time"

// Scholarship is a funding opportunity managed by the admin portal. Its
// lifecycle is plain CRUD; applications reference it immutably.
type Scholarship struct {
	BaseModel
	Name        string            `json:"name" gorm:"size:255;not null"`
	Provider    string            `json:"provider" gorm:"size:255"`
	Category    string            `json:"category" gorm:"size:100;index"`
	Amount      float64           `json:"amount" gorm:"type:decimal(12,2);not null"`
	Deadline    time.Time         `json:"deadline" gorm:"not null;index"`
	State       string            `json:"state" gorm:"size:100;index"`
	Type        string            `json:"type" gorm:"size:50"`
	Description string            `json:"description" gorm:"type:text"`
	Eligibility string            `json:"eligibility" gorm:"type:text"`
	Status      ScholarshipStatus `json:"status" gorm:"type:varchar(20);default:'Active';index"`

	// Relationships
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:ScholarshipID"`
}

// Open reports whether students can still apply.
func (s *Scholarship) Open(now time.Time) bool {
	return s.Status == ScholarshipStatusActive && now.Before(s.Deadline)
}
