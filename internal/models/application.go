// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ApplicationStatus is the closed set of workflow states. The string values
// are the exact labels both portals render.
type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "Submitted"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusApproved    ApplicationStatus = "Approved"
	StatusRejected    ApplicationStatus = "Rejected"
	StatusWithdrawn   ApplicationStatus = "Withdrawn"
)

// Actor identifies who is requesting a status transition. The transition
// table is scoped per actor: admins review, applicants withdraw.
type Actor string

const (
	ActorAdmin     Actor = "admin"
	ActorApplicant Actor = "applicant"
)

// transitions is the full edge set of the workflow. Terminal states have no
// entry: nothing ever leaves Approved, Rejected or Withdrawn.
var transitions = map[ApplicationStatus]map[Actor][]ApplicationStatus{
	StatusSubmitted: {
		ActorAdmin:     {StatusUnderReview, StatusApproved, StatusRejected},
		ActorApplicant: {StatusWithdrawn},
	},
	StatusUnderReview: {
		ActorAdmin:     {StatusApproved, StatusRejected},
		ActorApplicant: {StatusWithdrawn},
	},
}

// Valid reports whether s is one of the five workflow states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted out of s.
func (s ApplicationStatus) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Editable reports whether the applicant may still amend the submission.
func (s ApplicationStatus) Editable() bool {
	return s == StatusSubmitted || s == StatusUnderReview
}

// CanTransition reports whether actor may move an application from one
// status to another. It is total over the state set: unknown states and
// terminal states simply have no outgoing edges.
func CanTransition(from, to ApplicationStatus, actor Actor) bool {
	for _, target := range transitions[from][actor] {
		if target == to {
			return true
		}
	}
	return false
}

// Application is one student's submission against one scholarship. The
// payload fields mirror the apply form; user and scholarship references are
// immutable after creation, all mutation goes through the workflow service.
type Application struct {
	BaseModel
	UserID        uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	ScholarshipID uuid.UUID         `json:"scholarship_id" gorm:"type:uuid;not null;index"`
	Status        ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'Submitted';index"`

	// Personal details
	FullName string `json:"full_name" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;not null"`
	Mobile   string `json:"mobile" gorm:"size:20"`
	DOB      string `json:"dob" gorm:"size:10"`
	Gender   string `json:"gender" gorm:"size:10"`

	// Academic details
	Institution string  `json:"institution" gorm:"size:255"`
	Course      string  `json:"course" gorm:"size:100"`
	Year        string  `json:"year" gorm:"size:20"`
	CGPA        float64 `json:"cgpa" gorm:"type:decimal(4,2)"`

	// Family & financial details
	Income     float64 `json:"income" gorm:"type:decimal(12,2)"`
	FatherName string  `json:"father_name" gorm:"size:255"`
	Occupation string  `json:"occupation" gorm:"size:100"`

	// Address
	Address string `json:"address" gorm:"type:text"`
	State   string `json:"state" gorm:"size:100"`
	Pincode string `json:"pincode" gorm:"size:10"`

	// Bank details (mutable while pending)
	AccountHolder string `json:"account_holder" gorm:"size:255"`
	BankName      string `json:"bank_name" gorm:"size:255"`
	AccountNumber string `json:"account_number" gorm:"size:30"`
	IFSC          string `json:"ifsc" gorm:"size:15"`

	// Document URLs (mutable while pending)
	IDProofURL    string         `json:"id_proof_url,omitempty" gorm:"size:512"`
	IncomeCertURL string         `json:"income_cert_url,omitempty" gorm:"size:512"`
	BonafideURL   string         `json:"bonafide_url,omitempty" gorm:"size:512"`
	MarksheetURLs pq.StringArray `json:"marksheet_urls,omitempty" gorm:"type:text[]"`

	// Relationships
	User        User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Scholarship *Scholarship    `json:"scholarship,omitempty" gorm:"foreignKey:ScholarshipID"`
	Timeline    []TimelineEntry `json:"timeline,omitempty" gorm:"foreignKey:ApplicationID"`
}

// TimelineEntry is one row of the append-only status log. Rows are only ever
// inserted, inside the same transaction as the status update; the last entry
// for an application always matches its current status.
type TimelineEntry struct {
	ID            uuid.UUID         `json:"-" gorm:"type:uuid;primary_key"`
	ApplicationID uuid.UUID         `json:"-" gorm:"type:uuid;not null;index"`
	Status        ApplicationStatus `json:"status" gorm:"type:varchar(20);not null"`
	Message       *string           `json:"message" gorm:"type:text"`
	CreatedAt     time.Time         `json:"date"`
}

func (e *TimelineEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
