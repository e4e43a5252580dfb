// internal/services/testdb_test.go
package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scholartrack/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database exists per connection, so the pool must stay
	// at a single one or concurrent tests see empty databases.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Scholarship{},
		&models.Application{},
		&models.TimelineEntry{},
		&models.Notification{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func createTestStudent(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     models.UserRoleStudent,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("TestPass123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestScholarship(t *testing.T, db *gorm.DB, name string) *models.Scholarship {
	t.Helper()

	scholarship := &models.Scholarship{
		Name:     name,
		Provider: "Test Trust",
		Category: "Merit",
		Amount:   50000,
		Deadline: time.Now().AddDate(0, 1, 0),
		State:    "Maharashtra",
		Type:     "National",
		Status:   models.ScholarshipStatusActive,
	}
	require.NoError(t, db.Create(scholarship).Error)
	return scholarship
}

func validApplyRequest(scholarshipID uuid.UUID) *ApplyRequest {
	return &ApplyRequest{
		ScholarshipID: scholarshipID.String(),
		FullName:      "Asha Kumar",
		Email:         "asha@example.com",
		Mobile:        "9876543210",
		DOB:           "2003-06-15",
		Gender:        "female",
		Institution:   "Government College of Engineering",
		Course:        "B.Tech",
		Year:          "3",
		CGPA:          8.4,
		Income:        180000,
		FatherName:    "R Kumar",
		Occupation:    "Farmer",
		Address:       "12 MG Road",
		State:         "Maharashtra",
		Pincode:       "411001",
		AccountHolder: "Asha Kumar",
		BankName:      "State Bank of India",
		AccountNumber: "123456789012",
		IFSC:          "SBIN0001234",
	}
}
