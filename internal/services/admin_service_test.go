// internal/services/admin_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/utils"
)

type AdminServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AdminService
}

func (suite *AdminServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewAdminService(suite.db)
}

func (suite *AdminServiceTestSuite) TestDashboardStats() {
	student := createTestStudent(suite.T(), suite.db, "asha")
	scholarship := createTestScholarship(suite.T(), suite.db, "Merit Scholarship")

	applicationService := NewApplicationService(suite.db, nil)
	app, err := applicationService.Apply(student.ID, validApplyRequest(scholarship.ID))
	suite.Require().NoError(err)
	_, err = applicationService.TransitionStatus(app.ID, models.StatusApproved, "")
	suite.Require().NoError(err)

	other := createTestStudent(suite.T(), suite.db, "ravi")
	second := createTestScholarship(suite.T(), suite.db, "State Scholarship")
	_, err = applicationService.Apply(other.ID, validApplyRequest(second.ID))
	suite.Require().NoError(err)

	stats, err := suite.service.GetDashboardStats()
	suite.Require().NoError(err)

	assert.EqualValues(suite.T(), 2, stats.TotalApplications)
	assert.EqualValues(suite.T(), 1, stats.ByStatus[models.StatusApproved])
	assert.EqualValues(suite.T(), 1, stats.ByStatus[models.StatusSubmitted])
	assert.EqualValues(suite.T(), 0, stats.ByStatus[models.StatusRejected])
	assert.EqualValues(suite.T(), 2, stats.TotalScholarships)
	assert.EqualValues(suite.T(), 2, stats.TotalStudents)
	assert.Equal(suite.T(), 50000.0, stats.ApprovedAmount)
}

func (suite *AdminServiceTestSuite) TestListUsersSearch() {
	createTestStudent(suite.T(), suite.db, "asha")
	createTestStudent(suite.T(), suite.db, "ravi")

	params := utils.PaginationParams{Page: 1, Limit: 20}

	result, err := suite.service.ListUsers("", params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 2, result.Total)

	result, err = suite.service.ListUsers("ASHA", params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, result.Total)
}

func (suite *AdminServiceTestSuite) TestSetUserStatus() {
	student := createTestStudent(suite.T(), suite.db, "asha")

	blocked, err := suite.service.SetUserStatus(student.ID, models.UserStatusBlocked)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.UserStatusBlocked, blocked.Status)

	_, err = suite.service.SetUserStatus(uuid.New(), models.UserStatusActive)
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	_, err = suite.service.SetUserStatus(student.ID, models.UserStatus("suspended"))
	assert.ErrorIs(suite.T(), err, ErrInvalidState)
}

func (suite *AdminServiceTestSuite) TestCannotBlockAdmin() {
	admin := &models.User{
		Username: "root",
		Email:    "root@example.com",
		Role:     models.UserRoleAdmin,
		Status:   models.UserStatusActive,
	}
	suite.Require().NoError(admin.SetPassword("AdminPass1"))
	suite.Require().NoError(suite.db.Create(admin).Error)

	_, err := suite.service.SetUserStatus(admin.ID, models.UserStatusBlocked)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	assert.ErrorIs(suite.T(), suite.service.DeleteUser(admin.ID), ErrForbidden)
}

func (suite *AdminServiceTestSuite) TestUpdateUser() {
	student := createTestStudent(suite.T(), suite.db, "asha")
	other := createTestStudent(suite.T(), suite.db, "ravi")

	email := "asha.new@example.com"
	phone := "9876500000"
	updated, err := suite.service.UpdateUser(student.ID, &UpdateUserRequest{Email: &email, Phone: &phone})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), email, updated.Email)
	assert.Equal(suite.T(), phone, updated.Phone)

	taken := other.Email
	_, err = suite.service.UpdateUser(student.ID, &UpdateUserRequest{Email: &taken})
	assert.ErrorIs(suite.T(), err, ErrDuplicate)
}

func (suite *AdminServiceTestSuite) TestDeleteUser() {
	student := createTestStudent(suite.T(), suite.db, "asha")

	suite.Require().NoError(suite.service.DeleteUser(student.ID))

	var count int64
	suite.db.Model(&models.User{}).Where("id = ?", student.ID).Count(&count)
	assert.EqualValues(suite.T(), 0, count)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
