// internal/services/scholarship_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/utils"
)

type ScholarshipServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ScholarshipService
}

func (suite *ScholarshipServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewScholarshipService(suite.db)
}

func (suite *ScholarshipServiceTestSuite) validRequest() *ScholarshipRequest {
	return &ScholarshipRequest{
		Name:     "National Merit Scholarship",
		Provider: "Ministry of Education",
		Category: "Merit",
		Amount:   75000,
		Deadline: time.Now().AddDate(0, 2, 0).Format("2006-01-02"),
		State:    "All India",
		Type:     "National",
	}
}

func (suite *ScholarshipServiceTestSuite) TestCreate() {
	scholarship, err := suite.service.Create(suite.validRequest())
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.ScholarshipStatusActive, scholarship.Status)
	assert.NotEqual(suite.T(), uuid.Nil, scholarship.ID)
}

func (suite *ScholarshipServiceTestSuite) TestCreateRejectsBadDeadline() {
	req := suite.validRequest()
	req.Deadline = "31-12-2026"
	_, err := suite.service.Create(req)
	assert.Error(suite.T(), err)
}

func (suite *ScholarshipServiceTestSuite) TestUpdate() {
	scholarship, err := suite.service.Create(suite.validRequest())
	suite.Require().NoError(err)

	req := suite.validRequest()
	req.Amount = 100000
	updated, err := suite.service.Update(scholarship.ID, req)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 100000.0, updated.Amount)
}

func (suite *ScholarshipServiceTestSuite) TestUpdateNotFound() {
	_, err := suite.service.Update(uuid.New(), suite.validRequest())
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ScholarshipServiceTestSuite) TestToggleStatus() {
	scholarship, err := suite.service.Create(suite.validRequest())
	suite.Require().NoError(err)

	toggled, err := suite.service.ToggleStatus(scholarship.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.ScholarshipStatusInactive, toggled.Status)

	toggled, err = suite.service.ToggleStatus(scholarship.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.ScholarshipStatusActive, toggled.Status)
}

func (suite *ScholarshipServiceTestSuite) TestDelete() {
	scholarship, err := suite.service.Create(suite.validRequest())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Delete(scholarship.ID))

	_, err = suite.service.GetByID(scholarship.ID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)

	assert.ErrorIs(suite.T(), suite.service.Delete(uuid.New()), ErrNotFound)
}

func (suite *ScholarshipServiceTestSuite) TestListActiveOnlyHidesClosedAndInactive() {
	open, err := suite.service.Create(suite.validRequest())
	suite.Require().NoError(err)

	expired := suite.validRequest()
	expired.Name = "Expired Scholarship"
	expiredScholarship, err := suite.service.Create(expired)
	suite.Require().NoError(err)
	suite.db.Model(expiredScholarship).Update("deadline", time.Now().AddDate(0, 0, -1))

	inactive := suite.validRequest()
	inactive.Name = "Paused Scholarship"
	inactiveScholarship, err := suite.service.Create(inactive)
	suite.Require().NoError(err)
	_, err = suite.service.ToggleStatus(inactiveScholarship.ID)
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	result, err := suite.service.List(ScholarshipFilters{ActiveOnly: true}, params)
	suite.Require().NoError(err)
	suite.Require().EqualValues(1, result.Total)

	scholarships := result.Data.([]models.Scholarship)
	assert.Equal(suite.T(), open.ID, scholarships[0].ID)

	// Admin view sees everything.
	result, err = suite.service.List(ScholarshipFilters{}, params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 3, result.Total)
}

func (suite *ScholarshipServiceTestSuite) TestListFilters() {
	first := suite.validRequest()
	_, err := suite.service.Create(first)
	suite.Require().NoError(err)

	second := suite.validRequest()
	second.Name = "SC/ST State Scholarship"
	second.Category = "Need-based"
	second.State = "Karnataka"
	_, err = suite.service.Create(second)
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	result, err := suite.service.List(ScholarshipFilters{Category: "Merit"}, params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, result.Total)

	result, err = suite.service.List(ScholarshipFilters{State: "Karnataka"}, params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, result.Total)

	result, err = suite.service.List(ScholarshipFilters{Search: "state"}, params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, result.Total)
}

func TestScholarshipServiceSuite(t *testing.T) {
	suite.Run(t, new(ScholarshipServiceTestSuite))
}
