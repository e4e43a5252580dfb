// internal/services/application_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/utils"
)

type ApplicationServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	service     *ApplicationService
	student     *models.User
	scholarship *models.Scholarship
}

func (suite *ApplicationServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewApplicationService(suite.db, nil)
	suite.student = createTestStudent(suite.T(), suite.db, "asha")
	suite.scholarship = createTestScholarship(suite.T(), suite.db, "Merit Scholarship 2026")
}

func (suite *ApplicationServiceTestSuite) apply() *models.Application {
	app, err := suite.service.Apply(suite.student.ID, validApplyRequest(suite.scholarship.ID))
	suite.Require().NoError(err)
	return app
}

func (suite *ApplicationServiceTestSuite) TestApplyCreatesSubmittedWithSeededTimeline() {
	app := suite.apply()

	assert.Equal(suite.T(), models.StatusSubmitted, app.Status)

	entries, err := suite.service.GetTimeline(suite.student.ID, "student", app.ID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	assert.Equal(suite.T(), models.StatusSubmitted, entries[0].Status)
	assert.Nil(suite.T(), entries[0].Message)
}

func (suite *ApplicationServiceTestSuite) TestApplyRejectsDuplicate() {
	suite.apply()

	_, err := suite.service.Apply(suite.student.ID, validApplyRequest(suite.scholarship.ID))
	assert.ErrorIs(suite.T(), err, ErrDuplicate)
}

func (suite *ApplicationServiceTestSuite) TestApplyRejectsClosedScholarship() {
	closed := createTestScholarship(suite.T(), suite.db, "Expired Scholarship")
	suite.db.Model(closed).Update("deadline", time.Now().AddDate(0, 0, -1))

	_, err := suite.service.Apply(suite.student.ID, validApplyRequest(closed.ID))
	assert.ErrorIs(suite.T(), err, ErrInvalidState)
}

func (suite *ApplicationServiceTestSuite) TestApplyUnknownScholarship() {
	req := validApplyRequest(uuid.New())
	_, err := suite.service.Apply(suite.student.ID, req)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ApplicationServiceTestSuite) TestFullReviewFlowAppendsTimeline() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.StatusUnderReview, "")
	suite.Require().NoError(err)

	updated, err := suite.service.TransitionStatus(app.ID, models.StatusApproved, "Documents verified")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusApproved, updated.Status)

	entries, err := suite.service.GetTimeline(suite.student.ID, "student", app.ID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)

	// Oldest first, last entry matches current status.
	assert.Equal(suite.T(), models.StatusSubmitted, entries[0].Status)
	assert.Equal(suite.T(), models.StatusUnderReview, entries[1].Status)
	assert.Equal(suite.T(), models.StatusApproved, entries[2].Status)
	suite.Require().NotNil(entries[2].Message)
	assert.Equal(suite.T(), "Documents verified", *entries[2].Message)
}

func (suite *ApplicationServiceTestSuite) TestDirectApprovalFromSubmitted() {
	app := suite.apply()

	updated, err := suite.service.TransitionStatus(app.ID, models.StatusApproved, "")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusApproved, updated.Status)

	// The returned row carries the appended timeline entry.
	suite.Require().Len(updated.Timeline, 2)
	assert.Equal(suite.T(), models.StatusApproved, updated.Timeline[1].Status)
}

func (suite *ApplicationServiceTestSuite) TestTransitionOutOfTerminalStateFails() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.StatusRejected, "Incomplete")
	suite.Require().NoError(err)

	_, err = suite.service.TransitionStatus(app.ID, models.StatusApproved, "")
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)

	// The failed attempt must leave no trace in the timeline.
	entries, err := suite.service.GetTimeline(suite.student.ID, "student", app.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), entries, 2)
}

func (suite *ApplicationServiceTestSuite) TestBackwardTransitionFails() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.StatusUnderReview, "")
	suite.Require().NoError(err)

	_, err = suite.service.TransitionStatus(app.ID, models.StatusSubmitted, "")
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *ApplicationServiceTestSuite) TestUnknownStatusFails() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.ApplicationStatus("Archived"), "")
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *ApplicationServiceTestSuite) TestWithdraw() {
	app := suite.apply()

	updated, err := suite.service.Withdraw(suite.student.ID, app.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusWithdrawn, updated.Status)

	entries, err := suite.service.GetTimeline(suite.student.ID, "student", app.ID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	assert.Equal(suite.T(), models.StatusWithdrawn, entries[1].Status)
}

func (suite *ApplicationServiceTestSuite) TestWithdrawByNonOwnerForbidden() {
	app := suite.apply()
	other := createTestStudent(suite.T(), suite.db, "ravi")

	_, err := suite.service.Withdraw(other.ID, app.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *ApplicationServiceTestSuite) TestWithdrawAfterDecisionFails() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.StatusApproved, "")
	suite.Require().NoError(err)

	_, err = suite.service.Withdraw(suite.student.ID, app.ID)
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

// Two admins deciding the same application at once: the status-guarded
// UPDATE lets exactly one commit, the loser gets a conflict and leaves no
// timeline entry behind.
func (suite *ApplicationServiceTestSuite) TestConcurrentDecisionsExactlyOneWins() {
	app := suite.apply()

	targets := []models.ApplicationStatus{models.StatusApproved, models.StatusRejected}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range targets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = suite.service.TransitionStatus(app.ID, targets[i], "")
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
		}
	}
	assert.Equal(suite.T(), 1, winners)

	var reloaded models.Application
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", app.ID).Error)
	assert.True(suite.T(), reloaded.Status.Terminal())

	// One seed entry plus the single winning decision.
	entries, err := suite.service.GetTimeline(suite.student.ID, "student", app.ID)
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	assert.Equal(suite.T(), reloaded.Status, entries[1].Status)
}

func (suite *ApplicationServiceTestSuite) TestApproveAfterWithdrawFails() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.StatusUnderReview, "")
	suite.Require().NoError(err)
	_, err = suite.service.Withdraw(suite.student.ID, app.ID)
	suite.Require().NoError(err)

	_, err = suite.service.TransitionStatus(app.ID, models.StatusApproved, "")
	assert.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *ApplicationServiceTestSuite) TestUpdateWhilePending() {
	app := suite.apply()

	cgpa := 9.1
	bank := "Bank of Baroda"
	updated, err := suite.service.Update(suite.student.ID, app.ID, &UpdateApplicationRequest{
		CGPA:     &cgpa,
		BankName: &bank,
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 9.1, updated.CGPA)
	assert.Equal(suite.T(), "Bank of Baroda", updated.BankName)

	// Edits never touch the timeline.
	entries, err := suite.service.GetTimeline(suite.student.ID, "student", app.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), entries, 1)
}

func (suite *ApplicationServiceTestSuite) TestUpdateDuringReviewAllowed() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.StatusUnderReview, "")
	suite.Require().NoError(err)

	income := 150000.0
	_, err = suite.service.Update(suite.student.ID, app.ID, &UpdateApplicationRequest{Income: &income})
	assert.NoError(suite.T(), err)
}

func (suite *ApplicationServiceTestSuite) TestUpdateAfterDecisionFails() {
	app := suite.apply()

	_, err := suite.service.TransitionStatus(app.ID, models.StatusApproved, "")
	suite.Require().NoError(err)

	cgpa := 9.9
	_, err = suite.service.Update(suite.student.ID, app.ID, &UpdateApplicationRequest{CGPA: &cgpa})
	assert.ErrorIs(suite.T(), err, ErrInvalidState)

	var reloaded models.Application
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", app.ID).Error)
	assert.Equal(suite.T(), 8.4, reloaded.CGPA)
}

func (suite *ApplicationServiceTestSuite) TestUpdateByNonOwnerForbidden() {
	app := suite.apply()
	other := createTestStudent(suite.T(), suite.db, "ravi")

	cgpa := 9.9
	_, err := suite.service.Update(other.ID, app.ID, &UpdateApplicationRequest{CGPA: &cgpa})
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *ApplicationServiceTestSuite) TestTimelineAccessControl() {
	app := suite.apply()
	other := createTestStudent(suite.T(), suite.db, "ravi")

	_, err := suite.service.GetTimeline(other.ID, "student", app.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	// Admins can read any timeline.
	entries, err := suite.service.GetTimeline(other.ID, string(models.UserRoleAdmin), app.ID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 1)
}

func (suite *ApplicationServiceTestSuite) TestGetApplicationAccessControl() {
	app := suite.apply()
	other := createTestStudent(suite.T(), suite.db, "ravi")

	_, err := suite.service.GetApplication(other.ID, "student", app.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	got, err := suite.service.GetApplication(suite.student.ID, "student", app.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), app.ID, got.ID)
	suite.Require().NotNil(got.Scholarship)
	assert.Equal(suite.T(), suite.scholarship.Name, got.Scholarship.Name)
}

func (suite *ApplicationServiceTestSuite) TestReapplyAfterWithdraw() {
	app := suite.apply()

	_, err := suite.service.Withdraw(suite.student.ID, app.ID)
	suite.Require().NoError(err)

	// A withdrawn application does not block a fresh one.
	_, err = suite.service.Apply(suite.student.ID, validApplyRequest(suite.scholarship.ID))
	assert.NoError(suite.T(), err)
}

func (suite *ApplicationServiceTestSuite) TestListApplicationsFilters() {
	suite.apply()

	other := createTestStudent(suite.T(), suite.db, "ravi")
	req := validApplyRequest(suite.scholarship.ID)
	req.FullName = "Ravi Sharma"
	otherApp, err := suite.service.Apply(other.ID, req)
	suite.Require().NoError(err)

	_, err = suite.service.TransitionStatus(otherApp.ID, models.StatusApproved, "")
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20}

	result, err := suite.service.ListApplications(ApplicationFilters{Status: "Approved"}, params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, result.Total)

	result, err = suite.service.ListApplications(ApplicationFilters{Search: "asha"}, params)
	suite.Require().NoError(err)
	suite.Require().EqualValues(1, result.Total)

	result, err = suite.service.ListApplications(ApplicationFilters{Status: "Submitted", Search: "Ravi"}, params)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 0, result.Total)

	_, err = suite.service.ListApplications(ApplicationFilters{Status: "Bogus"}, params)
	assert.Error(suite.T(), err)
}

func (suite *ApplicationServiceTestSuite) TestGetMyApplications() {
	suite.apply()
	second := createTestScholarship(suite.T(), suite.db, "State Scholarship")
	_, err := suite.service.Apply(suite.student.ID, validApplyRequest(second.ID))
	suite.Require().NoError(err)

	result, err := suite.service.GetMyApplications(suite.student.ID, utils.PaginationParams{Page: 1, Limit: 20})
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 2, result.Total)
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}
