// internal/services/application_filter_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholartrack/backend/internal/models"
)

func filterFixture() []models.Application {
	return []models.Application{
		{FullName: "Asha Kumar", Status: models.StatusSubmitted},
		{FullName: "Ravi Sharma", Status: models.StatusApproved},
		{FullName: "Priya Sharma", Status: models.StatusSubmitted},
		{FullName: "John Doe", Status: models.StatusRejected},
	}
}

func TestFilterApplicationsNoCriteriaReturnsAll(t *testing.T) {
	apps := filterFixture()
	assert.Equal(t, apps, FilterApplications(apps, "", ""))
}

func TestFilterApplicationsByStatus(t *testing.T) {
	filtered := FilterApplications(filterFixture(), models.StatusSubmitted, "")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "Asha Kumar", filtered[0].FullName)
	assert.Equal(t, "Priya Sharma", filtered[1].FullName)
}

func TestFilterApplicationsBySearchCaseInsensitive(t *testing.T) {
	filtered := FilterApplications(filterFixture(), "", "SHARMA")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "Ravi Sharma", filtered[0].FullName)
	assert.Equal(t, "Priya Sharma", filtered[1].FullName)
}

func TestFilterApplicationsCombinedAnd(t *testing.T) {
	filtered := FilterApplications(filterFixture(), models.StatusSubmitted, "sharma")
	assert.Len(t, filtered, 1)
	assert.Equal(t, "Priya Sharma", filtered[0].FullName)
}

func TestFilterApplicationsPreservesOrder(t *testing.T) {
	apps := []models.Application{
		{FullName: "First", Status: models.StatusSubmitted},
		{FullName: "Second", Status: models.StatusApproved},
		{FullName: "Third", Status: models.StatusApproved},
		{FullName: "Fourth", Status: models.StatusRejected},
	}

	filtered := FilterApplications(apps, models.StatusApproved, "")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "Second", filtered[0].FullName)
	assert.Equal(t, "Third", filtered[1].FullName)
}

func TestFilterApplicationsNoMatch(t *testing.T) {
	filtered := FilterApplications(filterFixture(), models.StatusWithdrawn, "")
	assert.Empty(t, filtered)

	filtered = FilterApplications(filterFixture(), models.StatusApproved, "asha")
	assert.Empty(t, filtered)
}

func TestFilterApplicationsEmptyInput(t *testing.T) {
	assert.Empty(t, FilterApplications(nil, models.StatusSubmitted, ""))
	assert.Empty(t, FilterApplications([]models.Application{}, "", "x"))
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(filterFixture())
	assert.Equal(t, 2, counts[models.StatusSubmitted])
	assert.Equal(t, 1, counts[models.StatusApproved])
	assert.Equal(t, 1, counts[models.StatusRejected])
	assert.Equal(t, 0, counts[models.StatusWithdrawn])
}
