// internal/services/application_filter.go
package services

import (
	"strings"

	"github.com/scholartrack/backend/internal/models"
)

// FilterApplications narrows a slice the way the admin review table does:
// exact status match and case-insensitive substring match on the applicant
// name, combined with AND. Empty criteria match everything and the input
// order is preserved. Pure function, used for in-memory result sets.
func FilterApplications(apps []models.Application, status models.ApplicationStatus, search string) []models.Application {
	if status == "" && search == "" {
		return apps
	}

	needle := strings.ToLower(search)
	filtered := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if status != "" && app.Status != status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(app.FullName), needle) {
			continue
		}
		filtered = append(filtered, app)
	}
	return filtered
}

// CountByStatus tallies applications per workflow status, for the admin
// dashboard cards.
func CountByStatus(apps []models.Application) map[models.ApplicationStatus]int {
	counts := make(map[models.ApplicationStatus]int)
	for _, app := range apps {
		counts[app.Status]++
	}
	return counts
}
