// Package alerts exposes the alert-count provider consumed by the health
// scorer. Alert creation and resolution happen elsewhere in the back office.
package alerts

import (
	"context"

	"agency-backoffice/database"
	models "agency-backoffice/database/models_pkg"
)

// Repository handles database operations for operational alerts
type Repository struct {
	db *database.Database
}

// NewRepository creates a new alerts repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// CountUnresolvedCritical returns the number of open critical alerts.
func (r *Repository) CountUnresolvedCritical(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.DB().WithContext(ctx).
		Model(&models.OperationalAlert{}).
		Where("severity = ? AND resolved = ?", models.AlertSeverityCritical, false).
		Count(&count).Error
	if err != nil {
		return 0, database.WrapReadError("CountUnresolvedCritical", err)
	}
	return count, nil
}

// CountUnresolvedBySeverity returns open alert counts keyed by severity.
func (r *Repository) CountUnresolvedBySeverity(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Severity string
		Total    int64
	}
	err := r.db.DB().WithContext(ctx).
		Model(&models.OperationalAlert{}).
		Select("severity, COUNT(*) as total").
		Where("resolved = ?", false).
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, database.WrapReadError("CountUnresolvedBySeverity", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Severity] = row.Total
	}
	return counts, nil
}
