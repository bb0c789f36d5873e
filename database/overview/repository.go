// Package overview produces the pre-aggregated financial totals consumed by
// the health scorer and the dashboard. The aggregation runs inside the
// database so the snapshot stays cheap even on a large ledger.
package overview

import (
	"context"
	"time"

	"agency-backoffice/analytics"
	"agency-backoffice/database"
	models "agency-backoffice/database/models_pkg"
)

// Repository handles read-only aggregate queries over the booking ledger
type Repository struct {
	db *database.Database
}

// NewRepository creates a new overview repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// overviewRow receives the single aggregate row scanned from the ledger.
type overviewRow struct {
	TotalRevenue     float64
	CollectedRevenue float64
	TotalCost        float64
	Bookings         int64
	CollectedCount   int64
}

// Snapshot aggregates the ledger into the overview totals. A nil range means
// all time; the range is inclusive on both ends. An empty ledger yields a
// zero snapshot with nil rates, not an error.
func (r *Repository) Snapshot(ctx context.Context, from, to *time.Time) (*analytics.OverviewSnapshot, error) {
	query := r.db.DB().WithContext(ctx).
		Model(&models.BookingTransaction{}).
		Select(`
			COALESCE(SUM(total_amount), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN collected_from_client THEN total_amount ELSE 0 END), 0) AS collected_revenue,
			COALESCE(SUM(dj_share), 0) AS total_cost,
			COUNT(*) AS bookings,
			COUNT(*) FILTER (WHERE collected_from_client) AS collected_count`)

	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	var row overviewRow
	if err := query.Scan(&row).Error; err != nil {
		return nil, database.WrapReadError("Snapshot", err)
	}

	snapshot := &analytics.OverviewSnapshot{
		TotalRevenue:     row.TotalRevenue,
		CollectedRevenue: row.CollectedRevenue,
		PendingRevenue:   row.TotalRevenue - row.CollectedRevenue,
		TotalCost:        row.TotalCost,
		TotalProfit:      row.TotalRevenue - row.TotalCost,
		Bookings:         row.Bookings,
	}
	if row.TotalRevenue > 0 {
		margin := (row.TotalRevenue - row.TotalCost) / row.TotalRevenue * 100
		snapshot.ProfitMargin = &margin
	}
	if row.Bookings > 0 {
		rate := float64(row.CollectedCount) / float64(row.Bookings) * 100
		snapshot.CollectionRate = &rate
	}
	return snapshot, nil
}
