// Package ledger is the read-only adapter over the booking transaction
// ledger. Every analytics computation pulls its rows through this package;
// nothing here ever writes.
package ledger

import (
	"context"
	"errors"
	"time"

	"agency-backoffice/database"
	models "agency-backoffice/database/models_pkg"

	"gorm.io/gorm"
)

// Filter narrows a ledger read. Predicates are first-class values translated
// to parameterized WHERE clauses; filter input never reaches the SQL text.
// Zero values mean "no constraint". The date range is inclusive on both ends.
type Filter struct {
	From       *time.Time
	To         *time.Time
	ClientID   int64
	DJID       int64
	CategoryID int64
}

// Repository handles read-only database operations on the booking ledger
type Repository struct {
	db *database.Database
}

// NewRepository creates a new ledger repository
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Transactions returns ledger rows matching the filter, ordered by date then
// id ascending so repeated reads of an unchanged ledger are bit-identical.
// The caller's context is propagated into the query; cancellation or deadline
// expiry surfaces as DataUnavailable.
func (r *Repository) Transactions(ctx context.Context, f Filter) ([]models.BookingTransaction, error) {
	query := r.db.DB().WithContext(ctx).Order("date ASC, id ASC")

	if f.From != nil {
		query = query.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("date <= ?", *f.To)
	}
	if f.ClientID > 0 {
		query = query.Where("client_id = ?", f.ClientID)
	}
	if f.DJID > 0 {
		query = query.Where("dj_id = ?", f.DJID)
	}
	if f.CategoryID > 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}

	var txns []models.BookingTransaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, database.WrapReadError("Transactions", err)
	}
	return txns, nil
}

// Clients returns the full client population ordered by id.
func (r *Repository) Clients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.DB().WithContext(ctx).Order("id ASC").Find(&clients).Error; err != nil {
		return nil, database.WrapReadError("Clients", err)
	}
	return clients, nil
}

// DJs returns the full DJ roster ordered by id.
func (r *Repository) DJs(ctx context.Context) ([]models.DJ, error) {
	var djs []models.DJ
	if err := r.db.DB().WithContext(ctx).Order("id ASC").Find(&djs).Error; err != nil {
		return nil, database.WrapReadError("DJs", err)
	}
	return djs, nil
}

// ClientByID retrieves a single client. A missing row is NotFound, not a
// read failure.
func (r *Repository) ClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := r.db.DB().WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.NewNotFoundErrorWithID("client", id)
		}
		return nil, database.WrapReadError("ClientByID", err)
	}
	return &client, nil
}

// DJByID retrieves a single DJ.
func (r *Repository) DJByID(ctx context.Context, id int64) (*models.DJ, error) {
	var dj models.DJ
	err := r.db.DB().WithContext(ctx).Where("id = ?", id).First(&dj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.NewNotFoundErrorWithID("dj", id)
		}
		return nil, database.WrapReadError("DJByID", err)
	}
	return &dj, nil
}
