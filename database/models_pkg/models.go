package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingTransaction represents one line of the agency's booking ledger.
// The ledger is append-only: rows are written by the booking workflow and
// the analytics engine only ever reads them.
//
// Key Fields:
//   - Date: when the event took place (indexed for period bucketing)
//   - ClientID/DJID: the two poles of the booking (indexed for entity queries)
//   - TotalAmount: full invoice value of the booking
//   - DJShare/AgencyShare: the split of TotalAmount; the sum is expected to
//     equal TotalAmount but is not enforced here (validation belongs to the
//     ledger-write path)
//   - CollectedFromClient/PaidToDJ: settlement flags driving collection-rate
//     and receivables metrics
type BookingTransaction struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Date                time.Time       `gorm:"index;not null" json:"date"`
	ClientID            int64           `gorm:"index;not null" json:"client_id"`
	DJID                int64           `gorm:"index;not null" json:"dj_id"`
	TotalAmount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	DJShare             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"dj_share"`
	AgencyShare         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"agency_share"`
	Hours               float64         `gorm:"type:numeric(5,2)" json:"hours"`
	CollectedFromClient bool            `gorm:"not null;default:false" json:"collected_from_client"`
	PaidToDJ            bool            `gorm:"not null;default:false" json:"paid_to_dj"`
	CategoryID          *int64          `gorm:"index" json:"category_id,omitempty"`
}

// TableName specifies the table name for BookingTransaction
func (BookingTransaction) TableName() string {
	return "booking_transactions"
}

// Client represents a booking client. The client table defines the entity
// population for client-side benchmarking: an id absent here is NotFound,
// while a client present here with zero transactions is simply inactive.
type Client struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// DJ represents a performer on the agency roster.
type DJ struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for DJ
func (DJ) TableName() string {
	return "djs"
}

// Alert severity levels
const (
	AlertSeverityCritical = "critical"
	AlertSeverityWarning  = "warning"
	AlertSeverityInfo     = "info"
)

// OperationalAlert represents an alert raised by the back-office monitoring
// jobs (overdue collections, unpaid DJ balances, data quality issues). The
// health scorer only consumes the count of unresolved critical alerts.
type OperationalAlert struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Severity  string    `gorm:"size:16;index;not null" json:"severity"`
	Message   string    `gorm:"size:255" json:"message"`
	Resolved  bool      `gorm:"index;not null;default:false" json:"resolved"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for OperationalAlert
func (OperationalAlert) TableName() string {
	return "operational_alerts"
}
