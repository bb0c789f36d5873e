// Package analytics implements the comparative and predictive financial
// analytics engine: period comparisons, entity-vs-market benchmarking,
// seasonal decomposition, trend forecasting, leaderboards and the composite
// financial health score. Every computation is a stateless projection over
// rows pulled from the ledger reader at call time.
package analytics

import (
	"context"
	"time"

	"agency-backoffice/database"
	"agency-backoffice/database/ledger"
	models "agency-backoffice/database/models_pkg"
)

// Metric selects the series a computation operates on.
type Metric string

// Supported metrics
const (
	MetricRevenue  Metric = "revenue"
	MetricProfit   Metric = "profit"
	MetricBookings Metric = "bookings"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricRevenue, MetricProfit, MetricBookings:
		return Metric(s), nil
	}
	return "", database.NewInvalidArgumentErrorWithValue("metric", "must be one of revenue, profit, bookings", s)
}

// Granularity is the calendar period size for bucketing.
type Granularity string

// Supported granularities
const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// ParseGranularity validates a granularity name. An unknown value is an
// InvalidArgument error; there is no silent fallback to month.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear:
		return Granularity(s), nil
	}
	return "", database.NewInvalidArgumentErrorWithValue("granularity", "must be one of day, week, month, quarter, year", s)
}

// EntityType distinguishes the two poles of a booking.
type EntityType string

// Supported entity types
const (
	EntityClient EntityType = "client"
	EntityDJ     EntityType = "dj"
)

// ParseEntityType validates an entity type name.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityClient, EntityDJ:
		return EntityType(s), nil
	}
	return "", database.NewInvalidArgumentErrorWithValue("entityType", "must be one of client, dj", s)
}

// DateRange is an inclusive date window.
type DateRange struct {
	From time.Time
	To   time.Time
}

// PeriodBucket is one calendar period's aggregate view of the ledger.
// Ratio fields are nil when their denominator is zero; they are never
// NaN or infinite.
type PeriodBucket struct {
	PeriodKey   string    `json:"period_key"`
	PeriodLabel string    `json:"period_label"`
	Index       int       `json:"index"`
	PeriodStart time.Time `json:"period_start"`

	Bookings         int      `json:"bookings"`
	DistinctClients  int      `json:"distinct_clients"`
	DistinctDJs      int      `json:"distinct_djs"`
	Revenue          float64  `json:"revenue"`
	AvgRevenue       float64  `json:"avg_revenue"`
	CollectedRevenue float64  `json:"collected_revenue"`
	CollectionRate   *float64 `json:"collection_rate"`
	Cost             float64  `json:"cost"`
	AvgCost          float64  `json:"avg_cost"`
	Profit           float64  `json:"profit"`
	ProfitMargin     *float64 `json:"profit_margin"`

	// GrowthPct compares the selected metric against the immediately
	// preceding bucket. It is nil for the first bucket and whenever the
	// previous value is not strictly positive.
	GrowthPct *float64 `json:"growth_pct"`
}

// MarketBaseline carries the mean and median of each lifetime metric across
// all entities of one type that have at least one transaction.
type MarketBaseline struct {
	EntityType        EntityType `json:"entity_type"`
	ActiveEntityCount int        `json:"active_entity_count"`
	MeanRevenue       float64    `json:"mean_revenue"`
	MedianRevenue     float64    `json:"median_revenue"`
	MeanBookings      float64    `json:"mean_bookings"`
	MedianBookings    float64    `json:"median_bookings"`
	MeanProfit        float64    `json:"mean_profit"`
	MedianProfit      float64    `json:"median_profit"`
}

// EntityProfile is the lifetime aggregate view of one client or DJ, with
// comparison deltas against the market baseline of its type.
type EntityProfile struct {
	EntityID   int64      `json:"entity_id"`
	EntityName string     `json:"entity_name"`
	EntityType EntityType `json:"entity_type"`

	Bookings         int        `json:"bookings"`
	Revenue          float64    `json:"revenue"`
	AvgRevenue       float64    `json:"avg_revenue"`
	CollectedRevenue float64    `json:"collected_revenue"`
	CollectionRate   *float64   `json:"collection_rate"`
	Cost             float64    `json:"cost"`
	Profit           float64    `json:"profit"`
	ProfitMargin     *float64   `json:"profit_margin"`
	Hours            float64    `json:"hours"`
	FirstActivity    *time.Time `json:"first_activity"`
	LastActivity     *time.Time `json:"last_activity"`

	// Rank is 1-based. Two entities with equal revenue share the same
	// count-based rank; ties are not deduplicated into a dense ranking.
	Rank int `json:"rank"`

	RevenueVsMarketPct  *float64        `json:"revenue_vs_market_pct"`
	BookingsVsMarketPct *float64        `json:"bookings_vs_market_pct"`
	ProfitVsMarketPct   *float64        `json:"profit_vs_market_pct"`
	Market              *MarketBaseline `json:"market,omitempty"`
}

// Season groups calendar months for the seasonal report.
type Season string

// Seasons, Northern-hemisphere convention. The month mapping is a fixed
// business decision, not user-configurable.
const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonAutumn Season = "Autumn"
	SeasonWinter Season = "Winter"
)

// SeasonOrder is the display order of the seasonal report.
var SeasonOrder = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

// SeasonForMonth maps a calendar month to its season:
// {12,1,2} Winter, {3,4,5} Spring, {6,7,8} Summer, {9,10,11} Autumn.
func SeasonForMonth(month time.Month) Season {
	switch month {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// SeasonalProfile carries the cross-year statistics of one calendar month.
// Standard deviations are sample stddevs and are 0 when only one year of
// data exists for the month.
type SeasonalProfile struct {
	Month         time.Month `json:"month"`
	MonthLabel    string     `json:"month_label"`
	Season        Season     `json:"season"`
	YearsObserved int        `json:"years_observed"`

	MeanRevenue    float64 `json:"mean_revenue"`
	StdDevRevenue  float64 `json:"stddev_revenue"`
	MeanBookings   float64 `json:"mean_bookings"`
	StdDevBookings float64 `json:"stddev_bookings"`
	MeanProfit     float64 `json:"mean_profit"`
	StdDevProfit   float64 `json:"stddev_profit"`
}

// ForecastPoint kinds
const (
	PointHistorical = "historical"
	PointForecast   = "forecast"
)

// ForecastPoint is one element of a predicted monthly series. Historical
// points carry the observed value and its residual against the fitted line;
// future points carry the prediction only.
type ForecastPoint struct {
	PeriodKey string   `json:"period_key"`
	Kind      string   `json:"kind"`
	Actual    *float64 `json:"actual"`
	Predicted float64  `json:"predicted"`
	Residual  *float64 `json:"residual"`
}

// OverviewSnapshot is the pre-aggregated totals input to the health scorer,
// produced by the overview provider (or any other collaborator).
type OverviewSnapshot struct {
	TotalRevenue     float64  `json:"total_revenue"`
	CollectedRevenue float64  `json:"collected_revenue"`
	PendingRevenue   float64  `json:"pending_revenue"`
	TotalCost        float64  `json:"total_cost"`
	TotalProfit      float64  `json:"total_profit"`
	CollectionRate   *float64 `json:"collection_rate"`
	ProfitMargin     *float64 `json:"profit_margin"`
	Bookings         int64    `json:"bookings"`
}

// Deduction is one applied step of the health score's deduction ladder.
type Deduction struct {
	Reason  string `json:"reason"`
	Trigger string `json:"trigger"`
	Points  int    `json:"points"`
}

// HealthScore is the composite 0-100 financial health indicator.
type HealthScore struct {
	Score      int         `json:"score"`
	Deductions []Deduction `json:"deductions"`
}

// Ledger is the read-only transaction source the engine pulls from. The
// database/ledger repository satisfies it; tests use an in-memory fake.
type Ledger interface {
	Transactions(ctx context.Context, f ledger.Filter) ([]models.BookingTransaction, error)
	Clients(ctx context.Context) ([]models.Client, error)
	DJs(ctx context.Context) ([]models.DJ, error)
}
