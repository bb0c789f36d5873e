package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"agency-backoffice/database/ledger"
	models "agency-backoffice/database/models_pkg"

	"github.com/shopspring/decimal"
)

// periodStart truncates a date to the start of its calendar period.
// Week buckets start on Monday (ISO weeks).
func periodStart(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case GranularityWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case GranularityQuarter:
		quarterStartMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
		return time.Date(t.Year(), quarterStartMonth, 1, 0, 0, 0, 0, t.Location())
	case GranularityYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	default: // month
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
}

// periodKey renders the canonical sortable label for a period start.
func periodKey(start time.Time, g Granularity) string {
	switch g {
	case GranularityDay:
		return start.Format("2006-01-02")
	case GranularityWeek:
		isoYear, isoWeek := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", isoYear, isoWeek)
	case GranularityQuarter:
		q := (int(start.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", start.Year(), q)
	case GranularityYear:
		return start.Format("2006")
	default:
		return start.Format("2006-01")
	}
}

// periodLabel renders the display label for a period start.
func periodLabel(start time.Time, g Granularity) string {
	switch g {
	case GranularityDay:
		return start.Format("Jan 02, 2006")
	case GranularityWeek:
		return fmt.Sprintf("Week of %s", start.Format("Jan 02, 2006"))
	case GranularityQuarter:
		q := (int(start.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", q, start.Year())
	case GranularityYear:
		return start.Format("2006")
	default:
		return start.Format("Jan 2006")
	}
}

// bucketAccum accumulates one period's raw aggregates. Currency sums stay in
// decimal form until the bucket is finalized.
type bucketAccum struct {
	start          time.Time
	bookings       int
	clients        map[int64]struct{}
	djs            map[int64]struct{}
	revenue        decimal.Decimal
	collected      decimal.Decimal
	collectedCount int
	cost           decimal.Decimal
}

// metricValue extracts the selected metric from a finalized bucket.
func metricValue(b *PeriodBucket, metric Metric) float64 {
	switch metric {
	case MetricProfit:
		return b.Profit
	case MetricBookings:
		return float64(b.Bookings)
	default:
		return b.Revenue
	}
}

// ComparePeriods buckets the ledger into calendar periods and computes
// per-bucket aggregates plus period-over-period growth of the selected
// metric. Buckets are returned in strictly ascending period order. An empty
// date range yields an empty sequence, not an error.
func (e *Engine) ComparePeriods(ctx context.Context, metric Metric, granularity Granularity, rng *DateRange) ([]PeriodBucket, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if _, err := ParseGranularity(string(granularity)); err != nil {
		return nil, err
	}

	filter := ledger.Filter{}
	if rng != nil {
		from, to := rng.From, rng.To
		filter.From = &from
		filter.To = &to
	}

	txns, err := e.ledger.Transactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	accums := make(map[time.Time]*bucketAccum)
	for _, txn := range txns {
		start := periodStart(txn.Date, granularity)
		acc, ok := accums[start]
		if !ok {
			acc = &bucketAccum{
				start:   start,
				clients: make(map[int64]struct{}),
				djs:     make(map[int64]struct{}),
			}
			accums[start] = acc
		}
		acc.bookings++
		acc.clients[txn.ClientID] = struct{}{}
		acc.djs[txn.DJID] = struct{}{}
		acc.revenue = acc.revenue.Add(txn.TotalAmount)
		acc.cost = acc.cost.Add(txn.DJShare)
		if txn.CollectedFromClient {
			acc.collected = acc.collected.Add(txn.TotalAmount)
			acc.collectedCount++
		}
	}

	starts := make([]time.Time, 0, len(accums))
	for start := range accums {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	buckets := make([]PeriodBucket, 0, len(starts))
	for i, start := range starts {
		acc := accums[start]
		profit := acc.revenue.Sub(acc.cost)

		bucket := PeriodBucket{
			PeriodKey:        periodKey(start, granularity),
			PeriodLabel:      periodLabel(start, granularity),
			Index:            i,
			PeriodStart:      start,
			Bookings:         acc.bookings,
			DistinctClients:  len(acc.clients),
			DistinctDJs:      len(acc.djs),
			Revenue:          money(acc.revenue),
			CollectedRevenue: money(acc.collected),
			CollectionRate:   ratePct(float64(acc.collectedCount), float64(acc.bookings)),
			Cost:             money(acc.cost),
			Profit:           money(profit),
			ProfitMargin:     marginPct(profit, acc.revenue),
		}
		if acc.bookings > 0 {
			bucket.AvgRevenue = money(acc.revenue.Div(decimal.NewFromInt(int64(acc.bookings))))
			bucket.AvgCost = money(acc.cost.Div(decimal.NewFromInt(int64(acc.bookings))))
		}
		buckets = append(buckets, bucket)
	}

	// Growth against the immediately preceding bucket in sort order.
	for i := 1; i < len(buckets); i++ {
		curr := metricValue(&buckets[i], metric)
		prev := metricValue(&buckets[i-1], metric)
		buckets[i].GrowthPct = growthPct(curr, prev)
	}

	return buckets, nil
}

// marginPct computes profit/revenue*100 as a rounded percentage, nil when
// revenue is zero.
func marginPct(profit, revenue decimal.Decimal) *float64 {
	if revenue.IsZero() {
		return nil
	}
	v := round2(profit.InexactFloat64() / revenue.InexactFloat64() * 100)
	return &v
}

// monthlySeries aggregates the selected metric per calendar month over the
// given window, returning month starts in ascending order with their values.
// Months without any transaction do not appear in the series.
func (e *Engine) monthlySeries(ctx context.Context, metric Metric, from, to time.Time) ([]time.Time, []float64, error) {
	filter := ledger.Filter{From: &from, To: &to}
	txns, err := e.ledger.Transactions(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	type monthAccum struct {
		revenue decimal.Decimal
		cost    decimal.Decimal
		count   int
	}
	months := make(map[time.Time]*monthAccum)
	for _, txn := range txns {
		start := periodStart(txn.Date, GranularityMonth)
		acc, ok := months[start]
		if !ok {
			acc = &monthAccum{}
			months[start] = acc
		}
		acc.revenue = acc.revenue.Add(txn.TotalAmount)
		acc.cost = acc.cost.Add(txn.DJShare)
		acc.count++
	}

	starts := make([]time.Time, 0, len(months))
	for start := range months {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	values := make([]float64, len(starts))
	for i, start := range starts {
		acc := months[start]
		switch metric {
		case MetricProfit:
			values[i] = money(acc.revenue.Sub(acc.cost))
		case MetricBookings:
			values[i] = float64(acc.count)
		default:
			values[i] = money(acc.revenue)
		}
	}
	return starts, values, nil
}

// entityAggregate builds the lifetime aggregate block shared by the
// benchmarker and the ranker.
func entityAggregate(txns []models.BookingTransaction) (profile EntityProfile) {
	var revenue, collected, cost decimal.Decimal
	var collectedCount int
	var first, last *time.Time

	for i := range txns {
		txn := &txns[i]
		profile.Bookings++
		revenue = revenue.Add(txn.TotalAmount)
		cost = cost.Add(txn.DJShare)
		profile.Hours += txn.Hours
		if txn.CollectedFromClient {
			collected = collected.Add(txn.TotalAmount)
			collectedCount++
		}
		if first == nil || txn.Date.Before(*first) {
			d := txn.Date
			first = &d
		}
		if last == nil || txn.Date.After(*last) {
			d := txn.Date
			last = &d
		}
	}

	profit := revenue.Sub(cost)
	profile.Revenue = money(revenue)
	profile.CollectedRevenue = money(collected)
	profile.CollectionRate = ratePct(float64(collectedCount), float64(profile.Bookings))
	profile.Cost = money(cost)
	profile.Profit = money(profit)
	profile.ProfitMargin = marginPct(profit, revenue)
	profile.FirstActivity = first
	profile.LastActivity = last
	if profile.Bookings > 0 {
		profile.AvgRevenue = money(revenue.Div(decimal.NewFromInt(int64(profile.Bookings))))
	}
	return profile
}
