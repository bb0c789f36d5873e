package analytics

import (
	"context"
	"sort"
	"time"

	"agency-backoffice/database/ledger"

	"github.com/shopspring/decimal"
)

// seasonalYears is the lookback window of the seasonal report.
const seasonalYears = 3

// monthYear identifies one observed calendar month.
type monthYear struct {
	year  int
	month time.Month
}

// SeasonalAnalysis computes per-calendar-month statistics over the trailing
// three years and groups them by season. All twelve months appear in the
// report; a month never observed in the window carries zero statistics. The
// per-month standard deviations are taken across years, so a single year of
// history yields stddev 0 everywhere.
func (e *Engine) SeasonalAnalysis(ctx context.Context) (map[Season][]SeasonalProfile, error) {
	to := e.now()
	from := to.AddDate(-seasonalYears, 0, 0)
	filter := ledger.Filter{From: &from, To: &to}

	txns, err := e.ledger.Transactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	type yearAccum struct {
		revenue decimal.Decimal
		cost    decimal.Decimal
		count   int
	}
	observed := make(map[monthYear]*yearAccum)
	for _, txn := range txns {
		key := monthYear{year: txn.Date.Year(), month: txn.Date.Month()}
		acc, ok := observed[key]
		if !ok {
			acc = &yearAccum{}
			observed[key] = acc
		}
		acc.revenue = acc.revenue.Add(txn.TotalAmount)
		acc.cost = acc.cost.Add(txn.DJShare)
		acc.count++
	}

	report := make(map[Season][]SeasonalProfile, len(SeasonOrder))
	for _, season := range SeasonOrder {
		report[season] = []SeasonalProfile{}
	}

	for month := time.January; month <= time.December; month++ {
		// Accumulate in ascending year order so float summation order is
		// stable and repeated calls over an unchanged ledger return
		// bit-identical statistics.
		years := make([]int, 0, seasonalYears+1)
		for key := range observed {
			if key.month == month {
				years = append(years, key.year)
			}
		}
		sort.Ints(years)

		var revenues, bookings, profits []float64
		for _, year := range years {
			acc := observed[monthYear{year: year, month: month}]
			revenues = append(revenues, money(acc.revenue))
			bookings = append(bookings, float64(acc.count))
			profits = append(profits, money(acc.revenue.Sub(acc.cost)))
		}

		season := SeasonForMonth(month)
		profile := SeasonalProfile{
			Month:          month,
			MonthLabel:     month.String(),
			Season:         season,
			YearsObserved:  len(years),
			MeanRevenue:    round2(meanOf(revenues)),
			StdDevRevenue:  round2(sampleStdDev(revenues)),
			MeanBookings:   round2(meanOf(bookings)),
			StdDevBookings: round2(sampleStdDev(bookings)),
			MeanProfit:     round2(meanOf(profits)),
			StdDevProfit:   round2(sampleStdDev(profits)),
		}
		report[season] = append(report[season], profile)
	}

	// December precedes January and February within Winter: sort each
	// season's months by their order inside the season, not the calendar.
	for season, profiles := range report {
		sort.SliceStable(profiles, func(i, j int) bool {
			return seasonMonthPos(profiles[i].Month) < seasonMonthPos(profiles[j].Month)
		})
		report[season] = profiles
	}

	return report, nil
}

// seasonMonthPos orders months within their season; December leads Winter.
func seasonMonthPos(month time.Month) int {
	if month == time.December {
		return 0
	}
	return int(month)
}
