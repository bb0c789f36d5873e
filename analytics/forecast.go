package analytics

import (
	"context"

	"agency-backoffice/database"
)

// forecastHistoryMonths is the trailing window the trend line is fitted on.
const forecastHistoryMonths = 18

// maxForecastHorizon caps how far ahead a forecast may reach.
const maxForecastHorizon = 24

// linearFit holds the closed-form least-squares line y = slope*x + intercept
// fitted over x = 1..n.
type linearFit struct {
	slope     float64
	intercept float64
}

// fitLine computes the ordinary least-squares line over the series with
// x = 1..n. A series of one point degenerates to a flat line at that value.
func fitLine(values []float64) linearFit {
	n := float64(len(values))
	if len(values) <= 1 {
		return linearFit{slope: 0, intercept: meanOf(values)}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i + 1)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return linearFit{slope: 0, intercept: meanOf(values)}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return linearFit{slope: slope, intercept: intercept}
}

// predict evaluates the fitted line at x.
func (f linearFit) predict(x int) float64 {
	return f.slope*float64(x) + f.intercept
}

// Forecast fits a linear trend to the trailing 18 months of the selected
// metric and extrapolates periodsAhead months past the last observed month.
// The result interleaves the historical points, each with its residual
// against the fitted line, followed by the forecast points. A ledger with no
// history in the window yields an empty sequence, not an error.
func (e *Engine) Forecast(ctx context.Context, metric Metric, periodsAhead int) ([]ForecastPoint, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if periodsAhead < 1 || periodsAhead > maxForecastHorizon {
		return nil, database.NewInvalidArgumentErrorWithValue("periodsAhead", "must be between 1 and 24", periodsAhead)
	}

	to := e.now()
	from := periodStart(to, GranularityMonth).AddDate(0, -(forecastHistoryMonths - 1), 0)
	starts, values, err := e.monthlySeries(ctx, metric, from, to)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []ForecastPoint{}, nil
	}

	fit := fitLine(values)

	points := make([]ForecastPoint, 0, len(values)+periodsAhead)
	for i, start := range starts {
		actual := values[i]
		predicted := round2(fit.predict(i + 1))
		residual := round2(actual - predicted)
		points = append(points, ForecastPoint{
			PeriodKey: periodKey(start, GranularityMonth),
			Kind:      PointHistorical,
			Actual:    &actual,
			Predicted: predicted,
			Residual:  &residual,
		})
	}

	last := starts[len(starts)-1]
	for i := 1; i <= periodsAhead; i++ {
		future := last.AddDate(0, i, 0)
		points = append(points, ForecastPoint{
			PeriodKey: periodKey(future, GranularityMonth),
			Kind:      PointForecast,
			Predicted: round2(fit.predict(len(values) + i)),
		})
	}

	return points, nil
}
