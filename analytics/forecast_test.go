package analytics

import (
	"context"
	"math"
	"testing"

	"agency-backoffice/database"
	models "agency-backoffice/database/models_pkg"
)

func TestFitLineRecoversExactTrend(t *testing.T) {
	// y = 3x + 7 over x = 1..6.
	values := []float64{10, 13, 16, 19, 22, 25}
	fit := fitLine(values)
	if math.Abs(fit.slope-3) > 1e-9 {
		t.Errorf("slope = %v, want 3", fit.slope)
	}
	if math.Abs(fit.intercept-7) > 1e-9 {
		t.Errorf("intercept = %v, want 7", fit.intercept)
	}
}

func TestFitLineDegenerateSeries(t *testing.T) {
	fit := fitLine([]float64{42})
	if fit.slope != 0 || fit.intercept != 42 {
		t.Errorf("single-point fit = %v, want flat line at 42", fit)
	}

	fit = fitLine(nil)
	if fit.slope != 0 || fit.intercept != 0 {
		t.Errorf("empty fit = %v, want zero line", fit)
	}
}

func TestForecastLinearSeries(t *testing.T) {
	// Monthly revenue 1000, 2000, ..., 6000 from January through June.
	// The fit is exact, so residuals vanish and the extrapolation keeps
	// climbing by 1000 a month.
	var rows []models.BookingTransaction
	dates := []string{"2025-01-15", "2025-02-15", "2025-03-15", "2025-04-15", "2025-05-15", "2025-06-15"}
	for i, d := range dates {
		rows = append(rows, txn(int64(i+1), day(t, d), 1, 1, float64((i+1)*1000), 0, true))
	}
	e := newTestEngine(&fakeLedger{txns: rows}, day(t, "2025-06-30"))

	points, err := e.Forecast(context.Background(), MetricRevenue, 3)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 9 {
		t.Fatalf("got %d points, want 6 historical + 3 forecast", len(points))
	}

	for i := 0; i < 6; i++ {
		p := points[i]
		if p.Kind != PointHistorical {
			t.Errorf("point %d kind = %q, want historical", i, p.Kind)
		}
		if p.Actual == nil || *p.Actual != float64((i+1)*1000) {
			t.Errorf("point %d actual = %v, want %d", i, p.Actual, (i+1)*1000)
		}
		if p.Residual == nil || math.Abs(*p.Residual) > 0.01 {
			t.Errorf("point %d residual = %v, want ~0", i, p.Residual)
		}
	}

	wantKeys := []string{"2025-07", "2025-08", "2025-09"}
	wantPredicted := []float64{7000, 8000, 9000}
	for i := 0; i < 3; i++ {
		p := points[6+i]
		if p.Kind != PointForecast {
			t.Errorf("forecast point %d kind = %q, want forecast", i, p.Kind)
		}
		if p.PeriodKey != wantKeys[i] {
			t.Errorf("forecast point %d key = %q, want %q", i, p.PeriodKey, wantKeys[i])
		}
		if p.Actual != nil || p.Residual != nil {
			t.Errorf("forecast point %d carries observed fields", i)
		}
		if math.Abs(p.Predicted-wantPredicted[i]) > 0.01 {
			t.Errorf("forecast point %d predicted = %v, want %v", i, p.Predicted, wantPredicted[i])
		}
	}
}

func TestForecastSingleMonthIsFlat(t *testing.T) {
	fake := &fakeLedger{txns: []models.BookingTransaction{
		txn(1, day(t, "2025-05-15"), 1, 1, 1500, 700, true),
	}}
	e := newTestEngine(fake, day(t, "2025-06-01"))

	points, err := e.Forecast(context.Background(), MetricRevenue, 2)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 1 historical + 2 forecast", len(points))
	}
	for _, p := range points {
		if p.Predicted != 1500 {
			t.Errorf("point %s predicted = %v, want flat 1500", p.PeriodKey, p.Predicted)
		}
	}
}

func TestForecastEmptyHistory(t *testing.T) {
	e := newTestEngine(&fakeLedger{}, day(t, "2025-06-01"))

	points, err := e.Forecast(context.Background(), MetricRevenue, 6)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 0 {
		t.Errorf("got %d points from an empty ledger, want 0", len(points))
	}
}

func TestForecastHorizonBounds(t *testing.T) {
	e := newTestEngine(&fakeLedger{}, day(t, "2025-06-01"))

	for _, horizon := range []int{0, -1, 25} {
		_, err := e.Forecast(context.Background(), MetricRevenue, horizon)
		if !database.IsInvalidArgument(err) {
			t.Errorf("Forecast(periodsAhead=%d) error = %v, want InvalidArgument", horizon, err)
		}
	}
}

func TestForecastIgnoresHistoryBeyondWindow(t *testing.T) {
	// A transaction two years back sits outside the trailing window and
	// must not drag the trend line.
	fake := &fakeLedger{txns: []models.BookingTransaction{
		txn(1, day(t, "2023-01-15"), 1, 1, 99999, 0, true),
		txn(2, day(t, "2025-05-15"), 1, 1, 1000, 0, true),
		txn(3, day(t, "2025-06-15"), 1, 1, 1000, 0, true),
	}}
	e := newTestEngine(fake, day(t, "2025-06-30"))

	points, err := e.Forecast(context.Background(), MetricRevenue, 1)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 2 historical + 1 forecast", len(points))
	}
	if points[0].PeriodKey != "2025-05" {
		t.Errorf("first historical point = %q, want 2025-05", points[0].PeriodKey)
	}
	if points[2].Predicted != 1000 {
		t.Errorf("forecast = %v, want flat 1000", points[2].Predicted)
	}
}
