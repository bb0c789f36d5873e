package analytics

import (
	"context"
	"testing"

	"agency-backoffice/database"
	models "agency-backoffice/database/models_pkg"
)

func benchmarkFixture(t *testing.T) *fakeLedger {
	t.Helper()
	return &fakeLedger{
		clients: []models.Client{
			{ID: 1, Name: "Velvet Room"},
			{ID: 2, Name: "Harbor Club"},
			{ID: 3, Name: "Dormant Venue"},
		},
		djs: []models.DJ{
			{ID: 10, Name: "DJ Nova"},
			{ID: 11, Name: "DJ Atlas"},
		},
		txns: []models.BookingTransaction{
			txn(1, day(t, "2025-01-10"), 1, 10, 1000, 600, true),
			txn(2, day(t, "2025-02-14"), 1, 11, 2000, 1200, true),
			txn(3, day(t, "2025-03-08"), 2, 10, 1000, 500, false),
		},
	}
}

func TestCompareEntityAgainstMarket(t *testing.T) {
	e := newTestEngine(benchmarkFixture(t), day(t, "2025-06-01"))

	profile, err := e.CompareEntity(context.Background(), EntityClient, 1)
	if err != nil {
		t.Fatalf("CompareEntity() error = %v", err)
	}

	if profile.EntityName != "Velvet Room" {
		t.Errorf("entity name = %q, want Velvet Room", profile.EntityName)
	}
	if profile.Bookings != 2 || profile.Revenue != 3000 {
		t.Errorf("lifetime aggregates = %d bookings / %v revenue, want 2 / 3000", profile.Bookings, profile.Revenue)
	}
	if profile.Rank != 1 {
		t.Errorf("rank = %d, want 1", profile.Rank)
	}

	market := profile.Market
	if market == nil {
		t.Fatal("market baseline missing")
	}
	// Active clients are 1 (3000) and 2 (1000); the dormant venue is out.
	if market.ActiveEntityCount != 2 {
		t.Errorf("active entity count = %d, want 2", market.ActiveEntityCount)
	}
	if market.MeanRevenue != 2000 {
		t.Errorf("mean revenue = %v, want 2000", market.MeanRevenue)
	}
	if market.MedianRevenue != 2000 {
		t.Errorf("median revenue = %v, want 2000", market.MedianRevenue)
	}
	if profile.RevenueVsMarketPct == nil || *profile.RevenueVsMarketPct != 50 {
		t.Errorf("revenue vs market = %v, want 50", profile.RevenueVsMarketPct)
	}
}

func TestCompareEntityDormantEntityRanksLast(t *testing.T) {
	e := newTestEngine(benchmarkFixture(t), day(t, "2025-06-01"))

	profile, err := e.CompareEntity(context.Background(), EntityClient, 3)
	if err != nil {
		t.Fatalf("CompareEntity() error = %v", err)
	}
	if profile.Bookings != 0 || profile.Revenue != 0 {
		t.Errorf("dormant profile = %d bookings / %v revenue, want zeroes", profile.Bookings, profile.Revenue)
	}
	if profile.CollectionRate != nil {
		t.Errorf("dormant collection rate = %v, want nil", *profile.CollectionRate)
	}
	// Both active clients outrank a zero-revenue entity.
	if profile.Rank != 3 {
		t.Errorf("rank = %d, want 3", profile.Rank)
	}
}

func TestCompareEntityUnknownID(t *testing.T) {
	e := newTestEngine(benchmarkFixture(t), day(t, "2025-06-01"))

	_, err := e.CompareEntity(context.Background(), EntityDJ, 999)
	if !database.IsNotFound(err) {
		t.Errorf("CompareEntity() error = %v, want NotFound", err)
	}
}

func TestMedianRevenueOddPopulation(t *testing.T) {
	fake := benchmarkFixture(t)
	// A third active client pushes the population to 10, 20, 30.
	fake.clients = append(fake.clients, models.Client{ID: 4, Name: "Loft"})
	fake.txns = []models.BookingTransaction{
		txn(1, day(t, "2025-01-10"), 1, 10, 10, 5, true),
		txn(2, day(t, "2025-02-14"), 2, 10, 20, 10, true),
		txn(3, day(t, "2025-03-08"), 4, 10, 30, 15, true),
	}
	e := newTestEngine(fake, day(t, "2025-06-01"))

	profile, err := e.CompareEntity(context.Background(), EntityClient, 2)
	if err != nil {
		t.Fatalf("CompareEntity() error = %v", err)
	}
	if profile.Market.MedianRevenue != 20 {
		t.Errorf("median revenue = %v, want 20", profile.Market.MedianRevenue)
	}
}

func TestTopPerformersOrderingAndExclusion(t *testing.T) {
	e := newTestEngine(benchmarkFixture(t), day(t, "2025-06-01"))

	top, err := e.TopPerformers(context.Background(), EntityClient, MetricRevenue, 10)
	if err != nil {
		t.Fatalf("TopPerformers() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d performers, want 2 (dormant venue excluded)", len(top))
	}
	if top[0].EntityID != 1 || top[1].EntityID != 2 {
		t.Errorf("order = [%d %d], want [1 2]", top[0].EntityID, top[1].EntityID)
	}
	if top[0].Rank != 1 || top[1].Rank != 2 {
		t.Errorf("ranks = [%d %d], want [1 2]", top[0].Rank, top[1].Rank)
	}
}

func TestTopPerformersTiedRevenueSharesRank(t *testing.T) {
	fake := benchmarkFixture(t)
	fake.txns = []models.BookingTransaction{
		txn(1, day(t, "2025-01-10"), 1, 10, 1000, 500, true),
		txn(2, day(t, "2025-02-14"), 2, 10, 1000, 500, true),
	}
	e := newTestEngine(fake, day(t, "2025-06-01"))

	top, err := e.TopPerformers(context.Background(), EntityClient, MetricRevenue, 10)
	if err != nil {
		t.Fatalf("TopPerformers() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d performers, want 2", len(top))
	}
	if top[0].Rank != 1 || top[1].Rank != 1 {
		t.Errorf("tied ranks = [%d %d], want [1 1]", top[0].Rank, top[1].Rank)
	}
}

func TestTopPerformersLimitBounds(t *testing.T) {
	e := newTestEngine(benchmarkFixture(t), day(t, "2025-06-01"))

	for _, limit := range []int{0, -5, 101} {
		_, err := e.TopPerformers(context.Background(), EntityDJ, MetricRevenue, limit)
		if !database.IsInvalidArgument(err) {
			t.Errorf("TopPerformers(limit=%d) error = %v, want InvalidArgument", limit, err)
		}
	}

	top, err := e.TopPerformers(context.Background(), EntityClient, MetricRevenue, 1)
	if err != nil {
		t.Fatalf("TopPerformers(limit=1) error = %v", err)
	}
	if len(top) != 1 {
		t.Errorf("got %d performers with limit 1, want 1", len(top))
	}
}
