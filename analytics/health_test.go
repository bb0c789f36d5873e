package analytics

import "testing"

func snapshotWith(collectionRate, profitMargin *float64, total, pending float64) *OverviewSnapshot {
	return &OverviewSnapshot{
		TotalRevenue:     total,
		CollectedRevenue: total - pending,
		PendingRevenue:   pending,
		CollectionRate:   collectionRate,
		ProfitMargin:     profitMargin,
	}
}

func TestComputeHealthScorePerfect(t *testing.T) {
	got := ComputeHealthScore(snapshotWith(ptr(95), ptr(40), 10000, 500), 0)
	if got.Score != 100 {
		t.Errorf("score = %d, want 100", got.Score)
	}
	if len(got.Deductions) != 0 {
		t.Errorf("deductions = %v, want none", got.Deductions)
	}
}

func TestComputeHealthScoreLadders(t *testing.T) {
	tests := []struct {
		name           string
		snapshot       *OverviewSnapshot
		criticalAlerts int64
		wantScore      int
		wantDeductions int
	}{
		{
			name:      "collection rate just under 85",
			snapshot:  snapshotWith(ptr(84.9), ptr(40), 10000, 0),
			wantScore: 90, wantDeductions: 1,
		},
		{
			name:      "collection rate under 70",
			snapshot:  snapshotWith(ptr(65), ptr(40), 10000, 0),
			wantScore: 80, wantDeductions: 1,
		},
		{
			name:      "collection rate under 50 takes the deepest rung only",
			snapshot:  snapshotWith(ptr(40), ptr(40), 10000, 0),
			wantScore: 70, wantDeductions: 1,
		},
		{
			name:     "critical alerts scale by two up to twenty",
			snapshot: snapshotWith(ptr(95), ptr(40), 10000, 0), criticalAlerts: 3,
			wantScore: 94, wantDeductions: 1,
		},
		{
			name:     "critical alert deduction is capped",
			snapshot: snapshotWith(ptr(95), ptr(40), 10000, 0), criticalAlerts: 50,
			wantScore: 80, wantDeductions: 1,
		},
		{
			name:      "thin margin",
			snapshot:  snapshotWith(ptr(95), ptr(8), 10000, 0),
			wantScore: 80, wantDeductions: 1,
		},
		{
			name:      "pending revenue over half of total",
			snapshot:  snapshotWith(ptr(95), ptr(40), 10000, 6000),
			wantScore: 80, wantDeductions: 1,
		},
		{
			name:      "pending revenue over 15 percent",
			snapshot:  snapshotWith(ptr(95), ptr(40), 10000, 2000),
			wantScore: 95, wantDeductions: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHealthScore(tt.snapshot, tt.criticalAlerts)
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if len(got.Deductions) != tt.wantDeductions {
				t.Errorf("deductions = %v, want %d applied", got.Deductions, tt.wantDeductions)
			}
		})
	}
}

func TestComputeHealthScoreClampsAtZero(t *testing.T) {
	// Worst rung everywhere: 30 + 20 + 20 + 20 = 90 deducted.
	got := ComputeHealthScore(snapshotWith(ptr(10), ptr(-5), 10000, 9000), 50)
	if got.Score != 10 {
		t.Errorf("score = %d, want 10", got.Score)
	}
	if got.Score < 0 || got.Score > 100 {
		t.Errorf("score %d out of [0, 100]", got.Score)
	}
	if len(got.Deductions) != 4 {
		t.Errorf("got %d deductions, want 4", len(got.Deductions))
	}
}

func TestComputeHealthScoreNilSnapshot(t *testing.T) {
	// Missing inputs read as zero: collection rate and margin bottom out,
	// pending ratio stays calm with no revenue.
	got := ComputeHealthScore(nil, 0)
	if got.Score != 50 {
		t.Errorf("score = %d, want 50", got.Score)
	}
}
