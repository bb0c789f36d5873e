package analytics

import "fmt"

// healthStep is one rung of a deduction ladder. Steps are evaluated from the
// worst bound down; only the first matching rung applies.
type healthStep struct {
	trigger string
	points  int
	applies func(v float64) bool
}

// below builds a rung that fires when the value drops under the bound.
func below(bound float64, points int, format string) healthStep {
	return healthStep{
		trigger: fmt.Sprintf(format, bound),
		points:  points,
		applies: func(v float64) bool { return v < bound },
	}
}

// above builds a rung that fires when the value exceeds the bound.
func above(bound float64, points int, format string) healthStep {
	return healthStep{
		trigger: fmt.Sprintf(format, bound),
		points:  points,
		applies: func(v float64) bool { return v > bound },
	}
}

// applyLadder walks the rungs in order and returns the first matching
// deduction, or nil when the value clears every rung.
func applyLadder(reason string, value float64, steps []healthStep) *Deduction {
	for _, step := range steps {
		if step.applies(value) {
			return &Deduction{Reason: reason, Trigger: step.trigger, Points: step.points}
		}
	}
	return nil
}

// ComputeHealthScore folds the overview totals and the open critical alert
// count into the composite 0-100 score. Each concern deducts from a perfect
// 100 through a fixed ladder; a missing or nil input counts as zero, which
// deliberately reads as the worst case for rates. The result is clamped to
// [0, 100] and lists only the deductions that actually applied.
func ComputeHealthScore(snapshot *OverviewSnapshot, criticalAlerts int64) HealthScore {
	score := 100
	var deductions []Deduction

	var collectionRate, profitMargin float64
	var totalRevenue, pendingRevenue float64
	if snapshot != nil {
		if snapshot.CollectionRate != nil {
			collectionRate = *snapshot.CollectionRate
		}
		if snapshot.ProfitMargin != nil {
			profitMargin = *snapshot.ProfitMargin
		}
		totalRevenue = snapshot.TotalRevenue
		pendingRevenue = snapshot.PendingRevenue
	}

	if d := applyLadder("collection rate", collectionRate, []healthStep{
		below(50, 30, "collection rate below %.0f%%"),
		below(70, 20, "collection rate below %.0f%%"),
		below(85, 10, "collection rate below %.0f%%"),
	}); d != nil {
		deductions = append(deductions, *d)
	}

	if criticalAlerts > 0 {
		points := int(criticalAlerts) * 2
		if points > 20 {
			points = 20
		}
		deductions = append(deductions, Deduction{
			Reason:  "critical alerts",
			Trigger: fmt.Sprintf("%d unresolved critical alerts", criticalAlerts),
			Points:  points,
		})
	}

	if d := applyLadder("profit margin", profitMargin, []healthStep{
		below(10, 20, "profit margin below %.0f%%"),
		below(20, 10, "profit margin below %.0f%%"),
		below(30, 5, "profit margin below %.0f%%"),
	}); d != nil {
		deductions = append(deductions, *d)
	}

	var pendingRatio float64
	if totalRevenue > 0 {
		pendingRatio = pendingRevenue / totalRevenue * 100
	}
	if d := applyLadder("pending revenue", pendingRatio, []healthStep{
		above(50, 20, "pending revenue above %.0f%% of total"),
		above(30, 10, "pending revenue above %.0f%% of total"),
		above(15, 5, "pending revenue above %.0f%% of total"),
	}); d != nil {
		deductions = append(deductions, *d)
	}

	for _, d := range deductions {
		score -= d.Points
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return HealthScore{Score: score, Deductions: deductions}
}
