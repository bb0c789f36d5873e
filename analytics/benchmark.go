package analytics

import (
	"context"
	"sort"

	"agency-backoffice/database"
	"agency-backoffice/database/ledger"
	models "agency-backoffice/database/models_pkg"
)

// entityPopulation returns the id -> name map of all entities of the given
// type, whether or not they have transactions.
func (e *Engine) entityPopulation(ctx context.Context, entityType EntityType) (map[int64]string, error) {
	names := make(map[int64]string)
	switch entityType {
	case EntityClient:
		clients, err := e.ledger.Clients(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range clients {
			names[c.ID] = c.Name
		}
	default:
		djs, err := e.ledger.DJs(ctx)
		if err != nil {
			return nil, err
		}
		for _, d := range djs {
			names[d.ID] = d.Name
		}
	}
	return names, nil
}

// groupByEntity partitions ledger rows by the entity pole selected.
func groupByEntity(txns []models.BookingTransaction, entityType EntityType) map[int64][]models.BookingTransaction {
	groups := make(map[int64][]models.BookingTransaction)
	for _, txn := range txns {
		id := txn.ClientID
		if entityType == EntityDJ {
			id = txn.DJID
		}
		groups[id] = append(groups[id], txn)
	}
	return groups
}

// activeProfiles builds lifetime profiles for every entity of the type that
// has at least one transaction. Entities without activity never enter the
// market population.
func activeProfiles(names map[int64]string, groups map[int64][]models.BookingTransaction, entityType EntityType) []EntityProfile {
	profiles := make([]EntityProfile, 0, len(groups))
	for id, txns := range groups {
		if len(txns) == 0 {
			continue
		}
		p := entityAggregate(txns)
		p.EntityID = id
		p.EntityName = names[id]
		p.EntityType = entityType
		profiles = append(profiles, p)
	}
	return profiles
}

// marketBaseline computes mean and median lifetime metrics across the active
// population. An empty population yields a zero baseline with count 0.
func marketBaseline(entityType EntityType, profiles []EntityProfile) MarketBaseline {
	baseline := MarketBaseline{
		EntityType:        entityType,
		ActiveEntityCount: len(profiles),
	}
	if len(profiles) == 0 {
		return baseline
	}

	revenues := make([]float64, len(profiles))
	bookings := make([]float64, len(profiles))
	profits := make([]float64, len(profiles))
	for i, p := range profiles {
		revenues[i] = p.Revenue
		bookings[i] = float64(p.Bookings)
		profits[i] = p.Profit
	}
	sort.Float64s(revenues)
	sort.Float64s(bookings)
	sort.Float64s(profits)

	baseline.MeanRevenue = round2(meanOf(revenues))
	baseline.MedianRevenue = round2(medianOf(revenues))
	baseline.MeanBookings = round2(meanOf(bookings))
	baseline.MedianBookings = round2(medianOf(bookings))
	baseline.MeanProfit = round2(meanOf(profits))
	baseline.MedianProfit = round2(medianOf(profits))
	return baseline
}

// rankByRevenue assigns a 1-based count rank: one plus the number of active
// entities with strictly greater lifetime revenue. Equal revenues share a
// rank.
func rankByRevenue(revenue float64, profiles []EntityProfile) int {
	rank := 1
	for _, p := range profiles {
		if p.Revenue > revenue {
			rank++
		}
	}
	return rank
}

// CompareEntity benchmarks one client or DJ against the market of its type.
// The target must exist in the roster; an unknown id is NotFound even when
// the ledger holds no transactions at all. A target without activity gets a
// zero profile ranked below every active entity.
func (e *Engine) CompareEntity(ctx context.Context, entityType EntityType, id int64) (*EntityProfile, error) {
	if _, err := ParseEntityType(string(entityType)); err != nil {
		return nil, err
	}

	names, err := e.entityPopulation(ctx, entityType)
	if err != nil {
		return nil, err
	}
	name, ok := names[id]
	if !ok {
		return nil, database.NewNotFoundErrorWithID(string(entityType), id)
	}

	txns, err := e.ledger.Transactions(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}

	groups := groupByEntity(txns, entityType)
	profiles := activeProfiles(names, groups, entityType)
	baseline := marketBaseline(entityType, profiles)

	profile := entityAggregate(groups[id])
	profile.EntityID = id
	profile.EntityName = name
	profile.EntityType = entityType
	profile.Rank = rankByRevenue(profile.Revenue, profiles)
	profile.RevenueVsMarketPct = deltaVsPct(profile.Revenue, baseline.MeanRevenue)
	profile.BookingsVsMarketPct = deltaVsPct(float64(profile.Bookings), baseline.MeanBookings)
	profile.ProfitVsMarketPct = deltaVsPct(profile.Profit, baseline.MeanProfit)
	profile.Market = &baseline

	return &profile, nil
}

// TopPerformers ranks the active entities of one type by the selected metric
// in descending order and returns the first limit of them. Entities without
// any transaction are excluded. The limit must be between 1 and 100.
func (e *Engine) TopPerformers(ctx context.Context, entityType EntityType, metric Metric, limit int) ([]EntityProfile, error) {
	if _, err := ParseEntityType(string(entityType)); err != nil {
		return nil, err
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 100 {
		return nil, database.NewInvalidArgumentErrorWithValue("limit", "must be between 1 and 100", limit)
	}

	names, err := e.entityPopulation(ctx, entityType)
	if err != nil {
		return nil, err
	}
	txns, err := e.ledger.Transactions(ctx, ledger.Filter{})
	if err != nil {
		return nil, err
	}

	profiles := activeProfiles(names, groupByEntity(txns, entityType), entityType)

	sortKey := func(p *EntityProfile) float64 {
		switch metric {
		case MetricProfit:
			return p.Profit
		case MetricBookings:
			return float64(p.Bookings)
		default:
			return p.Revenue
		}
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		ki, kj := sortKey(&profiles[i]), sortKey(&profiles[j])
		if ki != kj {
			return ki > kj
		}
		return profiles[i].EntityID < profiles[j].EntityID
	})

	for i := range profiles {
		profiles[i].Rank = 1
		for j := range profiles {
			if sortKey(&profiles[j]) > sortKey(&profiles[i]) {
				profiles[i].Rank++
			}
		}
	}

	if len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}
