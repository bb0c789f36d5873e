package api

import (
	"log"
	"net/http"
	"strconv"

	"agency-backoffice/analytics"
	"agency-backoffice/database"
	"agency-backoffice/helpers"
)

// handleComparePeriods returns per-period aggregates with growth rates
func (s *Server) handleComparePeriods(w http.ResponseWriter, r *http.Request) {
	metric := getStringParam(r, "metric", "revenue")
	granularity := getStringParam(r, "granularity", "month")

	from, err := getDateParam(r, "from")
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	to, err := getEndDateParam(r, "to")
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	var rng *analytics.DateRange
	if from != nil || to != nil {
		if from == nil || to == nil {
			respondWithDomainError(w, database.NewInvalidArgumentError("from/to", "both bounds are required when a range is given"))
			return
		}
		if to.Before(*from) {
			respondWithDomainError(w, database.NewInvalidArgumentError("from/to", "'to' must not precede 'from'"))
			return
		}
		rng = &analytics.DateRange{From: *from, To: *to}
	}

	params := map[string]string{"metric": metric, "granularity": granularity, "from": getStringParam(r, "from", ""), "to": getStringParam(r, "to", "")}
	var buckets []analytics.PeriodBucket
	if s.queryCache.Get(r.Context(), "periods", params, &buckets) {
		writeJSON(w, map[string]interface{}{"periods": buckets, "count": len(buckets)})
		return
	}

	buckets, err = s.engine.ComparePeriods(r.Context(), analytics.Metric(metric), analytics.Granularity(granularity), rng)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	if err := s.queryCache.Set(r.Context(), "periods", params, buckets); err != nil {
		log.Printf("⚠️  Failed to cache period comparison: %v", err)
	}
	writeJSON(w, map[string]interface{}{"periods": buckets, "count": len(buckets)})
}

// handleCompareEntity benchmarks one client or DJ against its market
func (s *Server) handleCompareEntity(w http.ResponseWriter, r *http.Request) {
	entityType, err := analytics.ParseEntityType(r.PathValue("type"))
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithDomainError(w, database.NewInvalidArgumentErrorWithValue("id", "must be an integer", r.PathValue("id")))
		return
	}

	params := map[string]string{"type": string(entityType), "id": r.PathValue("id")}
	var profile *analytics.EntityProfile
	if s.queryCache.Get(r.Context(), "entity", params, &profile) {
		writeJSON(w, profile)
		return
	}

	profile, err = s.engine.CompareEntity(r.Context(), entityType, id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	if err := s.queryCache.Set(r.Context(), "entity", params, profile); err != nil {
		log.Printf("⚠️  Failed to cache entity comparison: %v", err)
	}
	writeJSON(w, profile)
}

// handleSeasonal returns the per-month statistics grouped by season
func (s *Server) handleSeasonal(w http.ResponseWriter, r *http.Request) {
	var report map[analytics.Season][]analytics.SeasonalProfile
	if s.queryCache.Get(r.Context(), "seasonal", nil, &report) {
		writeJSON(w, map[string]interface{}{"seasons": report})
		return
	}

	report, err := s.engine.SeasonalAnalysis(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	if err := s.queryCache.Set(r.Context(), "seasonal", nil, report); err != nil {
		log.Printf("⚠️  Failed to cache seasonal analysis: %v", err)
	}
	writeJSON(w, map[string]interface{}{"seasons": report})
}

// handleForecast returns the fitted trend plus extrapolated months
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	metric := getStringParam(r, "metric", "revenue")
	periodsAhead := getIntParam(r, "periods", 6)

	params := map[string]interface{}{"metric": metric, "periods": periodsAhead}
	var points []analytics.ForecastPoint
	if s.queryCache.Get(r.Context(), "forecast", params, &points) {
		writeJSON(w, map[string]interface{}{"points": points, "count": len(points)})
		return
	}

	points, err := s.engine.Forecast(r.Context(), analytics.Metric(metric), periodsAhead)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	if err := s.queryCache.Set(r.Context(), "forecast", params, points); err != nil {
		log.Printf("⚠️  Failed to cache forecast: %v", err)
	}
	writeJSON(w, map[string]interface{}{"points": points, "count": len(points)})
}

// handleTopPerformers returns the revenue (or profit, or bookings) leaderboard
func (s *Server) handleTopPerformers(w http.ResponseWriter, r *http.Request) {
	entityType := getStringParam(r, "type", "dj")
	metric := getStringParam(r, "metric", "revenue")
	limit := getIntParam(r, "limit", 10)

	params := map[string]interface{}{"type": entityType, "metric": metric, "limit": limit}
	var top []analytics.EntityProfile
	if s.queryCache.Get(r.Context(), "top", params, &top) {
		writeJSON(w, map[string]interface{}{"performers": top, "count": len(top)})
		return
	}

	top, err := s.engine.TopPerformers(r.Context(), analytics.EntityType(entityType), analytics.Metric(metric), limit)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	if len(top) > 0 {
		log.Printf("🏆 Leaderboard head: %s at %s", top[0].EntityName, helpers.FormatEuro(top[0].Revenue))
	}

	if err := s.queryCache.Set(r.Context(), "top", params, top); err != nil {
		log.Printf("⚠️  Failed to cache leaderboard: %v", err)
	}
	writeJSON(w, map[string]interface{}{"performers": top, "count": len(top)})
}

// handleHealthScore returns the composite financial health score
func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	from, err := getDateParam(r, "from")
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	to, err := getEndDateParam(r, "to")
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	snapshot, err := s.overview.Snapshot(r.Context(), from, to)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	criticalAlerts, err := s.alerts.CountUnresolvedCritical(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	score := analytics.ComputeHealthScore(snapshot, criticalAlerts)
	writeJSON(w, map[string]interface{}{
		"health":          score,
		"overview":        snapshot,
		"critical_alerts": criticalAlerts,
	})
}
