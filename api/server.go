package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"agency-backoffice/analytics"
	"agency-backoffice/cache"
	"agency-backoffice/database/alerts"
	"agency-backoffice/database/overview"

	"github.com/google/uuid"
)

// Server handles HTTP API requests
type Server struct {
	engine     *analytics.Engine
	overview   *overview.Repository
	alerts     *alerts.Repository
	queryCache *cache.QueryCache
}

// NewServer creates a new API server instance
func NewServer(engine *analytics.Engine, overviewRepo *overview.Repository, alertsRepo *alerts.Repository, queryCache *cache.QueryCache) *Server {
	return &Server{
		engine:     engine,
		overview:   overviewRepo,
		alerts:     alertsRepo,
		queryCache: queryCache,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Analytics Routes
	mux.HandleFunc("GET /api/analytics/periods", s.handleComparePeriods)
	mux.HandleFunc("GET /api/analytics/entities/{type}/{id}", s.handleCompareEntity)
	mux.HandleFunc("GET /api/analytics/seasonal", s.handleSeasonal)
	mux.HandleFunc("GET /api/analytics/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/analytics/top", s.handleTopPerformers)
	mux.HandleFunc("GET /api/analytics/health-score", s.handleHealthScore)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Add middleware
	handler := s.corsMiddleware(s.requestIDMiddleware(s.loggingMiddleware(mux)))

	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, handler)
}

// handleHealth is the liveness probe. It reports process health only; the
// financial health score lives under /api/analytics/health-score.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
