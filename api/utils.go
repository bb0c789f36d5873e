package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"agency-backoffice/database"
)

// getIntParam retrieves an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultVal int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// getStringParam retrieves a string query parameter with a default value
func getStringParam(r *http.Request, key, defaultVal string) string {
	if val := r.URL.Query().Get(key); val != "" {
		return val
	}
	return defaultVal
}

// getDateParam parses a YYYY-MM-DD query parameter. A missing parameter
// returns nil; a malformed one returns an InvalidArgument error.
func getDateParam(r *http.Request, key string) (*time.Time, error) {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return nil, nil
	}
	val, err := time.Parse("2006-01-02", valStr)
	if err != nil {
		return nil, database.NewInvalidArgumentErrorWithValue(key, "must be a YYYY-MM-DD date", valStr)
	}
	return &val, nil
}

// getEndDateParam parses a YYYY-MM-DD query parameter as an inclusive upper
// bound: the returned instant is the last nanosecond of that day, so ledger
// rows carrying a time-of-day still fall inside the range.
func getEndDateParam(r *http.Request, key string) (*time.Time, error) {
	val, err := getDateParam(r, key)
	if err != nil || val == nil {
		return val, err
	}
	end := val.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end, nil
}

// writeJSON sends a JSON response
func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// respondWithError logs the error and sends a JSON error response
// Use this to avoid exposing internal errors while still logging them
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		log.Printf("API Error [%d]: %s - %v", code, message, err)
	} else {
		log.Printf("API Error [%d]: %s", code, message)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondWithDomainError maps the analytics error taxonomy to HTTP status
// codes: caller mistakes are 400, missing entities 404, failed or timed-out
// ledger reads 503. Anything else is an internal error.
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case database.IsInvalidArgument(err):
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
	case database.IsNotFound(err):
		respondWithError(w, http.StatusNotFound, err.Error(), nil)
	case database.IsDataUnavailable(err):
		respondWithError(w, http.StatusServiceUnavailable, "ledger temporarily unavailable", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal error", err)
	}
}
