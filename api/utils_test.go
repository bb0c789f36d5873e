package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"agency-backoffice/database"
)

func TestGetDateParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/analytics/periods?from=2025-03-10", nil)

	got, err := getDateParam(r, "from")
	if err != nil {
		t.Fatalf("getDateParam() error = %v", err)
	}
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("getDateParam() = %v, want %v", got, want)
	}

	missing, err := getDateParam(r, "to")
	if err != nil || missing != nil {
		t.Errorf("missing param = (%v, %v), want (nil, nil)", missing, err)
	}

	bad := httptest.NewRequest("GET", "/api/analytics/periods?from=10-03-2025", nil)
	if _, err := getDateParam(bad, "from"); !database.IsInvalidArgument(err) {
		t.Errorf("malformed date error = %v, want InvalidArgument", err)
	}
}

func TestGetEndDateParamCoversWholeDay(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/analytics/periods?to=2025-03-10", nil)

	end, err := getEndDateParam(r, "to")
	if err != nil {
		t.Fatalf("getEndDateParam() error = %v", err)
	}
	if end == nil {
		t.Fatal("getEndDateParam() = nil, want end of day")
	}

	// A transaction stamped late on the bound day must satisfy date <= end.
	lateSameDay := time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC)
	if end.Before(lateSameDay) {
		t.Errorf("end bound %v excludes same-day timestamp %v", end, lateSameDay)
	}
	nextDay := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)
	if !end.Before(nextDay) {
		t.Errorf("end bound %v leaks into the next day", end)
	}

	missing, err := getEndDateParam(r, "from")
	if err != nil || missing != nil {
		t.Errorf("missing param = (%v, %v), want (nil, nil)", missing, err)
	}
}
