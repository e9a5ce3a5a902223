package schedulestore

import (
	"testing"
	"time"
)

func TestLookupServiceDaysWithinDay(t *testing.T) {
	asOf := time.Date(2024, time.March, 12, 14, 0, 0, 0, time.UTC)

	days := lookupServiceDays(asOf, time.Hour)

	if len(days) != 2 {
		t.Fatalf("expected 2 service days, got %d", len(days))
	}
	if days[0].Day() != 11 {
		t.Errorf("expected the previous day first for over-midnight trips, got %v", days[0])
	}
	if days[1].Day() != 12 {
		t.Errorf("expected the current day, got %v", days[1])
	}
}

func TestLookupServiceDaysWindowCrossesMidnight(t *testing.T) {
	asOf := time.Date(2024, time.March, 12, 23, 30, 0, 0, time.UTC)

	days := lookupServiceDays(asOf, time.Hour)

	if len(days) != 3 {
		t.Fatalf("expected 3 service days, got %d", len(days))
	}
	if days[2].Day() != 13 {
		t.Errorf("expected the next day when the window crosses midnight, got %v", days[2])
	}
}

func TestLookupServiceDaysJustBeforeMidnightBoundary(t *testing.T) {
	// Window ending exactly at midnight still pulls in the next day.
	asOf := time.Date(2024, time.March, 12, 23, 0, 0, 0, time.UTC)

	days := lookupServiceDays(asOf, time.Hour)

	if len(days) != 3 {
		t.Fatalf("expected 3 service days, got %d", len(days))
	}
}
