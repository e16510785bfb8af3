package expiry

import (
	"testing"
	"time"
)

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestMonthsFromStart(t *testing.T) {
	t.Parallel()

	svc := NewService(fixedClock(2026, time.August), 0)

	months := svc.Months(10)
	if len(months) != 3 || months[0] != 10 || months[2] != 12 {
		t.Fatalf("expected [10 11 12], got %v", months)
	}

	if months := svc.Months(0); len(months) != 12 {
		t.Fatalf("out-of-range start should clamp to January, got %v", months)
	}
}

func TestYearsWindow(t *testing.T) {
	t.Parallel()

	svc := NewService(fixedClock(2026, time.August), 10)

	years := svc.Years()
	if len(years) != 11 {
		t.Fatalf("expected 11 years, got %d", len(years))
	}
	if years[0] != 2026 || years[10] != 2036 {
		t.Fatalf("expected 2026..2036, got %v", years)
	}
}

func TestMonthsForYearDisallowsPastMonthsInCurrentYear(t *testing.T) {
	t.Parallel()

	svc := NewService(fixedClock(2026, time.August), 10)

	months := svc.MonthsForYear(2026)
	if months[0] != 8 || months[len(months)-1] != 12 {
		t.Fatalf("expected August..December for the current year, got %v", months)
	}
}

func TestMonthsForYearAllowsAllMonthsInLaterYears(t *testing.T) {
	t.Parallel()

	svc := NewService(fixedClock(2026, time.August), 10)

	months := svc.MonthsForYear(2027)
	if len(months) != 12 {
		t.Fatalf("expected all 12 months for a later year, got %v", months)
	}
}

func TestOptionsZeroYearMeansCurrentYear(t *testing.T) {
	t.Parallel()

	svc := NewService(fixedClock(2026, time.August), 10)

	months, years := svc.Options(0)
	if months[0] != 8 {
		t.Fatalf("expected months to start at August, got %v", months)
	}
	if years[0] != 2026 || len(years) != 11 {
		t.Fatalf("unexpected years window: %v", years)
	}
}
