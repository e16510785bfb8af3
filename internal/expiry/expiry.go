// Package expiry computes the valid card expiration month and year windows
// offered by the checkout form.
package expiry

import "time"

const defaultYearWindow = 10

// Service answers expiry lookups against an injectable clock.
type Service struct {
	now        func() time.Time
	yearWindow int
}

// NewService builds the lookup service. A nil clock uses time.Now and a
// non-positive window falls back to the default of ten years.
func NewService(now func() time.Time, yearWindow int) *Service {
	if now == nil {
		now = time.Now
	}
	if yearWindow <= 0 {
		yearWindow = defaultYearWindow
	}
	return &Service{now: now, yearWindow: yearWindow}
}

// Months lists the valid months from startMonth through December. Values
// outside 1..12 are clamped to January.
func (s *Service) Months(startMonth int) []int {
	if startMonth < 1 || startMonth > 12 {
		startMonth = 1
	}
	months := make([]int, 0, 12-startMonth+1)
	for month := startMonth; month <= 12; month++ {
		months = append(months, month)
	}
	return months
}

// Years lists the selectable expiration years, starting at the current year.
func (s *Service) Years() []int {
	current := s.now().Year()
	years := make([]int, 0, s.yearWindow+1)
	for year := current; year <= current+s.yearWindow; year++ {
		years = append(years, year)
	}
	return years
}

// MonthsForYear lists the valid months for the selected year: the current
// year disallows past months, any other year allows all twelve.
func (s *Service) MonthsForYear(selectedYear int) []int {
	now := s.now()
	if selectedYear == now.Year() {
		return s.Months(int(now.Month()))
	}
	return s.Months(1)
}

// Options returns the month and year windows for the selected year. A zero
// year means no selection yet and is treated as the current year.
func (s *Service) Options(selectedYear int) (months, years []int) {
	if selectedYear == 0 {
		selectedYear = s.now().Year()
	}
	return s.MonthsForYear(selectedYear), s.Years()
}
