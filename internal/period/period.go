// Package period turns counting-period presets into date filters.
package period

import (
	"time"

	"github.com/jask/stockcheck/internal/database/repository"
)

// Preset is a named counting period relative to now.
type Preset int

const (
	Today Preset = iota
	Last7Days
	ThisMonth
	LastMonth
	Last3Months
	YearToDate
	presetCount
)

var labels = []string{
	"Today",
	"Last 7 days",
	"This month",
	"Last month",
	"Last 3 months",
	"Year to date",
}

// Presets lists every preset in display order.
func Presets() []Preset {
	out := make([]Preset, 0, presetCount)
	for p := Today; p < presetCount; p++ {
		out = append(out, p)
	}
	return out
}

func (p Preset) String() string {
	if p < 0 || p >= presetCount {
		return "Unknown"
	}
	return labels[p]
}

// Bounds returns the first and last calendar day of p, both inclusive, in
// now's location.
func Bounds(p Preset, now time.Time) (time.Time, time.Time, bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch p {
	case Today:
		return day, day, true
	case Last7Days:
		return day.AddDate(0, 0, -6), day, true
	case ThisMonth:
		return monthStart, day, true
	case LastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart.AddDate(0, 0, -1), true
	case Last3Months:
		return day.AddDate(0, -3, 0), day, true
	case YearToDate:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), day, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Filter builds the date filter for p.
func Filter(p Preset, now time.Time) (repository.DateFilter, bool) {
	start, end, ok := Bounds(p, now)
	if !ok {
		return repository.DateFilter{}, false
	}
	return repository.DateFilter{InitialDate: start, FinalDate: end, PeriodName: p.String()}, true
}

// Label renders f as "name (start – end)" using layout for the days.
func Label(f repository.DateFilter, layout string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return f.PeriodName + " (" + f.InitialDate.In(loc).Format(layout) + " – " + f.FinalDate.In(loc).Format(layout) + ")"
}
