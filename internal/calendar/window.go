// Package calendar turns a view mode and a reference date into the grid of
// day cells a calendar screen renders, and places appointments on them.
// Everything here is a pure function of its inputs so it can be recomputed
// on every data push.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// ViewMode selects how many days a calendar shows.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// ParseViewMode accepts "day", "week" or "month"; empty means month.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewDay:
		return ViewDay, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth, "":
		return ViewMonth, nil
	}
	return "", fmt.Errorf("unknown calendar view %q", s)
}

// ParseWeekStart maps a weekday name ("sunday", "monday", ...) to time.Weekday.
func ParseWeekStart(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown week start %q", s)
}

// Windower computes the dates of a calendar view. WeekStart anchors weeks;
// the zero value starts weeks on Sunday.
type Windower struct {
	WeekStart time.Weekday
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the week-start on or before t.
func (w Windower) StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(w.WeekStart) + 7) % 7
	return addDays(StartOfDay(t), -offset)
}

// CellsFor returns the dates to render for view around ref: one date for
// day, seven for week, and whole weeks covering ref's month for month.
func (w Windower) CellsFor(view ViewMode, ref time.Time) []time.Time {
	switch view {
	case ViewDay:
		return []time.Time{StartOfDay(ref)}
	case ViewWeek:
		return w.span(w.StartOfWeek(ref), 7)
	default:
		first := StartOfMonth(ref)
		last := addDays(first.AddDate(0, 1, 0), -1)
		start := w.StartOfWeek(first)
		end := addDays(w.StartOfWeek(last), 6)
		n := 0
		for d := start; !d.After(end); d = addDays(d, 1) {
			n++
		}
		return w.span(start, n)
	}
}

func (w Windower) span(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = addDays(start, i)
	}
	return out
}

// Range returns the half-open interval [from, to) covered by view around ref,
// for loading the appointments a view needs.
func (w Windower) Range(view ViewMode, ref time.Time) (from, to time.Time) {
	dates := w.CellsFor(view, ref)
	return dates[0], addDays(dates[len(dates)-1], 1)
}

// Cell is one rendered day of a calendar view.
type Cell struct {
	Date           time.Time `json:"date"`
	Key            string    `json:"key"`
	InFocusedMonth bool      `json:"inFocusedMonth"`
	Selected       bool      `json:"selected"`
	Today          bool      `json:"today"`
	Chips          []Chip    `json:"chips"`
	Overflow       int       `json:"overflow"`
	Total          int       `json:"total"`
}

// Cells builds flagged cells for view around selected. focus is the month
// used for the "outside current month" flag; today marks the current date.
func (w Windower) Cells(view ViewMode, selected, focus, today time.Time) []Cell {
	dates := w.CellsFor(view, selected)
	cells := make([]Cell, len(dates))
	for i, d := range dates {
		cells[i] = Cell{
			Date:           d,
			Key:            DayKey(d),
			InFocusedMonth: SameMonth(d, focus),
			Selected:       SameDay(d, selected),
			Today:          SameDay(d, today.In(d.Location())),
			Chips:          []Chip{},
		}
	}
	return cells
}
