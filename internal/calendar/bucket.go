package calendar

import (
	"coachdesk/planner/internal/domain"
	"strings"
	"time"
)

// Chip is the short summary of one appointment shown in a day cell.
type Chip struct {
	AppointmentID string    `json:"appointmentId"`
	Label         string    `json:"label"`
	Start         time.Time `json:"start"`
	Type          string    `json:"type"`
}

// DayKey formats the date portion of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ChipLimits caps chips per cell for each view mode.
type ChipLimits struct {
	Day   int
	Week  int
	Month int
}

// For returns the limit for view.
func (l ChipLimits) For(view ViewMode) int {
	switch view {
	case ViewDay:
		return l.Day
	case ViewWeek:
		return l.Week
	default:
		return l.Month
	}
}

// Index groups appointments by the local calendar day of their start.
// Appointments without a start are left out. Source order is kept.
func Index(appointments []domain.Appointment, loc *time.Location) map[string][]domain.Appointment {
	if loc == nil {
		loc = time.Local
	}
	idx := make(map[string][]domain.Appointment)
	for _, a := range appointments {
		if a.Start == nil || a.Start.IsZero() {
			continue
		}
		key := DayKey(a.Start.In(loc))
		idx[key] = append(idx[key], a)
	}
	return idx
}

// Bucket returns a copy of cells with up to maxChips chips per day and the
// number of appointments that did not fit in Overflow. Chips follow the
// order of appointments; sort the input first for chronological chips.
func Bucket(appointments []domain.Appointment, cells []Cell, maxChips int) []Cell {
	if maxChips < 0 {
		maxChips = 0
	}
	var loc *time.Location
	if len(cells) > 0 {
		loc = cells[0].Date.Location()
	}
	idx := Index(appointments, loc)

	out := make([]Cell, len(cells))
	for i, cell := range cells {
		day := idx[cell.Key]
		shown := day
		if len(shown) > maxChips {
			shown = shown[:maxChips]
		}
		cell.Chips = make([]Chip, 0, len(shown))
		for _, a := range shown {
			start := a.Start.In(loc)
			cell.Chips = append(cell.Chips, Chip{
				AppointmentID: a.ID,
				Label:         chipLabel(start, a.Type),
				Start:         start,
				Type:          a.Type,
			})
		}
		cell.Total = len(day)
		cell.Overflow = len(day) - len(shown)
		out[i] = cell
	}
	return out
}

// chipLabel is "15:04 type", or just the time when the type is blank.
func chipLabel(start time.Time, kind string) string {
	return strings.TrimSpace(start.Format("15:04") + " " + strings.TrimSpace(kind))
}
