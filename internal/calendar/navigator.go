package calendar

import "time"

// Navigator tracks the state of one calendar screen: view mode, the selected
// reference date and the focused month. It is not safe for concurrent use.
type Navigator struct {
	Window    Windower
	View      ViewMode
	Reference time.Time
	Focus     time.Time // first day of the focused month
	now       func() time.Time
}

// NewNavigator starts at ref. now defaults to time.Now.
func NewNavigator(w Windower, view ViewMode, ref time.Time, now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}
	ref = StartOfDay(ref)
	return &Navigator{Window: w, View: view, Reference: ref, Focus: StartOfMonth(ref), now: now}
}

// AddMonths shifts t by n months, clamping the day to the target month's
// length (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func (n *Navigator) shift(dir int) {
	prev := n.Reference
	switch n.View {
	case ViewDay:
		n.Reference = addDays(prev, dir)
	case ViewWeek:
		n.Reference = addDays(prev, 7*dir)
	default:
		n.Reference = AddMonths(prev, dir)
	}
	if n.View == ViewMonth && !SameMonth(prev, n.Reference) {
		n.Focus = StartOfMonth(n.Reference)
	}
}

// Previous moves back one unit of the current view.
func (n *Navigator) Previous() { n.shift(-1) }

// Next moves forward one unit of the current view.
func (n *Navigator) Next() { n.shift(1) }

// Today jumps to the current date and refocuses its month.
func (n *Navigator) Today() {
	today := StartOfDay(n.now().In(n.Reference.Location()))
	n.Reference = today
	n.Focus = StartOfMonth(today)
}

// SetView switches mode and refocuses on the reference month.
func (n *Navigator) SetView(v ViewMode) {
	n.View = v
	n.Focus = StartOfMonth(n.Reference)
}

// Select picks a date without changing the focused month.
func (n *Navigator) Select(d time.Time) {
	n.Reference = StartOfDay(d.In(n.Reference.Location()))
}

// Cells renders the current state.
func (n *Navigator) Cells() []Cell {
	return n.Window.Cells(n.View, n.Reference, n.Focus, n.now())
}
