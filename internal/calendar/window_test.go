package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCellsFor_Lengths(t *testing.T) {
	w := Windower{}
	start := date(2023, 1, 1)
	for i := 0; i < 800; i += 13 {
		ref := start.AddDate(0, 0, i)
		if n := len(w.CellsFor(ViewDay, ref)); n != 1 {
			t.Fatalf("%s day: got %d cells", ref.Format("2006-01-02"), n)
		}
		if n := len(w.CellsFor(ViewWeek, ref)); n != 7 {
			t.Fatalf("%s week: got %d cells", ref.Format("2006-01-02"), n)
		}
		if n := len(w.CellsFor(ViewMonth, ref)); n%7 != 0 || n < 28 || n > 42 {
			t.Fatalf("%s month: got %d cells", ref.Format("2006-01-02"), n)
		}
	}
}

func TestCellsFor_WeekStartsOnConfiguredDay(t *testing.T) {
	ref := date(2024, 5, 16) // Thursday
	sunday := Windower{WeekStart: time.Sunday}.CellsFor(ViewWeek, ref)
	if !sunday[0].Equal(date(2024, 5, 12)) || sunday[0].Weekday() != time.Sunday {
		t.Fatalf("expected week to start Sunday 2024-05-12, got %s", sunday[0])
	}
	monday := Windower{WeekStart: time.Monday}.CellsFor(ViewWeek, ref)
	if !monday[0].Equal(date(2024, 5, 13)) {
		t.Fatalf("expected week to start Monday 2024-05-13, got %s", monday[0])
	}
	for i := 1; i < 7; i++ {
		if monday[i].Sub(monday[i-1]) != 24*time.Hour {
			t.Fatalf("dates are not consecutive at %d", i)
		}
	}
}

func TestCells_MonthStartingWednesday(t *testing.T) {
	// May 2024 starts on a Wednesday and has 31 days.
	w := Windower{WeekStart: time.Sunday}
	ref := date(2024, 5, 20)
	cells := w.Cells(ViewMonth, ref, StartOfMonth(ref), date(2024, 5, 2))

	if len(cells) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(cells))
	}
	// Sunday Apr 28 .. Tuesday Apr 30 lead the grid.
	for i := 0; i < 3; i++ {
		if cells[i].InFocusedMonth || cells[i].Date.Month() != time.April {
			t.Fatalf("cell %d (%s) should be an April lead-in", i, cells[i].Key)
		}
	}
	if !cells[3].InFocusedMonth || cells[3].Key != "2024-05-01" {
		t.Fatalf("expected May 1 at index 3, got %s", cells[3].Key)
	}
	last := cells[len(cells)-1]
	if last.Key != "2024-06-01" || last.InFocusedMonth {
		t.Fatalf("expected trailing June 1, got %s", last.Key)
	}

	var selected, today int
	for _, c := range cells {
		if c.Selected {
			selected++
			if c.Key != "2024-05-20" {
				t.Fatalf("wrong selected cell %s", c.Key)
			}
		}
		if c.Today {
			today++
			if c.Key != "2024-05-02" {
				t.Fatalf("wrong today cell %s", c.Key)
			}
		}
	}
	if selected != 1 || today != 1 {
		t.Fatalf("expected one selected and one today cell, got %d/%d", selected, today)
	}
}

func TestCellsFor_MonthIsSmallestCoveringGrid(t *testing.T) {
	// February 2015 starts on Sunday and has 28 days: exactly four weeks.
	cells := Windower{WeekStart: time.Sunday}.CellsFor(ViewMonth, date(2015, 2, 10))
	if len(cells) != 28 {
		t.Fatalf("expected 28 cells, got %d", len(cells))
	}
}

func TestCellsFor_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	ref := time.Date(2024, 3, 10, 15, 0, 0, 0, loc)
	cells := Windower{}.CellsFor(ViewWeek, ref)
	for _, c := range cells {
		if c.Hour() != 0 || c.Minute() != 0 {
			t.Fatalf("expected midnight, got %s", c)
		}
	}
}

func TestRange_IsHalfOpen(t *testing.T) {
	from, to := Windower{}.Range(ViewDay, time.Date(2024, 5, 20, 18, 30, 0, 0, time.UTC))
	if !from.Equal(date(2024, 5, 20)) || !to.Equal(date(2024, 5, 21)) {
		t.Fatalf("unexpected range %s..%s", from, to)
	}
}

func TestParseViewMode(t *testing.T) {
	if v, err := ParseViewMode("WEEK"); err != nil || v != ViewWeek {
		t.Fatalf("got %v %v", v, err)
	}
	if v, _ := ParseViewMode(""); v != ViewMonth {
		t.Fatalf("empty view should default to month")
	}
	if _, err := ParseViewMode("year"); err == nil {
		t.Fatalf("expected error for unknown view")
	}
	if d, err := ParseWeekStart("Monday"); err != nil || d != time.Monday {
		t.Fatalf("got %v %v", d, err)
	}
}
