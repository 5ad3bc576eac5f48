package calendar

import (
	"coachdesk/planner/internal/domain"
	"testing"
	"time"
)

func at(y int, m time.Month, d, hh, mm int) *time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	return &t
}

func TestBucket_ChipsAndOverflowAddUp(t *testing.T) {
	appts := []domain.Appointment{
		{ID: "a1", Type: "check-in", Start: at(2024, 5, 6, 9, 0)},
		{ID: "a2", Type: "training", Start: at(2024, 5, 6, 11, 30)},
		{ID: "a3", Type: "call", Start: at(2024, 5, 6, 8, 0)},
		{ID: "a4", Type: "training", Start: at(2024, 5, 7, 18, 0)},
		{ID: "bad", Type: "training"}, // unparsable start
	}
	w := Windower{}
	ref := date(2024, 5, 6)
	cells := Bucket(appts, w.Cells(ViewWeek, ref, ref, ref), 2)

	byKey := map[string]Cell{}
	for _, c := range cells {
		byKey[c.Key] = c
		for _, chip := range c.Chips {
			if chip.AppointmentID == "bad" {
				t.Fatalf("appointment without start was placed on %s", c.Key)
			}
		}
		if len(c.Chips)+c.Overflow != c.Total {
			t.Fatalf("%s: chips %d + overflow %d != total %d", c.Key, len(c.Chips), c.Overflow, c.Total)
		}
	}

	mon := byKey["2024-05-06"]
	if mon.Total != 3 || len(mon.Chips) != 2 || mon.Overflow != 1 {
		t.Fatalf("unexpected monday bucket %+v", mon)
	}
	// Source order, not chronological.
	if mon.Chips[0].Label != "09:00 check-in" || mon.Chips[1].Label != "11:30 training" {
		t.Fatalf("unexpected chip labels %q, %q", mon.Chips[0].Label, mon.Chips[1].Label)
	}
	if tue := byKey["2024-05-07"]; tue.Total != 1 || tue.Overflow != 0 {
		t.Fatalf("unexpected tuesday bucket %+v", tue)
	}
}

func TestBucket_UsesCellLocationForDayKey(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 7th is still the 6th at UTC-5.
	appts := []domain.Appointment{{ID: "a1", Type: "call", Start: at(2024, 5, 7, 2, 0)}}
	ref := time.Date(2024, 5, 6, 0, 0, 0, 0, loc)
	cells := Bucket(appts, Windower{}.Cells(ViewDay, ref, ref, ref), 5)
	if len(cells[0].Chips) != 1 || cells[0].Chips[0].Label != "21:00 call" {
		t.Fatalf("expected appointment on the local day, got %+v", cells[0])
	}
}

func TestBucket_BlankTypeLabel(t *testing.T) {
	appts := []domain.Appointment{{ID: "a1", Type: "  ", Start: at(2024, 5, 6, 9, 0)}}
	ref := date(2024, 5, 6)
	cells := Bucket(appts, Windower{}.Cells(ViewDay, ref, ref, ref), 3)
	if got := cells[0].Chips[0].Label; got != "09:00" {
		t.Fatalf("label = %q, want %q", got, "09:00")
	}
}

func TestBucket_ZeroLimitOnlyCounts(t *testing.T) {
	appts := []domain.Appointment{{ID: "a1", Type: "call", Start: at(2024, 5, 6, 10, 0)}}
	ref := date(2024, 5, 6)
	cells := Bucket(appts, Windower{}.Cells(ViewDay, ref, ref, ref), 0)
	if len(cells[0].Chips) != 0 || cells[0].Overflow != 1 {
		t.Fatalf("unexpected cell %+v", cells[0])
	}
}

func TestChipLimits_For(t *testing.T) {
	l := ChipLimits{Day: 8, Week: 4, Month: 2}
	if l.For(ViewDay) != 8 || l.For(ViewWeek) != 4 || l.For(ViewMonth) != 2 {
		t.Fatalf("unexpected limits")
	}
}
