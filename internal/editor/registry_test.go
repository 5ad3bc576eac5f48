package editor

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"errors"
	"testing"
	"time"
)

func TestRegistryOwnership(t *testing.T) {
	r := NewRegistry(newMemPersister(), logger.Nop())
	id, ed := r.Open("coach1", domain.NewTemplate("coach1", domain.KindWorkout))

	got, err := r.Get(id, "coach1")
	if err != nil || got != ed {
		t.Fatalf("Get: %v", err)
	}
	if _, err := r.Get(id, "coach2"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("other coach: %v", err)
	}
	if err := r.Close(id, "coach2"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("close by other coach: %v", err)
	}
	if err := r.Close(id, "coach1"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := r.Get(id, "coach1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("closed session still reachable: %v", err)
	}
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(newMemPersister(), logger.Nop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	stale, _ := r.Open("coach1", domain.NewTemplate("coach1", domain.KindWorkout))
	now = now.Add(time.Hour)
	fresh, _ := r.Open("coach1", domain.NewTemplate("coach1", domain.KindNutrition))
	now = now.Add(10 * time.Minute)

	if n := r.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, err := r.Get(stale, "coach1"); err == nil {
		t.Error("stale session survived")
	}
	if _, err := r.Get(fresh, "coach1"); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}
