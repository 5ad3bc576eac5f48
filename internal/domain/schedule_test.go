package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestEmptyGrid_AllKindsHaveSevenPresentDays(t *testing.T) {
	for _, kind := range []TemplateKind{KindWorkout, KindNutrition, KindCombined} {
		t.Run(string(kind), func(t *testing.T) {
			g := EmptyGrid(kind)
			if len(g.Days) != 7 {
				t.Fatalf("expected 7 days, got %d", len(g.Days))
			}
			for _, day := range Weekdays {
				plan, ok := g.Days[day]
				if !ok {
					t.Fatalf("day %s missing", day)
				}
				if kind.HasWorkout() && (plan.Exercises == nil || len(plan.Exercises) != 0) {
					t.Fatalf("%s: expected empty non-nil exercise list, got %#v", day, plan.Exercises)
				}
				if !kind.HasWorkout() && plan.Exercises != nil {
					t.Fatalf("%s: unexpected exercise list on %s grid", day, kind)
				}
				if kind.HasNutrition() {
					if len(plan.Meals) != 5 {
						t.Fatalf("%s: expected 5 meal slots, got %d", day, len(plan.Meals))
					}
					for _, s := range MealSlots {
						if meals, ok := plan.Meals[s]; !ok || meals == nil || len(meals) != 0 {
							t.Fatalf("%s/%s: expected empty non-nil slot", day, s)
						}
					}
				}
			}
			if err := g.CheckShape(); err != nil {
				t.Fatalf("CheckShape: %v", err)
			}
			if !g.IsEmpty() {
				t.Fatalf("expected empty grid")
			}
		})
	}
}

func TestAddRemove_RoundTripWorkout(t *testing.T) {
	orig := EmptyGrid(KindWorkout)
	ex := Exercise{ID: "ex1", Name: "Squat", Sets: 3, Reps: 10, RestSeconds: 60, MuscleGroups: []string{"legs"}}

	added, err := AddEntry(orig, Monday, "", ex)
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if added.DayCount(Monday) != 1 {
		t.Fatalf("expected 1 entry on monday, got %d", added.DayCount(Monday))
	}
	if orig.DayCount(Monday) != 0 {
		t.Fatalf("AddEntry mutated the original grid")
	}

	removed, err := RemoveEntry(added, Monday, "", "ex1")
	if err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	if !reflect.DeepEqual(removed, orig) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", removed, orig)
	}
	if added.DayCount(Monday) != 1 {
		t.Fatalf("RemoveEntry mutated its input")
	}
}

func TestAddRemove_RoundTripNutrition(t *testing.T) {
	orig := EmptyGrid(KindNutrition)
	meal := Meal{ID: "m1", Name: "Oats", Ingredients: []string{"oats", "milk"}, Macros: Macros{Protein: 12, Carbs: 50, Fats: 6, Calories: 300}}

	added, err := AddEntry(orig, Wednesday, Breakfast, meal)
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if got := added.Days[Wednesday].Meals[Breakfast]; len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("unexpected breakfast: %#v", got)
	}
	removed, err := RemoveEntry(added, Wednesday, Breakfast, "m1")
	if err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	if !reflect.DeepEqual(removed, orig) {
		t.Fatalf("round trip mismatch")
	}
}

func TestAddEntry_NutritionRequiresSlot(t *testing.T) {
	g := EmptyGrid(KindNutrition)
	if _, err := AddEntry(g, Monday, "", Meal{ID: "m", Name: "Soup"}); !errors.Is(err, ErrMealSlotRequired) {
		t.Fatalf("expected ErrMealSlotRequired, got %v", err)
	}
	if _, err := AddEntry(g, Monday, "brunch", Meal{ID: "m", Name: "Soup"}); !errors.Is(err, ErrUnknownMealSlot) {
		t.Fatalf("expected ErrUnknownMealSlot, got %v", err)
	}
	if _, err := RemoveEntry(g, Monday, "", "m"); !errors.Is(err, ErrMealSlotRequired) {
		t.Fatalf("expected ErrMealSlotRequired on remove, got %v", err)
	}
}

func TestAddEntry_KindMismatchAndUnknownDay(t *testing.T) {
	if _, err := AddEntry(EmptyGrid(KindNutrition), Monday, "", Exercise{ID: "e", Name: "Row"}); !errors.Is(err, ErrEntryKindMismatch) {
		t.Fatalf("expected ErrEntryKindMismatch, got %v", err)
	}
	if _, err := AddEntry(EmptyGrid(KindWorkout), Monday, Lunch, Meal{ID: "m", Name: "Rice"}); !errors.Is(err, ErrEntryKindMismatch) {
		t.Fatalf("expected ErrEntryKindMismatch, got %v", err)
	}
	if _, err := AddEntry(EmptyGrid(KindWorkout), Weekday("funday"), "", Exercise{ID: "e", Name: "Row"}); !errors.Is(err, ErrUnknownDay) {
		t.Fatalf("expected ErrUnknownDay, got %v", err)
	}
}

func TestRemoveEntry_UnknownIDIsNoop(t *testing.T) {
	g, _ := AddEntry(EmptyGrid(KindWorkout), Friday, "", Exercise{ID: "keep", Name: "Plank"})
	out, err := RemoveEntry(g, Friday, "", "missing")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(out, g) {
		t.Fatalf("expected unchanged grid")
	}
}

func TestCombinedGrid_HoldsBothShapes(t *testing.T) {
	g := EmptyGrid(KindCombined)
	g, err := AddEntry(g, Tuesday, "", Exercise{ID: "e1", Name: "Deadlift"})
	if err != nil {
		t.Fatalf("add exercise: %v", err)
	}
	g, err = AddEntry(g, Tuesday, Dinner, Meal{ID: "m1", Name: "Salmon", Macros: Macros{Protein: 30, Calories: 400}})
	if err != nil {
		t.Fatalf("add meal: %v", err)
	}
	if g.DayCount(Tuesday) != 2 || g.EntryCount() != 2 {
		t.Fatalf("expected 2 entries, got day=%d total=%d", g.DayCount(Tuesday), g.EntryCount())
	}
	if m := g.DayMacros(Tuesday); m.Protein != 30 || m.Calories != 400 {
		t.Fatalf("unexpected macros %+v", m)
	}
}

func TestClone_IsDeep(t *testing.T) {
	g, _ := AddEntry(EmptyGrid(KindWorkout), Monday, "", Exercise{ID: "e1", Name: "Press", MuscleGroups: []string{"shoulders"}})
	c := g.Clone()
	c.Days[Monday].Exercises[0].MuscleGroups[0] = "changed"
	if g.Days[Monday].Exercises[0].MuscleGroups[0] != "shoulders" {
		t.Fatalf("clone shares muscle group backing array")
	}
}

func TestNormalize_FillsMissingKeys(t *testing.T) {
	partial := ScheduleGrid{Kind: KindNutrition, Days: map[Weekday]DayPlan{
		Monday: {Meals: map[MealSlot][]Meal{Lunch: {{ID: "m1", Name: "Bowl"}}}},
	}}
	if err := partial.CheckShape(); err == nil {
		t.Fatalf("expected shape error for partial grid")
	}
	n := partial.Normalize()
	if err := n.CheckShape(); err != nil {
		t.Fatalf("normalized grid has bad shape: %v", err)
	}
	if n.EntryCount() != 1 {
		t.Fatalf("normalize lost entries")
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2024-05-01 was a Wednesday.
	d := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if got := WeekdayOf(d); got != Wednesday {
		t.Fatalf("expected wednesday, got %s", got)
	}
	if _, err := ParseWeekday(" Monday "); err != nil {
		t.Fatalf("ParseWeekday: %v", err)
	}
}
