// internal/domain/schedule.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday keys a template's schedule. Templates describe a generic week, so
// they are not tied to calendar dates.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists every schedule key in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday accepts a weekday name in any case.
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDay, s)
	}
	return d, nil
}

func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// WeekdayOf maps a calendar date onto its template key.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// MealSlot is one of the five fixed meal positions of a nutrition day.
type MealSlot string

const (
	Breakfast    MealSlot = "breakfast"
	MorningSnack MealSlot = "morning-snack"
	Lunch        MealSlot = "lunch"
	EveningSnack MealSlot = "evening-snack"
	Dinner       MealSlot = "dinner"
)

// MealSlots lists the meal slots in the order they happen during a day.
var MealSlots = []MealSlot{Breakfast, MorningSnack, Lunch, EveningSnack, Dinner}

func (s MealSlot) Valid() bool {
	for _, m := range MealSlots {
		if m == s {
			return true
		}
	}
	return false
}

// Entry is anything that can sit in a schedule day: an Exercise or a Meal.
type Entry interface {
	EntryID() string
	EntryName() string
}

// Exercise is one prescribed exercise on a workout day.
type Exercise struct {
	ID           string   `bson:"id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Sets         int      `bson:"sets" json:"sets"`
	Reps         int      `bson:"reps" json:"reps"`
	RestSeconds  int      `bson:"restSeconds" json:"restSeconds"`
	Instructions string   `bson:"instructions,omitempty" json:"instructions,omitempty"`
	VideoRef     string   `bson:"videoRef,omitempty" json:"videoRef,omitempty"` // S3 object key or external URL
	MuscleGroups []string `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
}

func (e Exercise) EntryID() string   { return e.ID }
func (e Exercise) EntryName() string { return e.Name }

// Macros are per-serving nutrition values.
type Macros struct {
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
	Calories float64 `bson:"calories" json:"calories"`
}

func (m Macros) Valid() bool {
	return m.Protein >= 0 && m.Carbs >= 0 && m.Fats >= 0 && m.Calories >= 0
}

// Add sums two macro tuples.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
		Calories: m.Calories + o.Calories,
	}
}

// Meal is one dish placed in a meal slot.
type Meal struct {
	ID           string   `bson:"id" json:"id"`
	Name         string   `bson:"name" json:"name"`
	Ingredients  []string `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Instructions string   `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Macros       Macros   `bson:"macros" json:"macros"`
}

func (m Meal) EntryID() string   { return m.ID }
func (m Meal) EntryName() string { return m.Name }

// DayPlan holds one weekday's content. Which halves are populated depends on
// the grid kind: Exercises for workout, Meals for nutrition, both for combined.
type DayPlan struct {
	Exercises []Exercise          `bson:"exercises" json:"exercises,omitempty"`
	Meals     map[MealSlot][]Meal `bson:"meals" json:"meals,omitempty"`
}

// ScheduleGrid is the seven-day container of a template. Every weekday key is
// always present. Grids are values: mutating helpers return a new grid and
// never touch the receiver's slices or maps.
type ScheduleGrid struct {
	Kind TemplateKind        `bson:"kind" json:"kind"`
	Days map[Weekday]DayPlan `bson:"days" json:"days"`
}

func emptyDay(kind TemplateKind) DayPlan {
	var d DayPlan
	if kind.HasWorkout() {
		d.Exercises = []Exercise{}
	}
	if kind.HasNutrition() {
		d.Meals = make(map[MealSlot][]Meal, len(MealSlots))
		for _, s := range MealSlots {
			d.Meals[s] = []Meal{}
		}
	}
	return d
}

// EmptyGrid returns a grid with all seven weekdays present and empty.
func EmptyGrid(kind TemplateKind) ScheduleGrid {
	g := ScheduleGrid{Kind: kind, Days: make(map[Weekday]DayPlan, len(Weekdays))}
	for _, d := range Weekdays {
		g.Days[d] = emptyDay(kind)
	}
	return g
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneExercises(in []Exercise) []Exercise {
	if in == nil {
		return nil
	}
	out := make([]Exercise, len(in))
	for i, e := range in {
		e.MuscleGroups = cloneStrings(e.MuscleGroups)
		out[i] = e
	}
	return out
}

func cloneMeals(in []Meal) []Meal {
	if in == nil {
		return nil
	}
	out := make([]Meal, len(in))
	for i, m := range in {
		m.Ingredients = cloneStrings(m.Ingredients)
		out[i] = m
	}
	return out
}

func (d DayPlan) clone() DayPlan {
	out := DayPlan{Exercises: cloneExercises(d.Exercises)}
	if d.Meals != nil {
		out.Meals = make(map[MealSlot][]Meal, len(d.Meals))
		for slot, meals := range d.Meals {
			out.Meals[slot] = cloneMeals(meals)
		}
	}
	return out
}

// Clone deep-copies the grid.
func (g ScheduleGrid) Clone() ScheduleGrid {
	out := ScheduleGrid{Kind: g.Kind}
	if g.Days != nil {
		out.Days = make(map[Weekday]DayPlan, len(g.Days))
		for day, plan := range g.Days {
			out.Days[day] = plan.clone()
		}
	}
	return out
}

// Normalize fills any missing weekday, exercise list or meal slot with an
// empty container of the right shape. Used when decoding stored records.
func (g ScheduleGrid) Normalize() ScheduleGrid {
	out := g.Clone()
	if out.Days == nil {
		out.Days = make(map[Weekday]DayPlan, len(Weekdays))
	}
	for _, day := range Weekdays {
		plan, ok := out.Days[day]
		if !ok {
			out.Days[day] = emptyDay(out.Kind)
			continue
		}
		if out.Kind.HasWorkout() && plan.Exercises == nil {
			plan.Exercises = []Exercise{}
		}
		if out.Kind.HasNutrition() {
			if plan.Meals == nil {
				plan.Meals = make(map[MealSlot][]Meal, len(MealSlots))
			}
			for _, s := range MealSlots {
				if plan.Meals[s] == nil {
					plan.Meals[s] = []Meal{}
				}
			}
		}
		out.Days[day] = plan
	}
	return out
}

// CheckShape reports whether every weekday and meal slot is present and no
// unknown keys slipped in.
func (g ScheduleGrid) CheckShape() error {
	if !g.Kind.Valid() {
		return ErrInvalidKind
	}
	if len(g.Days) != len(Weekdays) {
		return fmt.Errorf("%w: grid has %d days", ErrUnknownDay, len(g.Days))
	}
	for _, day := range Weekdays {
		plan, ok := g.Days[day]
		if !ok {
			return fmt.Errorf("%w: %s missing", ErrUnknownDay, day)
		}
		if g.Kind.HasWorkout() && plan.Exercises == nil {
			return fmt.Errorf("%s: exercise list missing", day)
		}
		if g.Kind.HasNutrition() {
			for _, s := range MealSlots {
				if plan.Meals[s] == nil {
					return fmt.Errorf("%w: %s/%s missing", ErrUnknownMealSlot, day, s)
				}
			}
			if len(plan.Meals) != len(MealSlots) {
				return fmt.Errorf("%w on %s", ErrUnknownMealSlot, day)
			}
		}
	}
	return nil
}

// DayCount returns how many entries sit on day across all slots.
func (g ScheduleGrid) DayCount(day Weekday) int {
	plan := g.Days[day]
	n := len(plan.Exercises)
	for _, meals := range plan.Meals {
		n += len(meals)
	}
	return n
}

// EntryCount returns the number of entries in the whole grid.
func (g ScheduleGrid) EntryCount() int {
	n := 0
	for _, day := range Weekdays {
		n += g.DayCount(day)
	}
	return n
}

func (g ScheduleGrid) IsEmpty() bool {
	return g.EntryCount() == 0
}

// DayMacros totals the macros of every meal on day.
func (g ScheduleGrid) DayMacros(day Weekday) Macros {
	var total Macros
	for _, s := range MealSlots {
		for _, m := range g.Days[day].Meals[s] {
			total = total.Add(m.Macros)
		}
	}
	return total
}

// AddEntry returns a copy of g with entry appended to day (and slot, for
// meals). The receiver is left untouched.
func AddEntry(g ScheduleGrid, day Weekday, slot MealSlot, entry Entry) (ScheduleGrid, error) {
	if !day.Valid() {
		return g, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	out := g.Clone()
	plan := out.Days[day]

	switch e := entry.(type) {
	case Exercise:
		if !g.Kind.HasWorkout() {
			return g, ErrEntryKindMismatch
		}
		plan.Exercises = append(plan.Exercises, e)
	case Meal:
		if !g.Kind.HasNutrition() {
			return g, ErrEntryKindMismatch
		}
		if slot == "" {
			return g, ErrMealSlotRequired
		}
		if !slot.Valid() {
			return g, fmt.Errorf("%w: %q", ErrUnknownMealSlot, slot)
		}
		if plan.Meals == nil {
			plan.Meals = emptyDay(g.Kind).Meals
		}
		plan.Meals[slot] = append(plan.Meals[slot], e)
	default:
		return g, fmt.Errorf("%w: %T", ErrEntryKindMismatch, entry)
	}

	out.Days[day] = plan
	return out, nil
}

// RemoveEntry returns a copy of g without the entry id at day (and slot).
// An unknown id is not an error. For combined grids an empty slot targets
// the exercise list.
func RemoveEntry(g ScheduleGrid, day Weekday, slot MealSlot, id string) (ScheduleGrid, error) {
	if !day.Valid() {
		return g, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	out := g.Clone()
	plan := out.Days[day]

	switch {
	case slot == "" && g.Kind.HasWorkout():
		kept := make([]Exercise, 0, len(plan.Exercises))
		for _, e := range plan.Exercises {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		plan.Exercises = kept
	case slot == "":
		return g, ErrMealSlotRequired
	case !g.Kind.HasNutrition():
		return g, ErrEntryKindMismatch
	case !slot.Valid():
		return g, fmt.Errorf("%w: %q", ErrUnknownMealSlot, slot)
	default:
		meals := plan.Meals[slot]
		kept := make([]Meal, 0, len(meals))
		for _, m := range meals {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		if plan.Meals == nil {
			plan.Meals = emptyDay(g.Kind).Meals
		}
		plan.Meals[slot] = kept
	}

	out.Days[day] = plan
	return out, nil
}
