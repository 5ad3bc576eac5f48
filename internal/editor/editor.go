// Package editor implements the two-step template authoring workflow.
// Step one collects metadata; step two edits the schedule grid one selected
// day at a time. All edits happen in memory until SaveDraft or Publish.
package editor

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Step is the editor's position in the workflow.
type Step string

const (
	MetadataStep Step = "metadata"
	ScheduleStep Step = "schedule"
)

// Default volume for exercises added without one.
const (
	DefaultSets        = 3
	DefaultReps        = 10
	DefaultRestSeconds = 60
)

var (
	ErrSavePending     = errors.New("a save is already in progress")
	ErrWrongStep       = errors.New("operation not available in the current step")
	ErrSessionNotFound = errors.New("editor session not found")
)

// Persister stores a template and returns the stored version (with ID and
// timestamps filled in).
type Persister interface {
	SaveTemplate(ctx context.Context, t *domain.Template) (*domain.Template, error)
}

// ExerciseDraft is the add-exercise form. Nil volume fields take defaults.
type ExerciseDraft struct {
	Name         string   `json:"name"`
	Sets         *int     `json:"sets,omitempty"`
	Reps         *int     `json:"reps,omitempty"`
	RestSeconds  *int     `json:"restSeconds,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	VideoRef     string   `json:"videoRef,omitempty"`
	MuscleGroups []string `json:"muscleGroups,omitempty"`
}

// DraftFromLibrary pre-fills an exercise form from a library entry.
func DraftFromLibrary(lib domain.LibraryExercise) ExerciseDraft {
	return ExerciseDraft{
		Name:         lib.Name,
		Instructions: lib.Instructions,
		VideoRef:     lib.VideoRef,
		MuscleGroups: append([]string(nil), lib.MuscleGroups...),
	}
}

// MealDraft is the add-meal form. An empty Slot means the selected slot.
type MealDraft struct {
	Name         string          `json:"name"`
	Slot         domain.MealSlot `json:"slot,omitempty"`
	Ingredients  []string        `json:"ingredients,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Macros       domain.Macros   `json:"macros"`
}

// State is a read-only snapshot of an editor.
type State struct {
	Template          *domain.Template                 `json:"template"`
	Step              Step                             `json:"step"`
	SelectedDay       domain.Weekday                   `json:"selectedDay"`
	SelectedMealSlot  domain.MealSlot                  `json:"selectedMealSlot,omitempty"`
	MuscleGroupFilter string                           `json:"muscleGroupFilter,omitempty"`
	Search            string                           `json:"search,omitempty"`
	Saving            bool                             `json:"saving"`
	DayCounts         map[domain.Weekday]int           `json:"dayCounts"`
	DayMacros         map[domain.Weekday]domain.Macros `json:"dayMacros,omitempty"`
}

// Editor holds one template being authored. It is safe for concurrent use;
// while a save is in flight every mutation fails with ErrSavePending.
type Editor struct {
	mu        sync.Mutex
	template  *domain.Template
	step      Step
	day       domain.Weekday
	slot      domain.MealSlot
	muscle    string
	search    string
	saving    bool
	persister Persister
	log       *logger.Logger
}

// New opens an editor on t, which is cloned. A new template starts in the
// metadata step; one that already passes metadata validation opens on the
// schedule.
func New(t *domain.Template, p Persister, log *logger.Logger) *Editor {
	e := &Editor{
		template:  t.Clone(),
		step:      MetadataStep,
		day:       domain.Monday,
		persister: p,
		log:       log,
	}
	if e.template.Kind.HasNutrition() {
		e.slot = domain.Breakfast
	}
	if e.template.ID != "" && e.template.Metadata().Validate() == nil {
		e.step = ScheduleStep
	}
	if e.template.ID == "" {
		// Fixed before the first save so a retried create targets one record.
		e.template.ID = uuid.NewString()
	}
	return e
}

func (e *Editor) stateLocked() State {
	s := State{
		Template:          e.template.Clone(),
		Step:              e.step,
		SelectedDay:       e.day,
		SelectedMealSlot:  e.slot,
		MuscleGroupFilter: e.muscle,
		Search:            e.search,
		Saving:            e.saving,
		DayCounts:         make(map[domain.Weekday]int, len(domain.Weekdays)),
	}
	if e.template.Kind.HasNutrition() {
		s.DayMacros = make(map[domain.Weekday]domain.Macros, len(domain.Weekdays))
	}
	for _, d := range domain.Weekdays {
		s.DayCounts[d] = e.template.Schedule.DayCount(d)
		if s.DayMacros != nil {
			s.DayMacros[d] = e.template.Schedule.DayMacros(d)
		}
	}
	return s
}

// State returns a snapshot of the editor.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Template returns a copy of the template being edited.
func (e *Editor) Template() *domain.Template {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.template.Clone()
}

// edit runs fn under the lock unless a save is pending.
func (e *Editor) edit(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.saving {
		return ErrSavePending
	}
	return fn()
}

// SetMetadata replaces the step-one fields. It does not validate; Next does.
func (e *Editor) SetMetadata(m domain.Metadata) error {
	return e.edit(func() error {
		if e.step != MetadataStep {
			return ErrWrongStep
		}
		t := e.template.Clone()
		t.ApplyMetadata(m)
		e.template = t
		return nil
	})
}

// Next moves from metadata to schedule editing once name, description and
// duration are valid. An empty schedule is fine here.
func (e *Editor) Next() error {
	return e.edit(func() error {
		if e.step == ScheduleStep {
			return nil
		}
		if err := e.template.Metadata().Validate(); err != nil {
			return err
		}
		e.step = ScheduleStep
		return nil
	})
}

// Back returns to the metadata step. The schedule is kept.
func (e *Editor) Back() error {
	return e.edit(func() error {
		e.step = MetadataStep
		return nil
	})
}

func (e *Editor) SelectDay(day domain.Weekday) error {
	return e.edit(func() error {
		if !day.Valid() {
			return domain.ErrUnknownDay
		}
		e.day = day
		return nil
	})
}

func (e *Editor) SelectMealSlot(slot domain.MealSlot) error {
	return e.edit(func() error {
		if !e.template.Kind.HasNutrition() {
			return domain.ErrEntryKindMismatch
		}
		if !slot.Valid() {
			return domain.ErrUnknownMealSlot
		}
		e.slot = slot
		return nil
	})
}

// SetMuscleGroupFilter narrows FilterLibrary. Empty or "all" clears it.
func (e *Editor) SetMuscleGroupFilter(group string) error {
	return e.edit(func() error {
		group = strings.TrimSpace(group)
		if strings.EqualFold(group, "all") {
			group = ""
		}
		e.muscle = group
		return nil
	})
}

func (e *Editor) SetSearch(q string) error {
	return e.edit(func() error {
		e.search = strings.TrimSpace(q)
		return nil
	})
}

// FilterLibrary returns the library exercises matching the current muscle
// group filter and search text. It never touches the template.
func (e *Editor) FilterLibrary(library []domain.LibraryExercise) []domain.LibraryExercise {
	e.mu.Lock()
	muscle, search := strings.ToLower(e.muscle), strings.ToLower(e.search)
	e.mu.Unlock()

	out := make([]domain.LibraryExercise, 0, len(library))
	for _, ex := range library {
		if muscle != "" && !hasFold(ex.MuscleGroups, muscle) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(ex.Name), search) &&
			!strings.Contains(strings.ToLower(ex.Description), search) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func hasFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// AddExercise appends an exercise to the selected day.
func (e *Editor) AddExercise(d ExerciseDraft) (domain.Exercise, error) {
	var added domain.Exercise
	err := e.edit(func() error {
		if e.step != ScheduleStep {
			return ErrWrongStep
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return domain.ErrEmptyEntryName
		}
		ex := domain.Exercise{
			ID:           uuid.NewString(),
			Name:         name,
			Sets:         orDefault(d.Sets, DefaultSets),
			Reps:         orDefault(d.Reps, DefaultReps),
			RestSeconds:  orDefault(d.RestSeconds, DefaultRestSeconds),
			Instructions: strings.TrimSpace(d.Instructions),
			VideoRef:     strings.TrimSpace(d.VideoRef),
			MuscleGroups: domain.NormalizeTags(d.MuscleGroups),
		}
		if ex.Sets < 0 || ex.Reps < 0 || ex.RestSeconds < 0 {
			return domain.ErrNegativeVolume
		}
		grid, err := domain.AddEntry(e.template.Schedule, e.day, "", ex)
		if err != nil {
			return err
		}
		e.setSchedule(grid)
		added = ex
		return nil
	})
	return added, err
}

// AddMeal appends a meal to the selected day, in d.Slot or the selected slot.
func (e *Editor) AddMeal(d MealDraft) (domain.Meal, error) {
	var added domain.Meal
	err := e.edit(func() error {
		if e.step != ScheduleStep {
			return ErrWrongStep
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return domain.ErrEmptyEntryName
		}
		if !d.Macros.Valid() {
			return domain.ErrNegativeMacro
		}
		slot := d.Slot
		if slot == "" {
			slot = e.slot
		}
		meal := domain.Meal{
			ID:           uuid.NewString(),
			Name:         name,
			Ingredients:  trimAll(d.Ingredients),
			Instructions: strings.TrimSpace(d.Instructions),
			Macros:       d.Macros,
		}
		grid, err := domain.AddEntry(e.template.Schedule, e.day, slot, meal)
		if err != nil {
			return err
		}
		e.setSchedule(grid)
		added = meal
		return nil
	})
	return added, err
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RemoveEntry drops entry id from the selected day. slot picks a meal slot;
// empty means the exercise list, or the selected meal slot on a
// nutrition-only template. Allowed whatever the template's status.
func (e *Editor) RemoveEntry(slot domain.MealSlot, id string) error {
	return e.edit(func() error {
		if e.step != ScheduleStep {
			return ErrWrongStep
		}
		if slot == "" && !e.template.Kind.HasWorkout() {
			slot = e.slot
		}
		grid, err := domain.RemoveEntry(e.template.Schedule, e.day, slot, id)
		if err != nil {
			return err
		}
		e.setSchedule(grid)
		return nil
	})
}

// setSchedule swaps in a new template value so snapshots already handed out
// never change underneath their holders.
func (e *Editor) setSchedule(grid domain.ScheduleGrid) {
	t := *e.template
	t.Schedule = grid
	e.template = &t
}

// SaveDraft persists the template as a draft. The schedule may be empty.
func (e *Editor) SaveDraft(ctx context.Context) (*domain.Template, error) {
	return e.save(ctx, func(t *domain.Template) error {
		if err := t.ValidateDraft(); err != nil {
			return err
		}
		t.Unpublish()
		return nil
	})
}

// Publish validates everything and persists the template as published. On
// any failure the editor state is unchanged.
func (e *Editor) Publish(ctx context.Context) (*domain.Template, error) {
	return e.save(ctx, func(t *domain.Template) error {
		return t.Publish()
	})
}

func (e *Editor) save(ctx context.Context, prepare func(*domain.Template) error) (*domain.Template, error) {
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return nil, ErrSavePending
	}
	snapshot := e.template.Clone()
	if err := prepare(snapshot); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.saving = true
	e.mu.Unlock()

	saved, err := e.persister.SaveTemplate(ctx, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	if err != nil {
		e.log.Warn("template save failed", "templateId", snapshot.ID, "status", snapshot.Status, "error", err)
		return nil, err
	}
	e.template = saved.Clone()
	return saved.Clone(), nil
}
