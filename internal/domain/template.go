// internal/domain/template.go
package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// TemplateKind fixes what a template's schedule holds. It never changes
// after creation.
type TemplateKind string

const (
	KindWorkout   TemplateKind = "workout"
	KindNutrition TemplateKind = "nutrition"
	KindCombined  TemplateKind = "combined"
)

func (k TemplateKind) Valid() bool {
	return k == KindWorkout || k == KindNutrition || k == KindCombined
}

func (k TemplateKind) HasWorkout() bool   { return k == KindWorkout || k == KindCombined }
func (k TemplateKind) HasNutrition() bool { return k == KindNutrition || k == KindCombined }

// Difficulty of a template.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	return d == Beginner || d == Intermediate || d == Advanced
}

// TemplateStatus is the authoring lifecycle state.
type TemplateStatus string

const (
	TemplateDraft     TemplateStatus = "draft"
	TemplatePublished TemplateStatus = "published"
)

// Template is a reusable, coach-authored plan. Assignments point at it by ID,
// so edits here are visible to every assigned client.
type Template struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	OwnerID       string         `bson:"ownerId" json:"ownerId"`
	Name          string         `bson:"name" json:"name"`
	Description   string         `bson:"description" json:"description"`
	Kind          TemplateKind   `bson:"kind" json:"kind"`
	Difficulty    Difficulty     `bson:"difficulty" json:"difficulty"`
	DurationWeeks int            `bson:"durationWeeks" json:"durationWeeks"`
	Tags          []string       `bson:"tags" json:"tags"`
	Status        TemplateStatus `bson:"status" json:"status"`
	Schedule      ScheduleGrid   `bson:"schedule" json:"schedule"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// NewTemplate returns an empty draft for ownerID.
func NewTemplate(ownerID string, kind TemplateKind) *Template {
	return &Template{
		OwnerID:       ownerID,
		Kind:          kind,
		Difficulty:    Beginner,
		DurationWeeks: 1,
		Tags:          []string{},
		Status:        TemplateDraft,
		Schedule:      EmptyGrid(kind),
	}
}

// Clone deep-copies the template.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	out := *t
	out.Tags = cloneStrings(t.Tags)
	out.Schedule = t.Schedule.Clone()
	return &out
}

// Metadata is the step-one part of a template.
type Metadata struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Difficulty    Difficulty `json:"difficulty"`
	DurationWeeks int        `json:"durationWeeks"`
	Tags          []string   `json:"tags"`
}

// Metadata extracts the step-one fields.
func (t *Template) Metadata() Metadata {
	return Metadata{
		Name:          t.Name,
		Description:   t.Description,
		Difficulty:    t.Difficulty,
		DurationWeeks: t.DurationWeeks,
		Tags:          cloneStrings(t.Tags),
	}
}

// ApplyMetadata copies m onto t, trimming text and collapsing tags. Kind and
// owner are never touched.
func (t *Template) ApplyMetadata(m Metadata) {
	t.Name = strings.TrimSpace(m.Name)
	t.Description = strings.TrimSpace(m.Description)
	if m.Difficulty != "" {
		t.Difficulty = m.Difficulty
	}
	t.DurationWeeks = m.DurationWeeks
	t.Tags = NormalizeTags(m.Tags)
}

// NormalizeTags trims, drops empties and duplicates (case-insensitively) and
// sorts, so a tag list behaves like a set.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

// Validate checks the fields gating the move from metadata to
// schedule editing. All failures are returned together.
func (m Metadata) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, ErrEmptyName)
	}
	if strings.TrimSpace(m.Description) == "" {
		errs = append(errs, ErrEmptyDescription)
	}
	if m.DurationWeeks < 1 {
		errs = append(errs, ErrInvalidDuration)
	}
	if m.Difficulty != "" && !m.Difficulty.Valid() {
		errs = append(errs, ErrInvalidLevel)
	}
	return errors.Join(errs...)
}

// ValidateDraft checks only what must hold even for an incomplete template.
func (t *Template) ValidateDraft() error {
	var errs []error
	if !t.Kind.Valid() || t.Schedule.Kind != t.Kind {
		errs = append(errs, ErrInvalidKind)
	}
	if t.DurationWeeks < 1 {
		errs = append(errs, ErrInvalidDuration)
	}
	if t.Difficulty != "" && !t.Difficulty.Valid() {
		errs = append(errs, ErrInvalidLevel)
	}
	return errors.Join(errs...)
}

// ValidateForPublish runs every publish gate.
func (t *Template) ValidateForPublish() error {
	errs := []error{t.Metadata().Validate()}
	if !t.Kind.Valid() || t.Schedule.Kind != t.Kind {
		errs = append(errs, ErrInvalidKind)
	}
	if t.Schedule.IsEmpty() {
		errs = append(errs, ErrEmptySchedule)
	}
	return errors.Join(errs...)
}

// Publish validates t and flips it to published. On failure t is unchanged.
func (t *Template) Publish() error {
	if err := t.ValidateForPublish(); err != nil {
		return err
	}
	t.Status = TemplatePublished
	return nil
}

// Unpublish reverts t to draft without touching its content.
func (t *Template) Unpublish() {
	t.Status = TemplateDraft
}

func (t *Template) IsPublished() bool {
	return t.Status == TemplatePublished
}
