package repository

import (
	"coachdesk/planner/internal/domain"
	"context"
	"time"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrDecode       = RepositoryError("stored record is malformed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Collection names shared with the other screens of the product.
const (
	TemplatesCollection    = "templates"
	AssignmentsCollection  = "template_assignments"
	ClientsCollection      = "client_profiles"
	AppointmentsCollection = "appointments"
	ExercisesCollection    = "exercises"
)

// TemplateFilter narrows template reads. Empty fields match everything.
type TemplateFilter struct {
	OwnerID string
	Kind    domain.TemplateKind
	Status  domain.TemplateStatus
}

// TemplateRepository persists templates.
type TemplateRepository interface {
	// Create assigns an ID and timestamps and inserts t.
	Create(ctx context.Context, t *domain.Template) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context, filter TemplateFilter) ([]domain.Template, error)
	// Update replaces the stored template, stamping UpdatedAt. Owner, kind
	// and creation time are kept from the stored record.
	Update(ctx context.Context, t *domain.Template) error
	Delete(ctx context.Context, id, ownerID string) error
	// Subscribe pushes the full matching list now and after every change
	// until ctx is done.
	Subscribe(ctx context.Context, filter TemplateFilter) (<-chan []domain.Template, error)
}

// AssignmentRepository persists template assignments.
type AssignmentRepository interface {
	// Upsert writes a by its deterministic ID, creating or overwriting.
	Upsert(ctx context.Context, a *domain.Assignment) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	GetByClientID(ctx context.Context, clientID string) ([]domain.Assignment, error)
	GetByCoachID(ctx context.Context, coachID string) ([]domain.Assignment, error)
	UpdateProgress(ctx context.Context, id string, progress int, status domain.AssignmentStatus) error
	Delete(ctx context.Context, id, coachID string) error
}

// ClientRepository reads client profiles. Profiles are owned by other parts
// of the product; this subsystem never writes them.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ClientProfile, error)
	GetByCoachID(ctx context.Context, coachID string) ([]domain.ClientProfile, error)
	Subscribe(ctx context.Context, coachID string) (<-chan []domain.ClientProfile, error)
}

// AppointmentRepository reads the coach's calendar.
type AppointmentRepository interface {
	// GetByCoachBetween returns appointments starting in [from, to), plus any
	// whose start could not be read.
	GetByCoachBetween(ctx context.Context, coachID string, from, to time.Time) ([]domain.Appointment, error)
	Subscribe(ctx context.Context, coachID string, from, to time.Time) (<-chan []domain.Appointment, error)
}

// ExerciseRepository stores a coach's exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.LibraryExercise) (string, error)
	GetByID(ctx context.Context, id string) (*domain.LibraryExercise, error)
	GetByCoachID(ctx context.Context, coachID string) ([]domain.LibraryExercise, error)
	Delete(ctx context.Context, id, coachID string) error // ensure coach owns the exercise
}
