package service

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/repository"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type fakeTemplateRepo struct {
	mu          sync.Mutex
	templates   map[string]*domain.Template
	seq         int
	creates     int
	stallCreate bool // store, then hold the call until ctx expires
}

func newFakeTemplateRepo(ts ...*domain.Template) *fakeTemplateRepo {
	r := &fakeTemplateRepo{templates: make(map[string]*domain.Template)}
	for _, t := range ts {
		r.templates[t.ID] = t.Clone()
	}
	return r
}

func (r *fakeTemplateRepo) Create(ctx context.Context, t *domain.Template) (string, error) {
	r.mu.Lock()
	r.creates++
	if t.ID == "" {
		r.seq++
		t.ID = fmt.Sprintf("T%d", r.seq)
	}
	now := time.Now()
	if cur, ok := r.templates[t.ID]; ok {
		if cur.OwnerID != t.OwnerID {
			r.mu.Unlock()
			return "", fmt.Errorf("duplicate key %s", t.ID)
		}
		t.CreatedAt = cur.CreatedAt
	} else {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	r.templates[t.ID] = t.Clone()
	stall := r.stallCreate
	r.mu.Unlock()

	if stall {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return t.ID, nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t.Clone(), nil
}

func (r *fakeTemplateRepo) List(ctx context.Context, f repository.TemplateFilter) ([]domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Template{}
	for _, t := range r.templates {
		if f.OwnerID != "" && t.OwnerID != f.OwnerID {
			continue
		}
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, *t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.templates[t.ID]
	if !ok || cur.OwnerID != t.OwnerID {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	r.templates[t.ID] = t.Clone()
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.templates[id]
	if !ok || cur.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) Subscribe(ctx context.Context, f repository.TemplateFilter) (<-chan []domain.Template, error) {
	list, _ := r.List(ctx, f)
	ch := make(chan []domain.Template, 1)
	ch <- list
	close(ch)
	return ch, nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[string]domain.Assignment
	upserts     int
	blockUpsert bool
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]domain.Assignment)}
}

func (r *fakeAssignmentRepo) Upsert(ctx context.Context, a *domain.Assignment) error {
	if r.blockUpsert {
		<-ctx.Done()
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	a.ID = domain.AssignmentID(a.ClientID, a.TemplateID)
	r.assignments[a.ID] = *a
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAssignmentRepo) filter(keep func(domain.Assignment) bool) []domain.Assignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Assignment{}
	for _, a := range r.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeAssignmentRepo) GetByClientID(ctx context.Context, clientID string) ([]domain.Assignment, error) {
	return r.filter(func(a domain.Assignment) bool { return a.ClientID == clientID }), nil
}

func (r *fakeAssignmentRepo) GetByCoachID(ctx context.Context, coachID string) ([]domain.Assignment, error) {
	return r.filter(func(a domain.Assignment) bool { return a.CoachID == coachID }), nil
}

func (r *fakeAssignmentRepo) UpdateProgress(ctx context.Context, id string, progress int, status domain.AssignmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Progress = progress
	if status != "" {
		a.Status = status
	}
	r.assignments[id] = a
	return nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id, coachID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok || a.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.assignments, id)
	return nil
}

type fakeClientRepo struct {
	clients []domain.ClientProfile
	err     error
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id string) (*domain.ClientProfile, error) {
	for _, c := range r.clients {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeClientRepo) GetByCoachID(ctx context.Context, coachID string) ([]domain.ClientProfile, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.ClientProfile{}
	for _, c := range r.clients {
		if c.CoachID == coachID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Subscribe(ctx context.Context, coachID string) (<-chan []domain.ClientProfile, error) {
	list, err := r.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	ch := make(chan []domain.ClientProfile, 1)
	ch <- list
	close(ch)
	return ch, nil
}

type fakeAppointmentRepo struct {
	appointments []domain.Appointment
	pushes       [][]domain.Appointment
	from, to     time.Time
}

func (r *fakeAppointmentRepo) GetByCoachBetween(ctx context.Context, coachID string, from, to time.Time) ([]domain.Appointment, error) {
	r.from, r.to = from, to
	out := []domain.Appointment{}
	for _, a := range r.appointments {
		if a.CoachID == coachID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Subscribe(ctx context.Context, coachID string, from, to time.Time) (<-chan []domain.Appointment, error) {
	ch := make(chan []domain.Appointment, len(r.pushes))
	for _, p := range r.pushes {
		ch <- p
	}
	close(ch)
	return ch, nil
}

type fakeExerciseRepo struct {
	exercises map[string]domain.LibraryExercise
	seq       int
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[string]domain.LibraryExercise)}
}

func (r *fakeExerciseRepo) Create(ctx context.Context, e *domain.LibraryExercise) (string, error) {
	r.seq++
	e.ID = fmt.Sprintf("E%d", r.seq)
	r.exercises[e.ID] = *e
	return e.ID, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id string) (*domain.LibraryExercise, error) {
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeExerciseRepo) GetByCoachID(ctx context.Context, coachID string) ([]domain.LibraryExercise, error) {
	out := []domain.LibraryExercise{}
	for _, e := range r.exercises {
		if e.CoachID == coachID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Delete(ctx context.Context, id, coachID string) error {
	e, ok := r.exercises[id]
	if !ok || e.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakeStorage struct {
	deleted []string
}

func (s *fakeStorage) GeneratePresignedUploadURL(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return "https://bucket.example/put/" + key, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://bucket.example/get/" + key, nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}
