package service

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AssignResult is what a successful Assign reports back to the coach.
type AssignResult struct {
	Assignment *domain.Assignment `json:"assignment"`
	ClientName string             `json:"clientName"`
	Message    string             `json:"message"`
}

// AssignTargets is everything the assign screen offers: the coach's
// published templates and their clients.
type AssignTargets struct {
	Templates []domain.Template      `json:"templates"`
	Clients   []domain.ClientProfile `json:"clients"`
}

// AssignmentView pairs an assignment with the template it points at, read
// live. ContentAvailable is false when the template has been deleted.
type AssignmentView struct {
	Assignment       domain.Assignment `json:"assignment"`
	Template         *domain.Template  `json:"template,omitempty"`
	ContentAvailable bool              `json:"contentAvailable"`
}

type AssignmentService interface {
	Assign(ctx context.Context, actor domain.Actor, templateID, clientID, notes string) (*AssignResult, error)
	Targets(ctx context.Context, actor domain.Actor) (*AssignTargets, error)
	// WatchTargets pushes AssignTargets again whenever the coach's published
	// templates or clients change, until ctx is done.
	WatchTargets(ctx context.Context, actor domain.Actor) (<-chan *AssignTargets, error)
	GetAssignmentsByCoach(ctx context.Context, actor domain.Actor) ([]AssignmentView, error)
	UpdateProgress(ctx context.Context, actor domain.Actor, assignmentID string, progress int, status domain.AssignmentStatus) (*domain.Assignment, error)
	Unassign(ctx context.Context, actor domain.Actor, assignmentID string) error
}

type assignmentService struct {
	templateRepo   repository.TemplateRepository
	assignmentRepo repository.AssignmentRepository
	clientRepo     repository.ClientRepository
	timeout        time.Duration
	log            *logger.Logger
	now            func() time.Time
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
	clientRepo repository.ClientRepository,
	timeout time.Duration,
	log *logger.Logger,
) AssignmentService {
	return &assignmentService{
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		clientRepo:     clientRepo,
		timeout:        timeout,
		log:            log,
		now:            time.Now,
	}
}

// Assign points clientID at a published template. The record ID is
// derived from the pair, so assigning again overwrites the previous record
// (status, progress, dates and notes all reset). A client profile owned by
// another coach is refused; an ID with no profile is accepted and shown raw.
func (s *assignmentService) Assign(ctx context.Context, actor domain.Actor, templateID, clientID, notes string) (*AssignResult, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, domain.ErrNoClientSelected
	}

	t, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if !actor.CanManage(t.OwnerID) {
		return nil, ErrTemplateAccessDenied
	}
	if !t.IsPublished() {
		return nil, domain.ErrTemplateNotPublished
	}
	if err := s.checkClient(ctx, clientID, t.OwnerID); err != nil {
		return nil, err
	}

	a := &domain.Assignment{
		ID:         domain.AssignmentID(clientID, t.ID),
		TemplateID: t.ID,
		ClientID:   clientID,
		CoachID:    t.OwnerID,
		Status:     domain.AssignmentActive,
		Progress:   0,
		StartDate:  s.now().UTC(),
		Notes:      strings.TrimSpace(notes),
	}

	if prev, err := s.assignmentRepo.GetByID(ctx, a.ID); err == nil && prev.Progress > 0 {
		s.log.Warn("re-assignment discards progress",
			"assignmentId", a.ID, "progress", prev.Progress, "status", prev.Status)
	}

	err = persist(ctx, s.timeout, "upsert", repository.AssignmentsCollection, func(ctx context.Context) error {
		return s.assignmentRepo.Upsert(ctx, a)
	})
	if err != nil {
		s.log.Error("assignment write failed", "assignmentId", a.ID, "error", err)
		return nil, err
	}

	// A missing client list only costs us the friendly name.
	clients, err := s.clientRepo.GetByCoachID(ctx, t.OwnerID)
	if err != nil {
		s.log.Warn("could not load clients for display name", "coachId", t.OwnerID, "error", err)
	}
	name := domain.ClientDisplayName(clients, clientID)

	s.log.Info("template assigned", "assignmentId", a.ID, "templateId", t.ID, "clientId", clientID)
	return &AssignResult{
		Assignment: a,
		ClientName: name,
		Message:    fmt.Sprintf("%q assigned to %s", t.Name, name),
	}, nil
}

// checkClient refuses a client profile that another coach manages.
func (s *assignmentService) checkClient(ctx context.Context, clientID, coachID string) error {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrDecode):
		return nil
	case err != nil:
		return err
	case client.CoachID != "" && client.CoachID != coachID:
		s.log.Warn("assign refused: client managed elsewhere", "clientId", clientID, "clientCoachId", client.CoachID, "templateOwner", coachID)
		return ErrClientAccessDenied
	}
	return nil
}

func (s *assignmentService) Targets(ctx context.Context, actor domain.Actor) (*AssignTargets, error) {
	templates, err := s.templateRepo.List(ctx, repository.TemplateFilter{
		OwnerID: actor.ID,
		Status:  domain.TemplatePublished,
	})
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.GetByCoachID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &AssignTargets{Templates: templates, Clients: clients}, nil
}

func (s *assignmentService) WatchTargets(ctx context.Context, actor domain.Actor) (<-chan *AssignTargets, error) {
	ctx, cancel := context.WithCancel(ctx)
	templates, err := s.templateRepo.Subscribe(ctx, repository.TemplateFilter{
		OwnerID: actor.ID,
		Status:  domain.TemplatePublished,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	clients, err := s.clientRepo.Subscribe(ctx, actor.ID)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan *AssignTargets, 1)
	go func() {
		defer cancel()
		defer close(out)

		var latest AssignTargets
		var haveTemplates, haveClients bool
		for templates != nil || clients != nil {
			select {
			case list, ok := <-templates:
				if !ok {
					templates = nil
					continue
				}
				latest.Templates, haveTemplates = list, true
			case list, ok := <-clients:
				if !ok {
					clients = nil
					continue
				}
				latest.Clients, haveClients = list, true
			case <-ctx.Done():
				return
			}
			if !haveTemplates || !haveClients {
				continue
			}
			snapshot := &AssignTargets{Templates: latest.Templates, Clients: latest.Clients}
			select {
			case <-out:
			default:
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *assignmentService) GetAssignmentsByCoach(ctx context.Context, actor domain.Actor) ([]AssignmentView, error) {
	assignments, err := s.assignmentRepo.GetByCoachID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return resolveTemplates(ctx, s.templateRepo, assignments)
}

// resolveTemplates follows each assignment's template pointer. Templates are
// fetched once per ID.
func resolveTemplates(ctx context.Context, repo repository.TemplateRepository, assignments []domain.Assignment) ([]AssignmentView, error) {
	cache := make(map[string]*domain.Template)
	views := make([]AssignmentView, 0, len(assignments))
	for _, a := range assignments {
		t, seen := cache[a.TemplateID]
		if !seen {
			var err error
			t, err = repo.GetByID(ctx, a.TemplateID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrDecode) {
				return nil, err
			}
			cache[a.TemplateID] = t
		}
		views = append(views, AssignmentView{Assignment: a, Template: t.Clone(), ContentAvailable: t != nil})
	}
	return views, nil
}

// UpdateProgress is open to the assigned client and to whoever manages the
// assignment. Reaching 100 does not complete the assignment by itself.
func (s *assignmentService) UpdateProgress(ctx context.Context, actor domain.Actor, assignmentID string, progress int, status domain.AssignmentStatus) (*domain.Assignment, error) {
	if err := domain.ValidateProgress(progress, status); err != nil {
		return nil, err
	}
	a, err := s.loadForUpdate(ctx, actor, assignmentID)
	if err != nil {
		return nil, err
	}

	err = persist(ctx, s.timeout, "update progress", repository.AssignmentsCollection, func(ctx context.Context) error {
		return s.assignmentRepo.UpdateProgress(ctx, a.ID, progress, status)
	}, repository.ErrNotFound)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByID(ctx, a.ID)
}

func (s *assignmentService) loadForUpdate(ctx context.Context, actor domain.Actor, id string) (*domain.Assignment, error) {
	a, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if !(actor.Role == domain.RoleClient && actor.ID == a.ClientID) && !actor.CanManage(a.CoachID) {
		return nil, ErrAssignmentAccessDenied
	}
	return a, nil
}

func (s *assignmentService) Unassign(ctx context.Context, actor domain.Actor, assignmentID string) error {
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if !actor.CanManage(a.CoachID) {
		return ErrAssignmentAccessDenied
	}
	err = persist(ctx, s.timeout, "delete", repository.AssignmentsCollection, func(ctx context.Context) error {
		return s.assignmentRepo.Delete(ctx, a.ID, a.CoachID)
	}, repository.ErrNotFound)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAssignmentNotFound
	}
	return err
}
