package service

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TemplateService owns template persistence and the publish gate.
type TemplateService interface {
	// SaveTemplate creates t until it has been stored once (zero CreatedAt),
	// otherwise updates it. Creates are keyed by t.ID, minted here when
	// empty, so retrying a create never stores a second copy. A template
	// marked published must pass full validation.
	SaveTemplate(ctx context.Context, t *domain.Template) (*domain.Template, error)
	GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.Template, error)
	ListTemplates(ctx context.Context, actor domain.Actor, filter repository.TemplateFilter) ([]domain.Template, error)
	WatchTemplates(ctx context.Context, actor domain.Actor, filter repository.TemplateFilter) (<-chan []domain.Template, error)
	Unpublish(ctx context.Context, actor domain.Actor, id string) (*domain.Template, error)
	// DeleteTemplate removes the template only. Its assignments stay and
	// read as "content unavailable".
	DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
	timeout      time.Duration
	log          *logger.Logger
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository, timeout time.Duration, log *logger.Logger) TemplateService {
	return &templateService{templateRepo: templateRepo, timeout: timeout, log: log}
}

func (s *templateService) SaveTemplate(ctx context.Context, t *domain.Template) (*domain.Template, error) {
	if t.OwnerID == "" {
		return nil, errors.New("template owner is required")
	}
	if err := t.ValidateDraft(); err != nil {
		return nil, err
	}
	if t.IsPublished() {
		if err := t.ValidateForPublish(); err != nil {
			return nil, err
		}
	}

	out := t.Clone()
	if out.CreatedAt.IsZero() {
		if out.ID == "" {
			out.ID = uuid.NewString()
		}
		err := persist(ctx, s.timeout, "create", repository.TemplatesCollection, func(ctx context.Context) error {
			_, err := s.templateRepo.Create(ctx, out)
			return err
		})
		if err != nil {
			s.log.Error("template create failed", "templateId", out.ID, "ownerId", out.OwnerID, "error", err)
			return nil, err
		}
		s.log.Info("template created", "templateId", out.ID, "ownerId", out.OwnerID, "status", out.Status)
		return out, nil
	}

	err := persist(ctx, s.timeout, "update", repository.TemplatesCollection, func(ctx context.Context) error {
		return s.templateRepo.Update(ctx, out)
	}, repository.ErrNotFound)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		s.log.Error("template update failed", "templateId", out.ID, "error", err)
		return nil, err
	}
	s.log.Info("template saved", "templateId", out.ID, "status", out.Status)
	return out, nil
}

// load fetches a template the actor may manage.
func (s *templateService) load(ctx context.Context, actor domain.Actor, id string) (*domain.Template, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	if !actor.CanManage(t.OwnerID) {
		return nil, ErrTemplateAccessDenied
	}
	return t, nil
}

func (s *templateService) GetTemplate(ctx context.Context, actor domain.Actor, id string) (*domain.Template, error) {
	return s.load(ctx, actor, id)
}

// scope pins coaches to their own templates.
func scope(actor domain.Actor, filter repository.TemplateFilter) repository.TemplateFilter {
	if actor.Role != domain.RoleStaff {
		filter.OwnerID = actor.ID
	}
	return filter
}

func (s *templateService) ListTemplates(ctx context.Context, actor domain.Actor, filter repository.TemplateFilter) ([]domain.Template, error) {
	return s.templateRepo.List(ctx, scope(actor, filter))
}

func (s *templateService) WatchTemplates(ctx context.Context, actor domain.Actor, filter repository.TemplateFilter) (<-chan []domain.Template, error) {
	return s.templateRepo.Subscribe(ctx, scope(actor, filter))
}

func (s *templateService) Unpublish(ctx context.Context, actor domain.Actor, id string) (*domain.Template, error) {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !t.IsPublished() {
		return t, nil
	}
	t.Unpublish()
	return s.SaveTemplate(ctx, t)
}

func (s *templateService) DeleteTemplate(ctx context.Context, actor domain.Actor, id string) error {
	t, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	err = persist(ctx, s.timeout, "delete", repository.TemplatesCollection, func(ctx context.Context) error {
		return s.templateRepo.Delete(ctx, t.ID, t.OwnerID)
	}, repository.ErrNotFound)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateNotFound
	}
	if err != nil {
		return err
	}
	s.log.Info("template deleted", "templateId", t.ID, "by", actor.ID)
	return nil
}
