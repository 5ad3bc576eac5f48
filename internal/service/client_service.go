package service

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"coachdesk/planner/internal/storage"
	"context"
	"errors"
)

// ClientService serves the client's side: the templates assigned to them,
// with exercise videos turned into playable URLs.
type ClientService interface {
	GetMyAssignments(ctx context.Context, clientID string) ([]AssignmentView, error)
	GetMyAssignment(ctx context.Context, clientID, assignmentID string) (*AssignmentView, error)
}

type clientService struct {
	assignmentRepo repository.AssignmentRepository
	templateRepo   repository.TemplateRepository
	fileStorage    storage.FileStorage // may be nil
	log            *logger.Logger
}

// NewClientService creates a new instance of clientService. fileStorage may
// be nil, in which case video object keys are returned as stored.
func NewClientService(
	assignmentRepo repository.AssignmentRepository,
	templateRepo repository.TemplateRepository,
	fileStorage storage.FileStorage,
	log *logger.Logger,
) ClientService {
	return &clientService{
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
		fileStorage:    fileStorage,
		log:            log,
	}
}

func (s *clientService) GetMyAssignments(ctx context.Context, clientID string) ([]AssignmentView, error) {
	assignments, err := s.assignmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	views, err := resolveTemplates(ctx, s.templateRepo, assignments)
	if err != nil {
		return nil, err
	}
	for i := range views {
		s.resolveVideos(ctx, views[i].Template)
	}
	return views, nil
}

func (s *clientService) GetMyAssignment(ctx context.Context, clientID, assignmentID string) (*AssignmentView, error) {
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if a.ClientID != clientID {
		return nil, ErrAssignmentAccessDenied
	}
	views, err := resolveTemplates(ctx, s.templateRepo, []domain.Assignment{*a})
	if err != nil {
		return nil, err
	}
	s.resolveVideos(ctx, views[0].Template)
	return &views[0], nil
}

// resolveVideos replaces stored video object keys with presigned download
// URLs. External URLs pass through; failures leave the key in place.
func (s *clientService) resolveVideos(ctx context.Context, t *domain.Template) {
	if t == nil || s.fileStorage == nil || !t.Kind.HasWorkout() {
		return
	}
	urls := make(map[string]string)
	for day, plan := range t.Schedule.Days {
		for i, ex := range plan.Exercises {
			if !storage.IsObjectKey(ex.VideoRef) {
				continue
			}
			url, ok := urls[ex.VideoRef]
			if !ok {
				var err error
				url, err = s.fileStorage.GeneratePresignedDownloadURL(ctx, ex.VideoRef, storage.DefaultPresignedURLExpiry)
				if err != nil {
					s.log.Warn("could not presign exercise video", "key", ex.VideoRef, "error", err)
					continue
				}
				urls[ex.VideoRef] = url
			}
			plan.Exercises[i].VideoRef = url
		}
		t.Schedule.Days[day] = plan
	}
}
