package service

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"coachdesk/planner/internal/storage"
	"context"
	"errors"
	"strings"
	"time"
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // store this as the exercise's videoRef
}

// LibraryExerciseInput is the create form of a library exercise.
type LibraryExerciseInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	MuscleGroups []string `json:"muscleGroups"`
	Instructions string   `json:"instructions"`
	VideoRef     string   `json:"videoRef"`
}

// ExerciseService manages a coach's exercise library and demo video uploads.
type ExerciseService interface {
	CreateExercise(ctx context.Context, actor domain.Actor, in LibraryExerciseInput) (*domain.LibraryExercise, error)
	GetExercisesByCoach(ctx context.Context, actor domain.Actor) ([]domain.LibraryExercise, error)
	DeleteExercise(ctx context.Context, actor domain.Actor, exerciseID string) error
	RequestVideoUpload(ctx context.Context, actor domain.Actor, contentType string) (*UploadURLResponse, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage // may be nil
	timeout      time.Duration
	log          *logger.Logger
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage, timeout time.Duration, log *logger.Logger) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
		timeout:      timeout,
		log:          log,
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, actor domain.Actor, in LibraryExerciseInput) (*domain.LibraryExercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyEntryName
	}
	ref := strings.TrimSpace(in.VideoRef)
	if storage.IsObjectKey(ref) && !storage.OwnsKey(ref, actor.ID) {
		return nil, ErrVideoAccessDenied
	}

	exercise := &domain.LibraryExercise{
		CoachID:      actor.ID,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		MuscleGroups: domain.NormalizeTags(in.MuscleGroups),
		Instructions: strings.TrimSpace(in.Instructions),
		VideoRef:     ref,
	}
	err := persist(ctx, s.timeout, "create", repository.ExercisesCollection, func(ctx context.Context) error {
		_, err := s.exerciseRepo.Create(ctx, exercise)
		return err
	})
	if err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) GetExercisesByCoach(ctx context.Context, actor domain.Actor) ([]domain.LibraryExercise, error) {
	return s.exerciseRepo.GetByCoachID(ctx, actor.ID)
}

// DeleteExercise removes a library entry and, when the video lives in our
// bucket, the video too. Templates that copied the exercise keep their copy
// but lose the video.
func (s *exerciseService) DeleteExercise(ctx context.Context, actor domain.Actor, exerciseID string) error {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	if !actor.CanManage(exercise.CoachID) {
		return ErrExerciseAccessDenied
	}

	err = persist(ctx, s.timeout, "delete", repository.ExercisesCollection, func(ctx context.Context) error {
		return s.exerciseRepo.Delete(ctx, exercise.ID, exercise.CoachID)
	}, repository.ErrNotFound)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	if err != nil {
		return err
	}

	if s.fileStorage != nil && storage.IsObjectKey(exercise.VideoRef) {
		if err := s.fileStorage.DeleteObject(ctx, exercise.VideoRef); err != nil {
			// The library entry is gone; an orphaned object is only a cost.
			s.log.Warn("exercise video not deleted", "key", exercise.VideoRef, "error", err)
		}
	}
	return nil
}

func (s *exerciseService) RequestVideoUpload(ctx context.Context, actor domain.Actor, contentType string) (*UploadURLResponse, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageUnavailable
	}
	key, err := storage.NewVideoKey(actor.ID, contentType)
	if err != nil {
		return nil, err
	}
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadURLResponse{UploadURL: url, ObjectKey: key}, nil
}
