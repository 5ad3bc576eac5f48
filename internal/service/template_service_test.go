package service

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"errors"
	"testing"
	"time"
)

func TestSaveTemplateCreateThenUpdate(t *testing.T) {
	repo := newFakeTemplateRepo()
	svc := NewTemplateService(repo, time.Second, logger.Nop())
	ctx := context.Background()

	draft := domain.NewTemplate("coach1", domain.KindNutrition)
	created, err := svc.SaveTemplate(ctx, draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.UpdatedAt.IsZero() {
		t.Fatalf("create did not stamp id/updatedAt: %+v", created)
	}
	if draft.ID != "" {
		t.Error("caller's template was modified")
	}

	created.Name = "Cut"
	updated, err := svc.SaveTemplate(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("updatedAt went backwards")
	}
	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Name != "Cut" {
		t.Errorf("stored name %q", stored.Name)
	}
}

func TestSaveTemplateRetryAfterTimeout(t *testing.T) {
	repo := newFakeTemplateRepo()
	repo.stallCreate = true
	svc := NewTemplateService(repo, 20*time.Millisecond, logger.Nop())
	ctx := context.Background()

	tpl := domain.NewTemplate("coach1", domain.KindWorkout)
	tpl.ID = "draft-1"
	tpl.Name = "First"

	_, err := svc.SaveTemplate(ctx, tpl)
	var perr *PersistenceError
	if !errors.As(err, &perr) || !perr.Timeout() {
		t.Fatalf("first save: want timeout PersistenceError, got %v", err)
	}

	tpl.Name = "Second"
	if _, err := svc.SaveTemplate(ctx, tpl); !errors.As(err, &perr) {
		t.Fatalf("retry: want PersistenceError, got %v", err)
	}

	repo.mu.Lock()
	repo.stallCreate = false
	repo.mu.Unlock()
	saved, err := svc.SaveTemplate(ctx, tpl)
	if err != nil {
		t.Fatalf("final retry: %v", err)
	}
	if saved.ID != "draft-1" {
		t.Errorf("saved under %q", saved.ID)
	}
	if repo.creates != 3 || len(repo.templates) != 1 {
		t.Fatalf("creates=%d stored=%d, want 3 writes of one template", repo.creates, len(repo.templates))
	}
	if got := repo.templates["draft-1"].Name; got != "Second" {
		t.Errorf("stored name %q, want the latest content", got)
	}
}

func TestSaveTemplateGuardsPublished(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(), time.Second, logger.Nop())
	tpl := domain.NewTemplate("coach1", domain.KindWorkout)
	tpl.ApplyMetadata(domain.Metadata{Name: "A", Description: "B", DurationWeeks: 1})
	tpl.Status = domain.TemplatePublished

	if _, err := svc.SaveTemplate(context.Background(), tpl); !errors.Is(err, domain.ErrEmptySchedule) {
		t.Fatalf("published empty template saved: %v", err)
	}

	tpl.DurationWeeks = 0
	tpl.Status = domain.TemplateDraft
	if _, err := svc.SaveTemplate(context.Background(), tpl); !errors.Is(err, domain.ErrInvalidDuration) {
		t.Fatalf("draft with zero duration saved: %v", err)
	}
}

func TestSaveTemplateMissingRecord(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo(), time.Second, logger.Nop())
	tpl := workoutTemplate("gone", "coach1", false)
	if _, err := svc.SaveTemplate(context.Background(), tpl); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestTemplateAccessAndLifecycle(t *testing.T) {
	repo := newFakeTemplateRepo(workoutTemplate("T1", "coach1", true), workoutTemplate("T2", "coach2", false))
	svc := NewTemplateService(repo, time.Second, logger.Nop())
	ctx := context.Background()

	if _, err := svc.GetTemplate(ctx, coach1, "T2"); !errors.Is(err, ErrTemplateAccessDenied) {
		t.Errorf("foreign template: %v", err)
	}
	if _, err := svc.GetTemplate(ctx, coach1, "nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("missing template: %v", err)
	}

	list, err := svc.ListTemplates(ctx, coach1, repository.TemplateFilter{OwnerID: "coach2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "T1" {
		t.Errorf("coach saw other templates: %+v", list)
	}
	staff := domain.Actor{ID: "s1", Role: domain.RoleStaff}
	if all, _ := svc.ListTemplates(ctx, staff, repository.TemplateFilter{}); len(all) != 2 {
		t.Errorf("staff list = %d, want 2", len(all))
	}

	un, err := svc.Unpublish(ctx, coach1, "T1")
	if err != nil {
		t.Fatal(err)
	}
	if un.Status != domain.TemplateDraft || un.Schedule.EntryCount() != 1 {
		t.Errorf("unpublish lost data or status: %+v", un)
	}

	if err := svc.DeleteTemplate(ctx, coach1, "T1"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, "T1"); !errors.Is(err, repository.ErrNotFound) {
		t.Error("template not deleted")
	}
}
