package service

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"context"
	"errors"
	"testing"
)

func TestClientAssignmentsResolveVideos(t *testing.T) {
	tpl := workoutTemplate("T1", "coach1", true)
	tpl.Schedule, _ = domain.AddEntry(tpl.Schedule, domain.Tuesday, "", domain.Exercise{
		ID: "e2", Name: "Deadlift", VideoRef: "exercise-videos/coach1/abc.mp4",
	})
	tpl.Schedule, _ = domain.AddEntry(tpl.Schedule, domain.Thursday, "", domain.Exercise{
		ID: "e3", Name: "Lunge", VideoRef: "https://youtu.be/xyz",
	})
	templates := newFakeTemplateRepo(tpl)
	assignments := newFakeAssignmentRepo()
	_ = assignments.Upsert(context.Background(), &domain.Assignment{TemplateID: "T1", ClientID: "C1", CoachID: "coach1", Status: domain.AssignmentActive})
	_ = assignments.Upsert(context.Background(), &domain.Assignment{TemplateID: "T1", ClientID: "C2", CoachID: "coach1", Status: domain.AssignmentActive})

	svc := NewClientService(assignments, templates, &fakeStorage{}, logger.Nop())
	views, err := svc.GetMyAssignments(context.Background(), "C1")
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || !views[0].ContentAvailable {
		t.Fatalf("views = %+v", views)
	}
	days := views[0].Template.Schedule.Days
	if got := days[domain.Tuesday].Exercises[0].VideoRef; got != "https://bucket.example/get/exercise-videos/coach1/abc.mp4" {
		t.Errorf("object key not presigned: %q", got)
	}
	if got := days[domain.Thursday].Exercises[0].VideoRef; got != "https://youtu.be/xyz" {
		t.Errorf("external url changed: %q", got)
	}

	stored, _ := templates.GetByID(context.Background(), "T1")
	if stored.Schedule.Days[domain.Tuesday].Exercises[0].VideoRef != "exercise-videos/coach1/abc.mp4" {
		t.Error("stored template was rewritten")
	}

	if _, err := svc.GetMyAssignment(context.Background(), "C1", "C2_T1"); !errors.Is(err, ErrAssignmentAccessDenied) {
		t.Errorf("reading another client's assignment: %v", err)
	}
	one, err := svc.GetMyAssignment(context.Background(), "C1", "C1_T1")
	if err != nil || one.Template == nil {
		t.Fatalf("GetMyAssignment: %v", err)
	}
}
