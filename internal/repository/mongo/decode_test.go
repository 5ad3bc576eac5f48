package mongo

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/repository"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func rawDoc(t *testing.T, doc bson.M) bson.Raw {
	t.Helper()
	b, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bson.Raw(b)
}

func TestDecodeTemplateFillsMissingDays(t *testing.T) {
	raw := rawDoc(t, bson.M{
		"_id":           "T1",
		"ownerId":       "coach-1",
		"name":          "Push Pull",
		"kind":          "combined",
		"status":        "published",
		"durationWeeks": 4,
		"schedule": bson.M{
			"days": bson.M{
				"monday": bson.M{
					"exercises": bson.A{bson.M{"id": "e1", "name": "Bench", "sets": 3, "reps": 8}},
				},
			},
		},
	})

	tpl, err := decodeTemplate(raw)
	if err != nil {
		t.Fatalf("decodeTemplate: %v", err)
	}
	if tpl.ID != "T1" || !tpl.IsPublished() {
		t.Fatalf("got id=%q status=%q", tpl.ID, tpl.Status)
	}
	if tpl.Schedule.Kind != domain.KindCombined {
		t.Fatalf("schedule kind = %q, want combined", tpl.Schedule.Kind)
	}
	if err := tpl.Schedule.CheckShape(); err != nil {
		t.Fatalf("normalized grid has bad shape: %v", err)
	}
	if got := tpl.Schedule.DayCount(domain.Monday); got != 1 {
		t.Fatalf("monday count = %d, want 1", got)
	}
	if tpl.Tags == nil {
		t.Fatal("tags should be an empty list, not nil")
	}
}

func TestDecodeTemplateObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	raw := rawDoc(t, bson.M{"_id": oid, "ownerId": "coach-1", "kind": "workout", "durationWeeks": 1})

	tpl, err := decodeTemplate(raw)
	if err != nil {
		t.Fatalf("decodeTemplate: %v", err)
	}
	if tpl.ID != oid.Hex() {
		t.Fatalf("id = %q, want %q", tpl.ID, oid.Hex())
	}
	if tpl.Status != domain.TemplateDraft {
		t.Fatalf("status = %q, want draft", tpl.Status)
	}
}

func TestDecodeTemplateRejectsMalformed(t *testing.T) {
	cases := map[string]bson.M{
		"no owner":      {"_id": "T1", "kind": "workout"},
		"unknown kind":  {"_id": "T1", "ownerId": "c", "kind": "yoga"},
		"kind mismatch": {"_id": "T1", "ownerId": "c", "kind": "workout", "schedule": bson.M{"kind": "nutrition"}},
		"unknown day":   {"_id": "T1", "ownerId": "c", "kind": "workout", "schedule": bson.M{"days": bson.M{"funday": bson.M{}}}},
		"wrong type":    {"_id": "T1", "ownerId": "c", "kind": "workout", "durationWeeks": "four"},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeTemplate(rawDoc(t, doc))
			if !errors.Is(err, repository.ErrDecode) {
				t.Fatalf("err = %v, want ErrDecode", err)
			}
		})
	}
}

func TestDecodeAssignmentClamps(t *testing.T) {
	raw := rawDoc(t, bson.M{
		"_id":        "C1_T1",
		"templateId": "T1",
		"clientId":   "C1",
		"status":     "paused-ish",
		"progress":   140,
	})
	a, err := decodeAssignment(raw)
	if err != nil {
		t.Fatalf("decodeAssignment: %v", err)
	}
	if a.Status != domain.AssignmentActive || a.Progress != 100 {
		t.Fatalf("got status=%q progress=%d", a.Status, a.Progress)
	}

	_, err = decodeAssignment(rawDoc(t, bson.M{"_id": "x", "clientId": "C1"}))
	if !errors.Is(err, repository.ErrDecode) {
		t.Fatalf("missing template: err = %v, want ErrDecode", err)
	}
}

func TestDecodeClientLegacyName(t *testing.T) {
	c, err := decodeClient(rawDoc(t, bson.M{"_id": "C1", "coachId": "coach-1", "name": "Ana"}))
	if err != nil {
		t.Fatalf("decodeClient: %v", err)
	}
	if c.DisplayName() != "Ana" {
		t.Fatalf("display name = %q, want Ana", c.DisplayName())
	}
}

func TestDecodeAppointmentStarts(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	stamp := time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start interface{}
		want  *time.Time
	}{
		{"datetime", stamp, &stamp},
		{"local text", "2024-05-15T11:30", &stamp},
		{"rfc3339", "2024-05-15T09:30:00Z", &stamp},
		{"garbage", "soon", nil},
		{"number", 42, nil},
		{"missing", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := bson.M{"_id": "A1", "coachId": "coach-1", "type": "check-in"}
			if tc.start != nil {
				doc["start"] = tc.start
			}
			a, err := decodeAppointment(rawDoc(t, doc), loc)
			if err != nil {
				t.Fatalf("decodeAppointment: %v", err)
			}
			switch {
			case tc.want == nil && a.Start != nil:
				t.Fatalf("start = %v, want nil", a.Start)
			case tc.want != nil && (a.Start == nil || !a.Start.Equal(*tc.want)):
				t.Fatalf("start = %v, want %v", a.Start, tc.want)
			}
		})
	}
}

func TestDecodeExerciseRequiresName(t *testing.T) {
	if _, err := decodeExercise(rawDoc(t, bson.M{"_id": "E1", "coachId": "c"})); !errors.Is(err, repository.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
	e, err := decodeExercise(rawDoc(t, bson.M{"_id": "E1", "coachId": "c", "name": "Squat"}))
	if err != nil || e.Name != "Squat" {
		t.Fatalf("got %+v, %v", e, err)
	}
}
