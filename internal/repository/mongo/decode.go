package mongo

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/repository"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Records written by other parts of the product are loosely shaped. Every
// read goes through one of the decode functions below, which either return
// a fully-typed value or wrap repository.ErrDecode.

func decodeErr(collection string, id string, err error) error {
	return fmt.Errorf("%w: %s/%s: %v", repository.ErrDecode, collection, id, err)
}

// rawID renders an _id that may be stored as a string or an ObjectID.
func rawID(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	default:
		return ""
	}
}

func decodeTemplate(raw bson.Raw) (*domain.Template, error) {
	id := rawID(raw.Lookup("_id"))
	var t domain.Template
	if err := bson.Unmarshal(raw, &t); err != nil {
		return nil, decodeErr(repository.TemplatesCollection, id, err)
	}
	t.ID = id
	if t.ID == "" || t.OwnerID == "" {
		return nil, decodeErr(repository.TemplatesCollection, id, fmt.Errorf("missing id or owner"))
	}
	if !t.Kind.Valid() {
		return nil, decodeErr(repository.TemplatesCollection, id, domain.ErrInvalidKind)
	}
	if t.Status != domain.TemplatePublished {
		t.Status = domain.TemplateDraft
	}
	if t.Schedule.Kind == "" {
		t.Schedule.Kind = t.Kind
	}
	if t.Schedule.Kind != t.Kind {
		return nil, decodeErr(repository.TemplatesCollection, id, fmt.Errorf("schedule kind %q != template kind %q", t.Schedule.Kind, t.Kind))
	}
	for day := range t.Schedule.Days {
		if !day.Valid() {
			return nil, decodeErr(repository.TemplatesCollection, id, fmt.Errorf("%w: %q", domain.ErrUnknownDay, day))
		}
	}
	t.Schedule = t.Schedule.Normalize()
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

func decodeAssignment(raw bson.Raw) (*domain.Assignment, error) {
	id := rawID(raw.Lookup("_id"))
	var a domain.Assignment
	if err := bson.Unmarshal(raw, &a); err != nil {
		return nil, decodeErr(repository.AssignmentsCollection, id, err)
	}
	a.ID = id
	if a.TemplateID == "" || a.ClientID == "" {
		return nil, decodeErr(repository.AssignmentsCollection, id, fmt.Errorf("missing template or client"))
	}
	if !a.Status.Valid() {
		a.Status = domain.AssignmentActive
	}
	if a.Progress < 0 {
		a.Progress = 0
	} else if a.Progress > 100 {
		a.Progress = 100
	}
	return &a, nil
}

// clientRecord mirrors client_profiles loosely: older profiles carry a
// single "name" instead of first/last.
type clientRecord struct {
	CoachID   string    `bson:"coachId"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"createdAt"`
}

func decodeClient(raw bson.Raw) (*domain.ClientProfile, error) {
	id := rawID(raw.Lookup("_id"))
	var rec clientRecord
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, decodeErr(repository.ClientsCollection, id, err)
	}
	if id == "" {
		return nil, decodeErr(repository.ClientsCollection, id, fmt.Errorf("missing id"))
	}
	c := &domain.ClientProfile{
		ID:        id,
		CoachID:   rec.CoachID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
	}
	if c.FirstName == "" && c.LastName == "" {
		c.FirstName = rec.Name
	}
	return c, nil
}

type appointmentRecord struct {
	CoachID         string        `bson:"coachId"`
	ClientID        string        `bson:"clientId"`
	ClientName      string        `bson:"clientName"`
	Type            string        `bson:"type"`
	Start           bson.RawValue `bson:"start"`
	DurationMinutes int           `bson:"durationMinutes"`
	Status          string        `bson:"status"`
	Notes           string        `bson:"notes"`
}

// decodeStart accepts a BSON datetime or a textual timestamp. Anything else
// yields nil.
func decodeStart(v bson.RawValue, loc *time.Location) *time.Time {
	switch v.Type {
	case bsontype.DateTime:
		t := v.Time()
		return &t
	case bsontype.Timestamp:
		sec, _ := v.Timestamp()
		t := time.Unix(int64(sec), 0).UTC()
		return &t
	case bsontype.String:
		if t, ok := domain.ParseStart(v.StringValue(), loc); ok {
			return &t
		}
	}
	return nil
}

func decodeAppointment(raw bson.Raw, loc *time.Location) (*domain.Appointment, error) {
	id := rawID(raw.Lookup("_id"))
	var rec appointmentRecord
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, decodeErr(repository.AppointmentsCollection, id, err)
	}
	if id == "" {
		return nil, decodeErr(repository.AppointmentsCollection, id, fmt.Errorf("missing id"))
	}
	return &domain.Appointment{
		ID:              id,
		CoachID:         rec.CoachID,
		ClientID:        rec.ClientID,
		ClientName:      rec.ClientName,
		Type:            rec.Type,
		Start:           decodeStart(rec.Start, loc),
		DurationMinutes: rec.DurationMinutes,
		Status:          rec.Status,
		Notes:           rec.Notes,
	}, nil
}

func decodeExercise(raw bson.Raw) (*domain.LibraryExercise, error) {
	id := rawID(raw.Lookup("_id"))
	var e domain.LibraryExercise
	if err := bson.Unmarshal(raw, &e); err != nil {
		return nil, decodeErr(repository.ExercisesCollection, id, err)
	}
	e.ID = id
	if e.Name == "" {
		return nil, decodeErr(repository.ExercisesCollection, id, domain.ErrEmptyEntryName)
	}
	return &e, nil
}

// decodeCursor decodes every document with fn. Malformed documents are
// reported through skip and left out instead of failing the whole read.
func decodeCursor[T any](ctx context.Context, cursor *mongo.Cursor, fn func(bson.Raw) (*T, error), skip func(error)) ([]T, error) {
	defer cursor.Close(ctx)
	out := []T{}
	for cursor.Next(ctx) {
		v, err := fn(cursor.Current)
		if err != nil {
			if skip != nil {
				skip(err)
			}
			continue
		}
		out = append(out, *v)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// newID returns a fresh opaque identifier for inserted records.
func newID() string {
	return primitive.NewObjectID().Hex()
}
