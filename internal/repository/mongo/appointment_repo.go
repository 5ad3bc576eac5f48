package mongo

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoAppointmentRepository implements repository.AppointmentRepository.
type mongoAppointmentRepository struct {
	collection *mongo.Collection
	loc        *time.Location // zone for textual starts without an offset
	log        *logger.Logger
}

// NewMongoAppointmentRepository creates an appointment reader. loc defaults
// to UTC.
func NewMongoAppointmentRepository(db *mongo.Database, loc *time.Location, log *logger.Logger) repository.AppointmentRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &mongoAppointmentRepository{
		collection: db.Collection(repository.AppointmentsCollection),
		loc:        loc,
		log:        log,
	}
}

// GetByCoachBetween returns the coach's appointments in [from, to). Starts
// stored as text are parsed here, so those are fetched regardless of value
// and filtered after decoding. Appointments with no readable start are
// returned too; the calendar leaves them off the grid.
func (r *mongoAppointmentRepository) GetByCoachBetween(ctx context.Context, coachID string, from, to time.Time) ([]domain.Appointment, error) {
	filter := bson.M{
		"coachId": coachID,
		"$or": bson.A{
			bson.M{"start": bson.M{"$gte": from, "$lt": to}},
			bson.M{"start": bson.M{"$type": "string"}},
			bson.M{"start": bson.M{"$exists": false}},
			bson.M{"start": nil},
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	all, err := decodeCursor(ctx, cursor, func(raw bson.Raw) (*domain.Appointment, error) {
		return decodeAppointment(raw, r.loc)
	}, func(err error) {
		r.log.Warn("skipping malformed appointment", "error", err)
	})
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for _, a := range all {
		if a.Start == nil || (!a.Start.Before(from) && a.Start.Before(to)) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Subscribe streams the coach's appointments in [from, to).
func (r *mongoAppointmentRepository) Subscribe(ctx context.Context, coachID string, from, to time.Time) (<-chan []domain.Appointment, error) {
	return watchSnapshots(ctx, r.collection, func(ctx context.Context) ([]domain.Appointment, error) {
		return r.GetByCoachBetween(ctx, coachID, from, to)
	}, r.log)
}

// EnsureAppointmentIndexes creates the calendar range index.
func EnsureAppointmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "start", Value: 1}},
	})
	return err
}
