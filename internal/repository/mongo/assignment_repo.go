package mongo

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database, log *logger.Logger) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(repository.AssignmentsCollection),
		log:        log,
	}
}

// Upsert sets every field of the assignment at its deterministic ID, merging
// into whatever document already sits there. A single-document upsert is
// atomic, so no transaction is needed.
func (r *mongoAssignmentRepository) Upsert(ctx context.Context, a *domain.Assignment) error {
	if a.TemplateID == "" || a.ClientID == "" {
		return errors.New("assignment requires templateId and clientId")
	}
	a.ID = domain.AssignmentID(a.ClientID, a.TemplateID)
	a.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"templateId": a.TemplateID,
		"clientId":   a.ClientID,
		"coachId":    a.CoachID,
		"status":     a.Status,
		"progress":   a.Progress,
		"startDate":  a.StartDate,
		"notes":      a.Notes,
		"updatedAt":  a.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if a.EndDate != nil {
		set["endDate"] = *a.EndDate
	} else {
		update["$unset"] = bson.M{"endDate": ""}
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": a.ID}, update, options.Update().SetUpsert(true))
	return err
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	raw, err := r.collection.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decodeAssignment(raw)
}

func (r *mongoAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.Assignment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeCursor(ctx, cursor, decodeAssignment, func(err error) {
		r.log.Warn("skipping malformed assignment", "error", err)
	})
}

// GetByClientID retrieves all assignments for a specific client.
func (r *mongoAssignmentRepository) GetByClientID(ctx context.Context, clientID string) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

// GetByCoachID retrieves all assignments made by a specific coach.
func (r *mongoAssignmentRepository) GetByCoachID(ctx context.Context, coachID string) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"coachId": coachID})
}

// UpdateProgress records client progress. Completing or cancelling stamps
// the end date.
func (r *mongoAssignmentRepository) UpdateProgress(ctx context.Context, id string, progress int, status domain.AssignmentStatus) error {
	now := time.Now().UTC()
	set := bson.M{"progress": progress, "updatedAt": now}
	if status != "" {
		set["status"] = status
		if status == domain.AssignmentCompleted || status == domain.AssignmentCancelled {
			set["endDate"] = now
		}
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an assignment the coach made.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, id, coachID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coachId": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Client home screen: my assignments, newest first
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "startDate", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "startDate", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "templateId", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
