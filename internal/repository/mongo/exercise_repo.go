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

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

// NewMongoExerciseRepository creates a new exercise library repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database, log *logger.Logger) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(repository.ExercisesCollection),
		log:        log,
	}
}

// Create inserts a new library exercise.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.LibraryExercise) (string, error) {
	if exercise.Name == "" || exercise.CoachID == "" {
		return "", errors.New("exercise name and coach ID are required")
	}

	exercise.ID = newID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		exercise.ID = ""
		return "", err
	}
	return exercise.ID, nil
}

// GetByID retrieves a library exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.LibraryExercise, error) {
	raw, err := r.collection.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decodeExercise(raw)
}

// GetByCoachID retrieves a coach's library sorted by name.
func (r *mongoExerciseRepository) GetByCoachID(ctx context.Context, coachID string) ([]domain.LibraryExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeCursor(ctx, cursor, decodeExercise, func(err error) {
		r.log.Warn("skipping malformed library exercise", "error", err)
	})
}

// Delete removes a library exercise. The coach filter enforces ownership.
// Templates that copied it keep their copy.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id, coachID string) error {
	if id == "" || coachID == "" {
		return errors.New("exercise ID and coach ID are required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coachId": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "name", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "muscleGroups", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
