package mongo

import (
	"coachdesk/planner/internal/domain"
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoClientRepository implements repository.ClientRepository over the
// client_profiles collection. Read-only.
type mongoClientRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

// NewMongoClientRepository creates a client profile reader.
func NewMongoClientRepository(db *mongo.Database, log *logger.Logger) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(repository.ClientsCollection),
		log:        log,
	}
}

// GetByID retrieves a client profile by its ID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id string) (*domain.ClientProfile, error) {
	raw, err := r.collection.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decodeClient(raw)
}

// GetByCoachID lists the clients a coach looks after, by name.
func (r *mongoClientRepository) GetByCoachID(ctx context.Context, coachID string) ([]domain.ClientProfile, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, err
	}
	return decodeCursor(ctx, cursor, decodeClient, func(err error) {
		r.log.Warn("skipping malformed client profile", "error", err)
	})
}

// Subscribe streams the coach's client list.
func (r *mongoClientRepository) Subscribe(ctx context.Context, coachID string) (<-chan []domain.ClientProfile, error) {
	return watchSnapshots(ctx, r.collection, func(ctx context.Context) ([]domain.ClientProfile, error) {
		return r.GetByCoachID(ctx, coachID)
	}, r.log)
}
