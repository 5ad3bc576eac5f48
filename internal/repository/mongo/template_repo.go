// internal/repository/mongo/template_repo.go
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

// mongoTemplateRepository implements repository.TemplateRepository
type mongoTemplateRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

// NewMongoTemplateRepository creates a new Template repository.
func NewMongoTemplateRepository(db *mongo.Database, log *logger.Logger) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(repository.TemplatesCollection),
		log:        log,
	}
}

// Create stores t under its ID, minting one when empty. The write is an
// upsert on (_id, ownerId): repeating a create overwrites the content and
// keeps the first createdAt instead of inserting a copy.
func (r *mongoTemplateRepository) Create(ctx context.Context, t *domain.Template) (string, error) {
	if t.OwnerID == "" || !t.Kind.Valid() {
		return "", errors.New("template requires ownerId and a valid kind")
	}
	if t.ID == "" {
		t.ID = newID()
	}
	now := time.Now().UTC()
	filter := bson.M{"_id": t.ID, "ownerId": t.OwnerID}
	updateDoc := bson.M{
		"$set":         templateFields(t, now),
		"$setOnInsert": bson.M{"kind": t.Kind, "createdAt": now},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc, options.Update().SetUpsert(true))
	if err != nil {
		return "", err
	}
	if result.UpsertedCount == 0 {
		r.log.Info("template create repeated; kept existing record", "templateId", t.ID)
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return t.ID, nil
}

// templateFields are the fields every save rewrites.
func templateFields(t *domain.Template, now time.Time) bson.M {
	return bson.M{
		"name":          t.Name,
		"description":   t.Description,
		"difficulty":    t.Difficulty,
		"durationWeeks": t.DurationWeeks,
		"tags":          t.Tags,
		"status":        t.Status,
		"schedule":      t.Schedule,
		"updatedAt":     now,
	}
}

// GetByID retrieves a single template by its ID.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	raw, err := r.collection.FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decodeTemplate(raw)
}

func templateQuery(f repository.TemplateFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["ownerId"] = f.OwnerID
	}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	switch f.Status {
	case domain.TemplatePublished:
		filter["status"] = domain.TemplatePublished
	case domain.TemplateDraft:
		// Records without a status read as drafts.
		filter["status"] = bson.M{"$ne": domain.TemplatePublished}
	}
	return filter
}

// List retrieves templates matching filter, most recently updated first.
func (r *mongoTemplateRepository) List(ctx context.Context, f repository.TemplateFilter) ([]domain.Template, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, templateQuery(f), findOptions)
	if err != nil {
		return nil, err
	}
	return decodeCursor(ctx, cursor, decodeTemplate, func(err error) {
		r.log.Warn("skipping malformed template", "error", err)
	})
}

// Update writes every mutable field. Owner, kind and createdAt are not
// touched; the owner is part of the filter.
func (r *mongoTemplateRepository) Update(ctx context.Context, t *domain.Template) error {
	if t.ID == "" {
		return errors.New("template ID is required for update")
	}
	now := time.Now().UTC()
	filter := bson.M{"_id": t.ID, "ownerId": t.OwnerID}
	updateDoc := bson.M{"$set": templateFields(t, now)}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	t.UpdatedAt = now
	return nil
}

// Delete removes the template if ownerID owns it. Assignments pointing at
// it are left in place.
func (r *mongoTemplateRepository) Delete(ctx context.Context, id, ownerID string) error {
	if id == "" || ownerID == "" {
		return errors.New("template ID and owner ID are required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Subscribe streams the matching template list.
func (r *mongoTemplateRepository) Subscribe(ctx context.Context, f repository.TemplateFilter) (<-chan []domain.Template, error) {
	return watchSnapshots(ctx, r.collection, func(ctx context.Context) ([]domain.Template, error) {
		return r.List(ctx, f)
	}, r.log)
}

// EnsureTemplateIndexes creates necessary indexes. Call during startup.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Editor and assign screens list a coach's templates by kind.
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "kind", Value: 1}, {Key: "updatedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
