package mongo

import (
	"coachdesk/planner/internal/logger"
	"coachdesk/planner/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB connects to MongoDB at uri and pings the primary before
// returning the client.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Connect succeeds lazily; ping to find an unreachable server now.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection this service
// queries. Failures are logged and do not stop startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{repository.TemplatesCollection, EnsureTemplateIndexes},
		{repository.AssignmentsCollection, EnsureAssignmentIndexes},
		{repository.AppointmentsCollection, EnsureAppointmentIndexes},
		{repository.ExercisesCollection, EnsureExerciseIndexes},
	}
	for _, s := range steps {
		if err := s.ensure(ctx, db.Collection(s.collection)); err != nil {
			log.Warn("could not create indexes", "collection", s.collection, "error", err)
			continue
		}
		log.Info("indexes ensured", "collection", s.collection)
	}
}
