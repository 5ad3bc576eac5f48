package mongo

import (
	"coachdesk/planner/internal/logger"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// changeFeed is the part of *mongo.ChangeStream the snapshot pump uses.
type changeFeed interface {
	Next(ctx context.Context) bool
	Err() error
	Close(ctx context.Context) error
}

// watchSnapshots pushes load's result once, then again after every change
// on collection, until ctx is done.
//
// Change streams need a replica set or sharded cluster.
func watchSnapshots[T any](ctx context.Context, collection *mongo.Collection, load func(context.Context) ([]T, error), log *logger.Logger) (<-chan []T, error) {
	first, err := load(ctx)
	if err != nil {
		return nil, err
	}
	stream, err := collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}
	return pumpSnapshots(ctx, stream, collection.Name(), first, load, log), nil
}

// pumpSnapshots sends first, then reloads on every feed event. Only the
// latest snapshot is kept if the reader falls behind. The feed is closed
// and the channel closed when ctx is done or the feed ends.
func pumpSnapshots[T any](ctx context.Context, feed changeFeed, name string, first []T, load func(context.Context) ([]T, error), log *logger.Logger) <-chan []T {
	out := make(chan []T, 1)
	out <- first

	go func() {
		defer close(out)
		defer feed.Close(context.Background())

		for feed.Next(ctx) {
			snapshot, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("snapshot reload failed", "collection", name, "error", err)
				continue
			}
			// Drop an unread snapshot; the new one supersedes it.
			select {
			case <-out:
			default:
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
		if err := feed.Err(); err != nil && ctx.Err() == nil {
			log.Error("change stream stopped", "collection", name, "error", err)
		}
	}()

	return out
}
