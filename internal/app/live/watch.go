// internal/app/live/watch.go
package live

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Watcher tails the database change stream and kicks the hub, so edits made
// by other processes reach live subscriptions. Change streams need a replica
// set; on a standalone deployment Watch fails and we fall back to
// local-write notifications only, which is still correct for a single node.
type Watcher struct {
	db  *mongo.Database
	hub *Hub
	log *zap.Logger

	stop chan struct{}
	done chan struct{}
}

func NewWatcher(db *mongo.Database, hub *Hub, logger *zap.Logger) *Watcher {
	return &Watcher{
		db:   db,
		hub:  hub,
		log:  logger,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
}

func (w *Watcher) run() {
	defer close(w.done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stop
		cancel()
	}()

	for {
		stream, err := w.db.Watch(ctx, mongo.Pipeline{},
			options.ChangeStream().SetFullDocument(options.UpdateLookup))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Info("change streams unavailable; using local write notifications only",
				zap.Error(err))
			return
		}

		w.log.Info("change stream watcher started")
		w.tail(ctx, stream)

		if ctx.Err() != nil {
			return
		}
		w.log.Warn("change stream closed; reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func (w *Watcher) tail(ctx context.Context, stream *mongo.ChangeStream) {
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var ev struct {
			NS struct {
				Coll string `bson:"coll"`
			} `bson:"ns"`
		}
		if err := stream.Decode(&ev); err != nil {
			w.log.Warn("change stream decode failed", zap.Error(err))
			continue
		}
		switch ev.NS.Coll {
		case "workspaces":
			w.hub.Notify(TopicWorkspaces)
		case "documents":
			w.hub.Notify(TopicDocuments)
		case "apis":
			w.hub.Notify(TopicApis)
		}
	}
}
