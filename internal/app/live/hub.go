// internal/app/live/hub.go
package live

import (
	"sync"

	"go.uber.org/zap"
)

// Topic names a collection whose changes the hub fans out.
type Topic string

const (
	TopicWorkspaces Topic = "workspaces"
	TopicDocuments  Topic = "documents"
	TopicApis       Topic = "apis"
)

// Hub fans collection-change notifications out to listeners. Notifications
// carry no payload: listeners re-query and push fresh snapshots. Each
// listener runs on its own goroutine with a coalescing kick channel, so a
// slow listener never blocks a writer and a burst of writes collapses into
// one re-query.
type Hub struct {
	log  *zap.Logger
	mu   sync.Mutex
	subs map[int]*hubSub
	next int
}

type hubSub struct {
	topic Topic
	kick  chan struct{}
	stop  chan struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		log:  logger,
		subs: make(map[int]*hubSub),
	}
}

// Listen registers fn for a topic and returns an idempotent cancel. fn is
// invoked serially on a dedicated goroutine. After cancel, no new kicks are
// delivered; a kick already pending when cancel fires may still run once.
func (h *Hub) Listen(topic Topic, fn func()) CancelFunc {
	s := &hubSub{
		topic: topic,
		kick:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = s
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-s.stop:
				return
			case <-s.kick:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(s.stop)
		})
	}
}

// Notify kicks every listener on the topic. Non-blocking: a listener with a
// kick already pending is skipped, which coalesces bursts.
func (h *Hub) Notify(topic Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if s.topic != topic {
			continue
		}
		select {
		case s.kick <- struct{}{}:
		default:
		}
	}
}
