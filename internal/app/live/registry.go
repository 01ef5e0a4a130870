// internal/app/live/registry.go
package live

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/system/ai"
)

// DefaultSessionTTL is how long an idle client session keeps its live
// subscriptions before the janitor evicts it.
const DefaultSessionTTL = 30 * time.Minute

// ClientSession bundles the reactive state for one browser session: its
// identity machine, orchestrator, and edit buffer. Sessions outlive
// individual requests; they are keyed by the client id minted at sign-in.
type ClientSession struct {
	ClientID     string
	Identity     *IdentityManager
	Orchestrator *Orchestrator
	Editor       *EditSession

	feed     *changeFeed
	cancel   context.CancelFunc
	mu       sync.Mutex
	lastSeen time.Time
}

// Changes returns a channel that receives a tick after every snapshot
// change, coalescing bursts. Cancel releases the listener.
func (cs *ClientSession) Changes() (<-chan struct{}, CancelFunc) {
	return cs.feed.subscribe()
}

func (cs *ClientSession) touch() {
	cs.mu.Lock()
	cs.lastSeen = time.Now()
	cs.mu.Unlock()
}

func (cs *ClientSession) idleSince() time.Time {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.lastSeen
}

// Close tears down every subscription and flushes unsaved edits.
func (cs *ClientSession) Close() {
	cs.Orchestrator.Close()
	cs.cancel()
}

// Registry owns the live client sessions. Get is the only way in: it
// creates a session on first use and refreshes its idle clock on every
// touch. A background janitor evicts sessions idle past the TTL.
type Registry struct {
	gw       Gateway
	profiles ProfileStore
	improver ai.Improver
	quiet    time.Duration
	ttl      time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*ClientSession
	started  bool

	stop chan struct{}
	done chan struct{}
}

func NewRegistry(gw Gateway, profiles ProfileStore, improver ai.Improver, quiet, ttl time.Duration, logger *zap.Logger) *Registry {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		gw:       gw,
		profiles: profiles,
		improver: improver,
		quiet:    quiet,
		ttl:      ttl,
		log:      logger,
		sessions: make(map[string]*ClientSession),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Get returns the session for a client id, creating one seeded with the
// given identity on first use.
func (r *Registry) Get(clientID string, ident Identity) *ClientSession {
	r.mu.Lock()
	if cs, ok := r.sessions[clientID]; ok {
		r.mu.Unlock()
		cs.touch()
		return cs
	}
	r.mu.Unlock()

	cs := r.build(clientID, ident)

	r.mu.Lock()
	if existing, ok := r.sessions[clientID]; ok {
		// Lost the race; keep the winner.
		r.mu.Unlock()
		cs.Close()
		existing.touch()
		return existing
	}
	r.sessions[clientID] = cs
	r.mu.Unlock()

	r.log.Debug("client session created", zap.String("client_id", clientID))
	cs.touch()
	return cs
}

func (r *Registry) build(clientID string, ident Identity) *ClientSession {
	provider := NewStaticProvider(ident)
	identity := NewIdentityManager(provider, r.profiles, r.log)
	editor := NewEditSession(r.gw, r.improver, r.quiet, r.log)
	orch := NewOrchestrator(r.gw, identity, editor, r.log)

	ctx, cancel := context.WithCancel(context.Background())
	cs := &ClientSession{
		ClientID:     clientID,
		Identity:     identity,
		Orchestrator: orch,
		Editor:       editor,
		feed:         newChangeFeed(),
		cancel:       cancel,
	}
	orch.SetOnChange(cs.feed.broadcast)
	orch.Start(ctx)
	return cs
}

// Drop closes and removes a client session, typically on sign-out.
func (r *Registry) Drop(clientID string) {
	r.mu.Lock()
	cs, ok := r.sessions[clientID]
	delete(r.sessions, clientID)
	r.mu.Unlock()
	if ok {
		cs.Close()
		r.log.Debug("client session dropped", zap.String("client_id", clientID))
	}
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start launches the eviction janitor.
func (r *Registry) Start() {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()
	go r.run()
}

// Stop halts the janitor and closes every session.
func (r *Registry) Stop() {
	r.mu.Lock()
	started := r.started
	r.started = false
	r.mu.Unlock()

	if started {
		close(r.stop)
		<-r.done
	}

	r.mu.Lock()
	sessions := make([]*ClientSession, 0, len(r.sessions))
	for _, cs := range r.sessions {
		sessions = append(sessions, cs)
	}
	r.sessions = make(map[string]*ClientSession)
	r.mu.Unlock()

	for _, cs := range sessions {
		cs.Close()
	}
}

func (r *Registry) run() {
	defer close(r.done)

	interval := r.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Registry) evictIdle() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*ClientSession
	for id, cs := range r.sessions {
		if cs.idleSince().Before(cutoff) {
			stale = append(stale, cs)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, cs := range stale {
		cs.Close()
		r.log.Info("idle client session evicted", zap.String("client_id", cs.ClientID))
	}
}
