// internal/app/live/editsession.go
package live

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/app/store/documents"
	"github.com/docdeck/docdeck/internal/app/system/ai"
	"github.com/docdeck/docdeck/internal/app/system/timeouts"
	"github.com/docdeck/docdeck/internal/domain/models"
)

// DefaultQuietPeriod is how long typing must pause before an autosave fires.
const DefaultQuietPeriod = 500 * time.Millisecond

// improveErrorMarker is appended to the buffer when an AI improvement fails,
// so the failure is visible in the document itself instead of being thrown.
const improveErrorMarker = "\n\n---\n*Error improving document with AI.*"

var (
	// ErrImproveBusy means an improvement request is already in flight.
	ErrImproveBusy = errors.New("an ai improvement is already in flight")
	// ErrNoDocument means the session has not been seeded with a document.
	ErrNoDocument = errors.New("no document is being edited")
)

// EditSession owns the edit buffer for one client's active document. Writes
// are debounced: each keystroke restarts a quiet-period timer, and only the
// final buffer after the typing pause is persisted, addressed to the
// document that was active when the buffer was seeded. Switching documents
// discards unflushed edits by design: the quiet period is short enough that
// a deliberate switch signals abandonment, and merging stale edits into a
// newly seeded buffer would be worse than losing half a second of typing.
type EditSession struct {
	gw       Gateway
	improver ai.Improver
	quiet    time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	gen     uint64
	docID   primitive.ObjectID
	local   string
	remote  string
	timer   *time.Timer
	improve bool
}

func NewEditSession(gw Gateway, improver ai.Improver, quiet time.Duration, logger *zap.Logger) *EditSession {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &EditSession{
		gw:       gw,
		improver: improver,
		quiet:    quiet,
		log:      logger,
	}
}

// Seed replaces the buffer with a document's content. Any pending autosave
// for the previous document is cancelled, never redirected.
func (s *EditSession) Seed(doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.docID = doc.ID
	s.local = doc.Content
	s.remote = doc.Content
	s.stopTimerLocked()
}

// ApplyRemote records the latest persisted content for the active document.
// It does not touch the local buffer: an in-progress draft survives remote
// refreshes, and the next flush wins on a last-write basis.
func (s *EditSession) ApplyRemote(doc models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == s.docID {
		s.remote = doc.Content
	}
}

// SetContent updates the buffer and restarts the quiet-period timer. A burst
// of calls yields exactly one persist, carrying the final buffer.
func (s *EditSession) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docID.IsZero() {
		return
	}
	s.local = content
	s.stopTimerLocked()
	gen := s.gen
	s.timer = time.AfterFunc(s.quiet, func() { s.flush(gen) })
}

// flush persists the buffer if it still belongs to generation gen and
// differs from what the store already has.
func (s *EditSession) flush(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.local == s.remote {
		s.mu.Unlock()
		return
	}
	content := s.local
	docID := s.docID
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()
	if err := s.gw.UpdateDocument(ctx, docID, documents.Patch{Content: &content}); err != nil {
		// Buffer retained; the next keystroke schedules another attempt.
		s.log.Warn("autosave failed",
			zap.String("document_id", docID.Hex()), zap.Error(err))
		return
	}

	s.mu.Lock()
	if gen == s.gen {
		s.remote = content
	}
	s.mu.Unlock()
}

// ImproveWithAI sends the buffer through the AI service and persists the
// result immediately, bypassing the debounce. While a request is in flight
// further calls return ErrImproveBusy without issuing a second request. A
// service failure is not returned to the caller: the buffer gets a visible
// error marker appended and the draft is kept.
func (s *EditSession) ImproveWithAI(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.docID.IsZero() {
		s.mu.Unlock()
		return "", ErrNoDocument
	}
	if s.improve {
		s.mu.Unlock()
		return "", ErrImproveBusy
	}
	s.improve = true
	gen := s.gen
	docID := s.docID
	content := s.local
	s.mu.Unlock()

	improved, err := s.improver.Improve(ctx, content)

	s.mu.Lock()
	s.improve = false
	if gen != s.gen {
		// The document changed under us; drop the result.
		s.mu.Unlock()
		return s.Content(), nil
	}
	if err != nil {
		s.log.Error("ai improvement failed",
			zap.String("document_id", docID.Hex()), zap.Error(err))
		s.local = content + improveErrorMarker
		out := s.local
		s.mu.Unlock()
		return out, nil
	}
	s.local = improved
	s.stopTimerLocked()
	s.mu.Unlock()

	if werr := s.gw.UpdateDocument(ctx, docID, documents.Patch{Content: &improved}); werr != nil {
		s.log.Warn("persisting improved content failed",
			zap.String("document_id", docID.Hex()), zap.Error(werr))
		return improved, nil
	}

	s.mu.Lock()
	if gen == s.gen {
		s.remote = improved
	}
	s.mu.Unlock()
	return improved, nil
}

// Content returns the current buffer.
func (s *EditSession) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local
}

// DocumentID returns the id the session is editing, zero when unseeded.
func (s *EditSession) DocumentID() primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docID
}

// Busy reports whether an AI improvement is in flight.
func (s *EditSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.improve
}

// Close cancels the pending timer and makes a best-effort flush of any
// unsaved buffer, for sessions torn down while the user was typing.
func (s *EditSession) Close() {
	s.mu.Lock()
	s.stopTimerLocked()
	gen := s.gen
	dirty := !s.docID.IsZero() && s.local != s.remote
	s.mu.Unlock()
	if dirty {
		s.flush(gen)
	}
}

func (s *EditSession) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
