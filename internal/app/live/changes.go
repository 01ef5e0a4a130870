// internal/app/live/changes.go
package live

import "sync"

// changeFeed fans one orchestrator's change signal out to any number of
// listeners. Each listener gets a 1-buffered channel, so bursts coalesce
// into a single pending tick per listener.
type changeFeed struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func newChangeFeed() *changeFeed {
	return &changeFeed{subs: make(map[int]chan struct{})}
}

func (f *changeFeed) subscribe() (<-chan struct{}, CancelFunc) {
	f.mu.Lock()
	id := f.next
	f.next++
	ch := make(chan struct{}, 1)
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
	return ch, cancel
}

func (f *changeFeed) broadcast() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
