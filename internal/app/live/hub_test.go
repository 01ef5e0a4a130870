// internal/app/live/hub_test.go
package live

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHubDeliversToTopicListeners(t *testing.T) {
	h := NewHub(zap.NewNop())

	got := make(chan struct{}, 8)
	cancel := h.Listen(TopicDocuments, func() { got <- struct{}{} })
	defer cancel()

	other := make(chan struct{}, 8)
	cancelOther := h.Listen(TopicApis, func() { other <- struct{}{} })
	defer cancelOther()

	h.Notify(TopicDocuments)

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("listener never kicked")
	}
	select {
	case <-other:
		t.Fatal("listener on a different topic was kicked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	h := NewHub(zap.NewNop())

	got := make(chan struct{}, 8)
	cancel := h.Listen(TopicWorkspaces, func() { got <- struct{}{} })

	h.Notify(TopicWorkspaces)
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("listener never kicked")
	}

	cancel()
	cancel() // idempotent

	h.Notify(TopicWorkspaces)
	select {
	case <-got:
		t.Fatal("canceled listener was kicked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubCoalescesBursts(t *testing.T) {
	h := NewHub(zap.NewNop())

	block := make(chan struct{})
	ran := make(chan struct{}, 64)
	cancel := h.Listen(TopicDocuments, func() {
		ran <- struct{}{}
		<-block
	})
	defer cancel()

	h.Notify(TopicDocuments)
	<-ran

	// While the listener is parked, a burst collapses into one pending kick.
	for i := 0; i < 10; i++ {
		h.Notify(TopicDocuments)
	}
	close(block)

	<-ran
	select {
	case <-ran:
		t.Fatal("burst was not coalesced")
	case <-time.After(100 * time.Millisecond):
	}
}
