package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repotoggle/internal/logging"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New(logging.Nop())
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventToggleCompleted, func(e DomainEvent) { got <- e })

	b.Publish(ToggleCompletedEvent{Name: "beta", Active: false})

	select {
	case e := <-got:
		ev, ok := e.(ToggleCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, "beta", ev.Name)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribersOnlySeeTheirType(t *testing.T) {
	b := New(logging.Nop())
	defer b.Close()

	var mu sync.Mutex
	var seen []EventType
	done := make(chan struct{}, 1)
	b.Subscribe(EventListLoaded, func(e DomainEvent) {
		mu.Lock()
		seen = append(seen, e.Type())
		mu.Unlock()
		done <- struct{}{}
	})

	b.Publish(FilterChangedEvent{Query: "ab"})
	b.Publish(ListLoadedEvent{Names: []string{"alpha"}})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []EventType{EventListLoaded}, seen)
}

func TestUnsubscribe(t *testing.T) {
	b := New(logging.Nop())
	defer b.Close()

	calls := make(chan string, 4)
	unsubA := b.Subscribe(EventImportRequested, func(DomainEvent) { calls <- "a" })
	b.Subscribe(EventImportRequested, func(DomainEvent) { calls <- "b" })
	unsubA()

	b.Publish(ImportRequestedEvent{URL: "http://x/import?user=true&"})

	select {
	case c := <-calls:
		assert.Equal(t, "b", c)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	select {
	case c := <-calls:
		t.Fatalf("unexpected delivery to %s", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	b := New(logging.Nop())
	defer b.Close()

	ok := make(chan struct{}, 1)
	b.Subscribe(EventLoadFailed, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventLoadFailed, func(DomainEvent) { ok <- struct{}{} })

	b.Publish(LoadFailedEvent{Stage: "repos"})

	select {
	case <-ok:
	case <-time.After(time.Second):
		t.Fatal("second handler not called")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New(logging.Nop())
	b.Close()
	b.Close()

	assert.NotPanics(t, func() { b.Publish(ConfigSavedEvent{Path: "x"}) })
}
