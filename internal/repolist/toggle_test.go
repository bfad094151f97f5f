package repolist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repotoggle/internal/api"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/logging"
	"repotoggle/internal/logging/loggingtest"
)

func loaded(t *testing.T, c *api.Client) *List {
	t.Helper()
	list := NewList()
	require.NoError(t, NewLoader(c, nil, nil).Load(context.Background(), list))
	return list
}

func TestChangeEventAction(t *testing.T) {
	assert.Equal(t, "activate", ChangeEvent{ItemName: "x", NowActive: true}.Action())
	assert.Equal(t, "deactivate", ChangeEvent{ItemName: "x"}.Action())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Classify(nil))
	assert.Equal(t, OutcomeRejected, Classify(ErrPending))
	assert.Equal(t, OutcomeRejected, Classify(ErrUnknownItem))
	assert.Equal(t, OutcomeServerError, Classify(&api.ServerError{StatusCode: 500}))
	assert.Equal(t, OutcomeNetworkError, Classify(&api.NetworkError{Err: errors.New("refused")}))
}

func TestToggleDeactivateBeta(t *testing.T) {
	fb := newFakeBackend([]string{"alpha", "beta"}, []string{"beta"})
	c := startBackend(t, fb)
	list := loaded(t, c)

	res := NewToggler(c, list, nil, loggingtest.New(t)).Toggle(context.Background(), ChangeEvent{ItemName: "beta", NowActive: false})

	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, []string{"deactivate?name=beta"}, fb.Toggles())
	beta, _ := list.Item("beta")
	assert.False(t, beta.Pending)
	assert.False(t, beta.Checked())
	assert.False(t, beta.Failed())
}

func TestToggleActivateAlpha(t *testing.T) {
	fb := newFakeBackend([]string{"alpha", "beta"}, []string{"beta"})
	c := startBackend(t, fb)
	list := loaded(t, c)

	res := NewToggler(c, list, nil, nil).Toggle(context.Background(), ChangeEvent{ItemName: "alpha", NowActive: true})

	require.True(t, res.OK())
	assert.Equal(t, []string{"activate?name=alpha"}, fb.Toggles())
	alpha, _ := list.Item("alpha")
	assert.True(t, alpha.Checked())
	assert.Equal(t, 2, list.Counts().Active)
}

func TestTogglePendingBlocksSecondRequest(t *testing.T) {
	fb := newFakeBackend([]string{"alpha"}, nil)
	fb.gate = make(chan struct{})
	fb.seen = make(chan string, 4)
	c := startBackend(t, fb)
	list := loaded(t, c)
	tg := NewToggler(c, list, nil, nil)

	done := make(chan Result, 1)
	go func() {
		done <- tg.Toggle(context.Background(), ChangeEvent{ItemName: "alpha", NowActive: true})
	}()

	select {
	case <-fb.seen:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never arrived")
	}
	alpha, _ := list.Item("alpha")
	assert.True(t, alpha.Pending)
	assert.True(t, list.AnyPending())

	second := tg.Toggle(context.Background(), ChangeEvent{ItemName: "alpha", NowActive: false})
	assert.Equal(t, OutcomeRejected, second.Outcome)
	assert.True(t, errors.Is(second.Err, ErrPending))

	close(fb.gate)
	select {
	case res := <-done:
		assert.True(t, res.OK())
	case <-time.After(2 * time.Second):
		t.Fatal("first toggle never completed")
	}

	assert.Equal(t, []string{"activate?name=alpha"}, fb.Toggles())
	alpha, _ = list.Item("alpha")
	assert.False(t, alpha.Pending)
	assert.True(t, alpha.Checked())
}

func TestToggleServerErrorNotApplied(t *testing.T) {
	fb := newFakeBackend([]string{"alpha", "beta"}, []string{"beta"})
	fb.status = http.StatusInternalServerError
	c := startBackend(t, fb)
	list := loaded(t, c)

	res := NewToggler(c, list, nil, nil).Toggle(context.Background(), ChangeEvent{ItemName: "beta", NowActive: false})

	assert.Equal(t, OutcomeServerError, res.Outcome)
	beta, _ := list.Item("beta")
	assert.True(t, beta.Checked(), "failed deactivate must keep the confirmed state")
	assert.True(t, beta.Failed())
	assert.False(t, beta.Pending)
	assert.Equal(t, 1, list.Counts().Failed)
}

func TestToggleNetworkErrorNotApplied(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := api.New(srv.URL, api.WithTimeout(time.Second))
	require.NoError(t, err)
	list := NewList()
	list.Reset([]string{"alpha"})
	srv.Close()

	res := NewToggler(c, list, nil, nil).Toggle(context.Background(), ChangeEvent{ItemName: "alpha", NowActive: true})

	assert.Equal(t, OutcomeNetworkError, res.Outcome)
	assert.True(t, api.IsNetworkError(res.Err))
	alpha, _ := list.Item("alpha")
	assert.False(t, alpha.Checked())
	assert.True(t, alpha.Failed())
}

func TestToggleUnknownItemSendsNothing(t *testing.T) {
	fb := newFakeBackend([]string{"alpha"}, nil)
	c := startBackend(t, fb)
	list := loaded(t, c)

	res := NewToggler(c, list, nil, nil).Toggle(context.Background(), ChangeEvent{ItemName: "ghost", NowActive: true})

	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Empty(t, fb.Toggles())
}

func TestToggleRetryAfterFailureClearsError(t *testing.T) {
	fb := newFakeBackend([]string{"alpha"}, nil)
	fb.status = http.StatusBadGateway
	c := startBackend(t, fb)
	list := loaded(t, c)
	tg := NewToggler(c, list, nil, nil)

	require.False(t, tg.Toggle(context.Background(), ChangeEvent{ItemName: "alpha", NowActive: true}).OK())

	fb.mu.Lock()
	fb.status = 0
	fb.mu.Unlock()
	require.True(t, tg.Toggle(context.Background(), ChangeEvent{ItemName: "alpha", NowActive: true}).OK())

	alpha, _ := list.Item("alpha")
	assert.True(t, alpha.Checked())
	assert.False(t, alpha.Failed())
}

func TestTogglePublishesEvents(t *testing.T) {
	bus := eventbus.New(logging.Nop())
	defer bus.Close()
	started := make(chan eventbus.DomainEvent, 1)
	finished := make(chan eventbus.DomainEvent, 1)
	bus.Subscribe(eventbus.EventToggleStarted, func(e eventbus.DomainEvent) { started <- e })
	bus.Subscribe(eventbus.EventToggleFailed, func(e eventbus.DomainEvent) { finished <- e })

	fb := newFakeBackend([]string{"alpha"}, nil)
	fb.status = http.StatusServiceUnavailable
	c := startBackend(t, fb)
	list := loaded(t, c)

	NewToggler(c, list, bus, nil).Toggle(context.Background(), ChangeEvent{ItemName: "alpha", NowActive: true})

	select {
	case e := <-started:
		assert.Equal(t, eventbus.ToggleStartedEvent{Name: "alpha", NowActive: true}, e)
	case <-time.After(time.Second):
		t.Fatal("no start event")
	}
	select {
	case e := <-finished:
		fe, ok := e.(eventbus.ToggleFailedEvent)
		require.True(t, ok)
		assert.Equal(t, "alpha", fe.Name)
		assert.True(t, api.IsServerError(fe.Err))
	case <-time.After(time.Second):
		t.Fatal("no failure event")
	}
}

func TestCompleteIgnoresItemsNoLongerPending(t *testing.T) {
	list := NewList()
	list.Reset([]string{"alpha"})
	tg := NewToggler(nil, list, nil, nil)
	require.NoError(t, tg.Begin(ChangeEvent{ItemName: "alpha", NowActive: true}))

	// a reload replaced the list while the request was in flight
	list.Reset([]string{"alpha"})
	tg.Complete(Result{ItemName: "alpha", NowActive: true, Outcome: OutcomeSuccess})

	alpha, _ := list.Item("alpha")
	assert.False(t, alpha.Checked())
}
