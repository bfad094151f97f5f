package repolist

import (
	"context"
	"errors"

	"repotoggle/internal/api"
	"repotoggle/internal/domain"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/logging"
)

// ChangeEvent is what a checkbox change reports
type ChangeEvent struct {
	ItemName  string
	NowActive bool
}

// Action returns the endpoint the change calls: "activate" or "deactivate"
func (e ChangeEvent) Action() string {
	if e.NowActive {
		return api.PathActivate
	}
	return api.PathDeactivate
}

// Outcome classifies how a toggle ended
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNetworkError
	OutcomeServerError
	// OutcomeRejected means no request was sent, e.g. the item was already pending
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNetworkError:
		return "network error"
	case OutcomeServerError:
		return "server error"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the explicit outcome of one toggle
type Result struct {
	ItemName  string
	NowActive bool
	Outcome   Outcome
	Err       error
}

// OK reports whether the toggle was applied
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Classify maps a toggle error to its outcome
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrPending), errors.Is(err, ErrUnknownItem):
		return OutcomeRejected
	case api.IsServerError(err):
		return OutcomeServerError
	default:
		return OutcomeNetworkError
	}
}

// Switch flips one item on the backend
type Switch interface {
	SetActive(ctx context.Context, name string, active bool) error
}

// Toggler turns change events into activate/deactivate calls
type Toggler struct {
	sw   Switch
	list *List
	bus  eventbus.EventBus
	log  logging.Logger
}

// NewToggler creates a toggler for list. bus may be nil.
func NewToggler(sw Switch, list *List, bus eventbus.EventBus, log logging.Logger) *Toggler {
	if log == nil {
		log = logging.Nop()
	}
	return &Toggler{sw: sw, list: list, bus: bus, log: log.Named("toggle")}
}

// Toggle runs a whole toggle: disable, request, re-enable
func (t *Toggler) Toggle(ctx context.Context, ev ChangeEvent) Result {
	if err := t.Begin(ev); err != nil {
		return Result{ItemName: ev.ItemName, NowActive: ev.NowActive, Outcome: OutcomeRejected, Err: err}
	}
	res := t.Send(ctx, ev)
	t.Complete(res)
	return res
}

// Begin disables the item. No request may be sent when it fails.
func (t *Toggler) Begin(ev ChangeEvent) error {
	if err := t.list.BeginToggle(ev.ItemName); err != nil {
		t.log.Debugw("toggle rejected", "name", ev.ItemName, "error", err)
		return err
	}
	t.publish(domain.ToggleStartedEvent{Name: ev.ItemName, NowActive: ev.NowActive})
	return nil
}

// Send issues the request for an item that Begin has disabled
func (t *Toggler) Send(ctx context.Context, ev ChangeEvent) Result {
	err := t.sw.SetActive(ctx, ev.ItemName, ev.NowActive)
	return Result{
		ItemName:  ev.ItemName,
		NowActive: ev.NowActive,
		Outcome:   Classify(err),
		Err:       err,
	}
}

// Complete re-enables the item and applies res
func (t *Toggler) Complete(res Result) {
	if !t.list.CompleteToggle(res) {
		t.log.Debugw("dropping result for item that is not pending", "name", res.ItemName)
		return
	}
	if res.OK() {
		t.log.Infow("toggled", "name", res.ItemName, "active", res.NowActive)
		t.publish(domain.ToggleCompletedEvent{Name: res.ItemName, Active: res.NowActive})
		return
	}
	t.log.Warnw("toggle failed", "name", res.ItemName, "action", ChangeEvent{NowActive: res.NowActive}.Action(), "outcome", res.Outcome.String(), "error", res.Err)
	t.publish(domain.ToggleFailedEvent{Name: res.ItemName, NowActive: res.NowActive, Err: res.Err})
}

func (t *Toggler) publish(e domain.DomainEvent) {
	if t.bus != nil {
		t.bus.Publish(e)
	}
}
