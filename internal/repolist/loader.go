package repolist

import (
	"context"
	"fmt"

	"repotoggle/internal/domain"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/logging"
)

// Load stages, reported in LoadError and LoadFailedEvent
const (
	StageRepos  = "repos"
	StageActive = "active"
)

// Source lists repositories on the backend
type Source interface {
	Repos(ctx context.Context) ([]string, error)
	Active(ctx context.Context) ([]string, error)
}

// LoadError tells which of the two load requests failed
type LoadError struct {
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader fills a List from a Source
type Loader struct {
	src Source
	bus eventbus.EventBus
	log logging.Logger
}

// NewLoader creates a loader. bus may be nil.
func NewLoader(src Source, bus eventbus.EventBus, log logging.Logger) *Loader {
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{src: src, bus: bus, log: log.Named("loader")}
}

// Load renders every known name, then checks the active ones.
// The active set is requested only after the full list is in place.
// When the first request fails the list is left empty; when the second
// fails the entries stay rendered and unchecked.
func (ld *Loader) Load(ctx context.Context, list *List) error {
	list.Reset(nil)

	names, err := ld.src.Repos(ctx)
	if err != nil {
		return ld.fail(StageRepos, err)
	}
	n := list.Reset(names)
	ld.log.Infow("rendered repositories", "count", n)
	ld.publish(domain.ListLoadedEvent{Names: names})

	active, err := ld.src.Active(ctx)
	if err != nil {
		return ld.fail(StageActive, err)
	}
	if unknown := list.MarkActive(active); len(unknown) > 0 {
		ld.log.Debugw("active names missing from repository list", "names", unknown)
	}
	ld.log.Infow("applied active set", "count", len(active))
	ld.publish(domain.ActiveLoadedEvent{Names: active})
	return nil
}

func (ld *Loader) fail(stage string, err error) error {
	ld.log.Errorw("load failed", "stage", stage, "error", err)
	ld.publish(domain.LoadFailedEvent{Stage: stage, Err: err})
	return &LoadError{Stage: stage, Err: err}
}

func (ld *Loader) publish(e domain.DomainEvent) {
	if ld.bus != nil {
		ld.bus.Publish(e)
	}
}
