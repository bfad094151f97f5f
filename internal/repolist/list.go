package repolist

import (
	"errors"
	"fmt"
	"sync"

	"repotoggle/internal/domain"
)

var (
	// ErrPending is returned when an item already has a toggle in flight
	ErrPending = errors.New("toggle already in flight")
	// ErrUnknownItem is returned for names that are not in the list
	ErrUnknownItem = errors.New("unknown item")
)

// List holds the rendered entries. It is safe for concurrent use.
type List struct {
	mu     sync.RWMutex
	order  []string
	items  map[string]*domain.Item
	filter string
}

// NewList creates an empty list
func NewList() *List {
	return &List{
		items: make(map[string]*domain.Item),
	}
}

// Reset replaces the entries with one unchecked entry per name, in the given order.
// Repeated names keep their first position. The current filter is applied to the new entries.
func (l *List) Reset(names []string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.order = make([]string, 0, len(names))
	l.items = make(map[string]*domain.Item, len(names))
	for _, name := range names {
		if _, dup := l.items[name]; dup {
			continue
		}
		l.order = append(l.order, name)
		l.items[name] = &domain.Item{
			Name:    name,
			Visible: Matches(name, l.filter),
		}
	}
	return len(l.order)
}

// MarkActive checks the entries for names. Names that are not listed are
// returned as unknown and otherwise ignored.
func (l *List) MarkActive(names []string) (unknown []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, name := range names {
		item, ok := l.items[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		item.Active = true
	}
	return unknown
}

// SetFilter narrows the visible entries to names containing text and returns how many are visible
func (l *List) SetFilter(text string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.filter = text
	visible := 0
	for _, name := range l.order {
		item := l.items[name]
		item.Visible = Matches(name, text)
		if item.Visible {
			visible++
		}
	}
	return visible
}

// Filter returns the current filter text
func (l *List) Filter() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filter
}

// Len returns the number of entries, visible or not
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Item returns a copy of the entry for name
func (l *List) Item(name string) (domain.Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	item, ok := l.items[name]
	if !ok {
		return domain.Item{}, false
	}
	return *item, true
}

// Items returns copies of all entries in list order
func (l *List) Items() []domain.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Item, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, *l.items[name])
	}
	return out
}

// VisibleItems returns copies of the entries matching the filter, in list order
func (l *List) VisibleItems() []domain.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Item, 0, len(l.order))
	for _, name := range l.order {
		if item := l.items[name]; item.Visible {
			out = append(out, *item)
		}
	}
	return out
}

// Counts summarises the entries
func (l *List) Counts() domain.Counts {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c := domain.Counts{Total: len(l.order)}
	for _, item := range l.items {
		if item.Active {
			c.Active++
		}
		if item.Visible {
			c.Visible++
		}
		if item.Pending {
			c.Pending++
		}
		if item.Err != nil {
			c.Failed++
		}
	}
	return c
}

// AnyPending reports whether any toggle is in flight
func (l *List) AnyPending() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.items {
		if item.Pending {
			return true
		}
	}
	return false
}

// BeginToggle disables the entry for name until CompleteToggle is called for it.
// It fails with ErrPending while a previous toggle of the same entry is in flight.
func (l *List) BeginToggle(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}
	if item.Pending {
		return fmt.Errorf("%w: %s", ErrPending, name)
	}
	item.Pending = true
	item.Err = nil
	return nil
}

// CompleteToggle re-enables the entry and applies res. A failed result leaves
// Active unchanged and flags the entry. Results for entries that are not
// pending (for example after a reload) are ignored and false is returned.
func (l *List) CompleteToggle(res Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[res.ItemName]
	if !ok || !item.Pending {
		return false
	}
	item.Pending = false
	if res.Outcome == OutcomeSuccess {
		item.Active = res.NowActive
		item.Err = nil
		return true
	}
	item.Err = res.Err
	if item.Err == nil {
		item.Err = errors.New(res.Outcome.String())
	}
	return true
}
