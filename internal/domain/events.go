package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventListLoaded      EventType = "ListLoaded"
	EventActiveLoaded    EventType = "ActiveLoaded"
	EventLoadFailed      EventType = "LoadFailed"
	EventToggleStarted   EventType = "ToggleStarted"
	EventToggleCompleted EventType = "ToggleCompleted"
	EventToggleFailed    EventType = "ToggleFailed"
	EventFilterChanged   EventType = "FilterChanged"
	EventImportRequested EventType = "ImportRequested"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
	EventConfigChanged   EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ListLoadedEvent is emitted once every known name has been rendered
type ListLoadedEvent struct {
	Names []string
}

func (e ListLoadedEvent) Type() EventType { return EventListLoaded }

// ActiveLoadedEvent is emitted after the active set has been applied to the list
type ActiveLoadedEvent struct {
	Names []string
}

func (e ActiveLoadedEvent) Type() EventType { return EventActiveLoaded }

// LoadFailedEvent is emitted when either load request fails
type LoadFailedEvent struct {
	Stage string // "repos" or "active"
	Err   error
}

func (e LoadFailedEvent) Type() EventType { return EventLoadFailed }

// ToggleStartedEvent is emitted when a toggle request is issued
type ToggleStartedEvent struct {
	Name      string
	NowActive bool
}

func (e ToggleStartedEvent) Type() EventType { return EventToggleStarted }

// ToggleCompletedEvent is emitted when the backend accepted a toggle
type ToggleCompletedEvent struct {
	Name   string
	Active bool
}

func (e ToggleCompletedEvent) Type() EventType { return EventToggleCompleted }

// ToggleFailedEvent is emitted when a toggle was not applied
type ToggleFailedEvent struct {
	Name      string
	NowActive bool
	Err       error
}

func (e ToggleFailedEvent) Type() EventType { return EventToggleFailed }

// FilterChangedEvent is emitted on every change of the filter text
type FilterChangedEvent struct {
	Query   string
	Visible int
}

func (e FilterChangedEvent) Type() EventType { return EventFilterChanged }

// ImportRequestedEvent is emitted when an import URL was opened
type ImportRequestedEvent struct {
	URL     string
	Sources []ImportSource
}

func (e ImportRequestedEvent) Type() EventType { return EventImportRequested }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	BaseURL string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when configuration needs to be saved
type ConfigChangedEvent struct {
	ImportSources []ImportSource
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
