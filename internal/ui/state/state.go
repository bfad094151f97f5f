package state

import (
	"repotoggle/internal/domain"
)

// StatusKind tells the renderer how to colour the status line
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// AppState contains the UI state that is not owned by the repository list
type AppState struct {
	// Cursor and scrolling over the visible entries
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int

	// Loading
	Loading   bool
	LoadStage string // stage currently being fetched, empty when idle

	// Status line
	StatusMessage string
	StatusKind    StatusKind

	// Popups
	ShowHelp      bool
	ConfirmTarget string // entry awaiting deactivate confirmation

	// Import dialog
	ImportCursor   int
	ImportSelected map[domain.ImportSource]bool
}

// NewAppState creates a new application state with the given import sources preselected
func NewAppState(sources []domain.ImportSource) *AppState {
	s := &AppState{
		ViewportHeight: 20,
		ImportSelected: make(map[domain.ImportSource]bool),
	}
	for _, src := range sources {
		s.ImportSelected[src] = true
	}
	return s
}

// SetStatus shows an informational message
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.StatusKind = StatusInfo
}

// SetSuccess shows a success message
func (s *AppState) SetSuccess(msg string) {
	s.StatusMessage = msg
	s.StatusKind = StatusSuccess
}

// SetError shows an error message
func (s *AppState) SetError(msg string) {
	s.StatusMessage = msg
	s.StatusKind = StatusError
}

// ClearStatus removes the status message
func (s *AppState) ClearStatus() {
	s.StatusMessage = ""
	s.StatusKind = StatusInfo
}

// Move shifts the cursor by delta within total entries and keeps it in view
func (s *AppState) Move(delta, total int) {
	s.SelectedIndex += delta
	s.Clamp(total)
}

// MoveTo places the cursor at index within total entries and keeps it in view
func (s *AppState) MoveTo(index, total int) {
	s.SelectedIndex = index
	s.Clamp(total)
}

// Clamp keeps the cursor and viewport valid for total entries
func (s *AppState) Clamp(total int) {
	if s.SelectedIndex >= total {
		s.SelectedIndex = total - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	height := s.ViewportHeight
	if height < 1 {
		height = 1
	}
	if s.SelectedIndex < s.ViewportOffset {
		s.ViewportOffset = s.SelectedIndex
	}
	if s.SelectedIndex >= s.ViewportOffset+height {
		s.ViewportOffset = s.SelectedIndex - height + 1
	}
	maxOffset := total - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.ViewportOffset > maxOffset {
		s.ViewportOffset = maxOffset
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}

// SelectedSources returns the import sources ticked in the import dialog, in display order
func (s *AppState) SelectedSources() []domain.ImportSource {
	var out []domain.ImportSource
	for _, src := range domain.ImportSources {
		if s.ImportSelected[src] {
			out = append(out, src)
		}
	}
	return out
}

// ToggleImportSource flips the source under the import dialog cursor
func (s *AppState) ToggleImportSource() {
	if s.ImportCursor < 0 || s.ImportCursor >= len(domain.ImportSources) {
		return
	}
	src := domain.ImportSources[s.ImportCursor]
	s.ImportSelected[src] = !s.ImportSelected[src]
}

// MoveImportCursor moves the import dialog cursor, wrapping around
func (s *AppState) MoveImportCursor(delta int) {
	n := len(domain.ImportSources)
	s.ImportCursor = ((s.ImportCursor+delta)%n + n) % n
}
