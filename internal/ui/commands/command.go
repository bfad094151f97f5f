package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"repotoggle/internal/domain"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/repolist"
)

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// Importer opens the import page for a set of sources
type Importer interface {
	Open(sources []domain.ImportSource) (string, error)
}

// CommandContext provides context for command execution
type CommandContext struct {
	Ctx      context.Context
	List     *repolist.List
	Loader   *repolist.Loader
	Toggler  *repolist.Toggler
	Importer Importer
	Bus      eventbus.EventBus
}

// LoadDoneMsg reports the end of a load
type LoadDoneMsg struct {
	Err error
}

// ToggleResultMsg carries the outcome of one toggle request
type ToggleResultMsg struct {
	Result repolist.Result
}

// ImportDoneMsg reports whether the import page could be opened
type ImportDoneMsg struct {
	URL     string
	Sources []domain.ImportSource
	Err     error
}

// LoadCommand fetches the list and then the active set
type LoadCommand struct {
	ctx *CommandContext
}

// NewLoadCommand creates a new load command
func NewLoadCommand(ctx *CommandContext) *LoadCommand {
	return &LoadCommand{ctx: ctx}
}

// Execute runs the loader off the update loop
func (c *LoadCommand) Execute() tea.Cmd {
	cc := c.ctx
	return func() tea.Msg {
		return LoadDoneMsg{Err: cc.Loader.Load(cc.Ctx, cc.List)}
	}
}

// ToggleCommand activates or deactivates one entry
type ToggleCommand struct {
	ctx *CommandContext
	ev  repolist.ChangeEvent
}

// NewToggleCommand creates a new toggle command
func NewToggleCommand(ctx *CommandContext, ev repolist.ChangeEvent) *ToggleCommand {
	return &ToggleCommand{ctx: ctx, ev: ev}
}

// Execute disables the entry right away and sends the request in the background.
// It returns nil when the entry cannot be toggled now.
func (c *ToggleCommand) Execute() tea.Cmd {
	cc := c.ctx
	if err := cc.Toggler.Begin(c.ev); err != nil {
		return nil
	}
	ev := c.ev
	return func() tea.Msg {
		return ToggleResultMsg{Result: cc.Toggler.Send(cc.Ctx, ev)}
	}
}

// FilterCommand narrows the visible entries
type FilterCommand struct {
	ctx  *CommandContext
	text string
}

// NewFilterCommand creates a new filter command
func NewFilterCommand(ctx *CommandContext, text string) *FilterCommand {
	return &FilterCommand{ctx: ctx, text: text}
}

// Execute applies the filter synchronously; it never touches the network
func (c *FilterCommand) Execute() tea.Cmd {
	visible := c.ctx.List.SetFilter(c.text)
	if c.ctx.Bus != nil {
		c.ctx.Bus.Publish(eventbus.FilterChangedEvent{Query: c.text, Visible: visible})
	}
	return nil
}

// ImportCommand opens the import page
type ImportCommand struct {
	ctx     *CommandContext
	sources []domain.ImportSource
}

// NewImportCommand creates a new import command
func NewImportCommand(ctx *CommandContext, sources []domain.ImportSource) *ImportCommand {
	return &ImportCommand{ctx: ctx, sources: sources}
}

// Execute opens the browser off the update loop
func (c *ImportCommand) Execute() tea.Cmd {
	cc := c.ctx
	sources := c.sources
	return func() tea.Msg {
		if cc.Importer == nil {
			return ImportDoneMsg{Sources: sources, Err: fmt.Errorf("import is not configured")}
		}
		u, err := cc.Importer.Open(sources)
		return ImportDoneMsg{URL: u, Sources: sources, Err: err}
	}
}
