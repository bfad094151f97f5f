package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"repotoggle/internal/domain"
	"repotoggle/internal/repolist"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor
func NewExecutor(ctx *CommandContext) *Executor {
	return &Executor{ctx: ctx}
}

// ExecuteLoad creates and executes a load command
func (e *Executor) ExecuteLoad() tea.Cmd {
	return NewLoadCommand(e.ctx).Execute()
}

// ExecuteToggle creates and executes a toggle command
func (e *Executor) ExecuteToggle(name string, nowActive bool) tea.Cmd {
	return NewToggleCommand(e.ctx, repolist.ChangeEvent{ItemName: name, NowActive: nowActive}).Execute()
}

// CompleteToggle applies a toggle result to the list
func (e *Executor) CompleteToggle(res repolist.Result) {
	e.ctx.Toggler.Complete(res)
}

// ExecuteFilter creates and executes a filter command
func (e *Executor) ExecuteFilter(text string) tea.Cmd {
	return NewFilterCommand(e.ctx, text).Execute()
}

// ExecuteImport creates and executes an import command
func (e *Executor) ExecuteImport(sources []domain.ImportSource) tea.Cmd {
	return NewImportCommand(e.ctx, sources).Execute()
}
