package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"repotoggle/internal/ui/input/types"
)

const filterPrompt = "Filter: "

// FilterMode edits the live filter. Every keystroke not consumed here is fed
// to the text input by the handler and applied immediately.
type FilterMode struct {
	input *textinput.Model
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{input: ti}
}

func (m *FilterMode) Name() string {
	return "filter"
}

// Enter continues editing the filter that is already applied
func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	if m.input == nil {
		return nil
	}
	m.input.Prompt = filterPrompt
	m.input.SetValue(ctx.FilterQuery())
	m.input.CursorEnd()
	m.input.Focus()
	return nil
}

func (m *FilterMode) Exit(ctx types.Context) []types.Action {
	if m.input != nil {
		m.input.Blur()
	}
	return nil
}

func (m *FilterMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyEsc:
		return []types.Action{
			types.CancelTextAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case tea.KeyEnter:
		value := ctx.FilterQuery()
		if m.input != nil {
			value = m.input.Value()
		}
		return []types.Action{
			types.SubmitTextAction{Text: value, Mode: types.ModeFilter},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}
	return nil, false
}
