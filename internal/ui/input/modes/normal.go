package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"repotoggle/internal/ui/input/types"
)

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyCtrlC {
		return []types.Action{types.QuitAction{Force: true}}, true
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, m.keys.PageUp):
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case key.Matches(msg, m.keys.PageDown):
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case key.Matches(msg, m.keys.Home):
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case key.Matches(msg, m.keys.End):
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case key.Matches(msg, m.keys.Toggle):
		name, active, pending, ok := ctx.CurrentItem()
		if !ok || pending {
			// Disabled entries swallow the key
			return nil, true
		}
		if active && ctx.ConfirmDeactivate() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeConfirm, Data: name}}, true
		}
		return []types.Action{types.ToggleAction{Name: name, NowActive: !active}}, true

	case key.Matches(msg, m.keys.Filter):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true

	case key.Matches(msg, m.keys.ClearFilter):
		if ctx.FilterQuery() != "" {
			return []types.Action{types.ClearFilterAction{}}, true
		}
		return nil, true

	case key.Matches(msg, m.keys.Reload):
		return []types.Action{types.ReloadAction{}}, true

	case key.Matches(msg, m.keys.Import):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeImport}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true

	case key.Matches(msg, m.keys.HelpPager):
		return []types.Action{types.OpenHelpPagerAction{}}, true

	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}
