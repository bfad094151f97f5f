package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"repotoggle/internal/ui/input/types"
)

// ImportMode drives the import dialog: pick sources, then open the import page
type ImportMode struct{}

func NewImportMode() *ImportMode {
	return &ImportMode{}
}

func (m *ImportMode) Name() string {
	return "import"
}

func (m *ImportMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ImportMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ImportMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "up", "k", "shift+tab":
		return []types.Action{types.ImportCursorAction{Delta: -1}}, true
	case "down", "j", "tab":
		return []types.Action{types.ImportCursorAction{Delta: 1}}, true
	case " ", "x":
		return []types.Action{types.ImportToggleSourceAction{}}, true
	case "enter":
		return []types.Action{
			types.ImportSubmitAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}
	return nil, true
}
