package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// ToggleAction flips an entry between active and inactive
type ToggleAction struct {
	Name      string
	NowActive bool
}

func (a ToggleAction) Type() string { return "toggle" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// ClearFilterAction drops the filter without entering filter mode
type ClearFilterAction struct{}

func (a ClearFilterAction) Type() string { return "clear_filter" }

// Command actions
type ReloadAction struct{}

func (a ReloadAction) Type() string { return "reload" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type OpenHelpPagerAction struct{}

func (a OpenHelpPagerAction) Type() string { return "open_help_pager" }

// Import dialog actions
type ImportCursorAction struct {
	Delta int
}

func (a ImportCursorAction) Type() string { return "import_cursor" }

type ImportToggleSourceAction struct{}

func (a ImportToggleSourceAction) Type() string { return "import_toggle_source" }

type ImportSubmitAction struct{}

func (a ImportSubmitAction) Type() string { return "import_submit" }

// Confirmation actions
type ConfirmAction struct {
	Name string
}

func (a ConfirmAction) Type() string { return "confirm" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
