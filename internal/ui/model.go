package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"repotoggle/internal/config"
	"repotoggle/internal/domain"
	"repotoggle/internal/eventbus"
	"repotoggle/internal/logging"
	"repotoggle/internal/repolist"
	"repotoggle/internal/ui/commands"
	"repotoggle/internal/ui/input"
	inputtypes "repotoggle/internal/ui/input/types"
	"repotoggle/internal/ui/state"
	"repotoggle/internal/ui/views"
)

// Importer opens the import page and previews its address
type Importer interface {
	Open(sources []domain.ImportSource) (string, error)
	URL(sources []domain.ImportSource) (string, error)
}

// Deps are the collaborators of the UI model
type Deps struct {
	Ctx      context.Context
	Config   *config.Config
	List     *repolist.List
	Loader   *repolist.Loader
	Toggler  *repolist.Toggler
	Importer Importer // optional
	Bus      eventbus.EventBus
	Log      logging.Logger
	Title    string
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	list   *repolist.List
	state  *state.AppState
	log    logging.Logger
	title  string

	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	spinning    bool
	inPagerMode bool

	renderer     *views.Renderer
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	helpOps      *HelpOps
	importer     Importer

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(d Deps) *Model {
	cfg := d.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := d.Log
	if log == nil {
		log = logging.Nop()
	}
	ctx := d.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	keys := inputtypes.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	m := &Model{
		bus:          d.Bus,
		config:       cfg,
		list:         d.List,
		state:        state.NewAppState(cfg.Import.Sources),
		log:          log.Named("ui"),
		title:        d.Title,
		help:         help.New(),
		spinner:      sp,
		renderer:     views.NewRenderer(),
		inputHandler: input.New(keys),
		helpRenderer: NewHelpRenderer(keys),
		importer:     d.Importer,
	}

	var imp commands.Importer
	if d.Importer != nil {
		imp = d.Importer
	}
	m.cmdExecutor = commands.NewExecutor(&commands.CommandContext{
		Ctx:      ctx,
		List:     d.List,
		Loader:   d.Loader,
		Toggler:  d.Toggler,
		Importer: imp,
		Bus:      d.Bus,
	})
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// State exposes the UI state, mainly for tests
func (m *Model) State() *state.AppState {
	return m.state
}

// Mode returns the current input mode
func (m *Model) Mode() inputtypes.Mode {
	return m.inputHandler.CurrentMode()
}

// Init starts the first load
func (m *Model) Init() tea.Cmd {
	return m.startLoad()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		if m.state.ShowHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.state.ShowHelp = false
				return m, nil
			case "H":
				m.state.ShowHelp = false
				return m, m.openHelpPager()
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}

		ctx := &input.ModelContext{
			State:   m.state,
			List:    m.list,
			Confirm: m.config.UI.ConfirmDeactivate,
		}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			_, other := m.handleNonKeyboardMsg(msg)
			return m, tea.Batch(cmd, other)
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// handleNonKeyboardMsg processes command results and domain events
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case commands.LoadDoneMsg:
		m.state.Loading = false
		m.state.LoadStage = ""
		m.clampSelection()
		if msg.Err != nil {
			m.state.SetError(loadErrorText(msg.Err))
			return m, nil
		}
		c := m.list.Counts()
		m.state.SetStatus(fmt.Sprintf("Loaded %d repositories, %d active", c.Total, c.Active))
		return m, nil

	case commands.ToggleResultMsg:
		res := msg.Result
		m.cmdExecutor.CompleteToggle(res)
		action := "Deactivated"
		verb := "deactivate"
		if res.NowActive {
			action = "Activated"
			verb = "activate"
		}
		if res.OK() {
			m.state.SetSuccess(fmt.Sprintf("%s %s", action, res.ItemName))
		} else {
			m.state.SetError(fmt.Sprintf("Failed to %s %s: %s", verb, res.ItemName, res.Outcome))
		}
		return m, nil

	case commands.ImportDoneMsg:
		if msg.Err != nil {
			m.state.SetError(fmt.Sprintf("Failed to open import page: %v", msg.Err))
			return m, nil
		}
		m.state.SetSuccess(fmt.Sprintf("Opened %s", msg.URL))
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			m.log.Warnw("help pager failed, showing popup", "error", msg.err)
			m.state.ShowHelp = true
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil
	}
	return m, nil
}

// handleEvent follows load progress published by the loader
func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.ListLoadedEvent:
		if m.state.Loading {
			m.state.LoadStage = repolist.StageActive
		}
		m.clampSelection()
		m.log.Debugw("list rendered", "count", len(e.Names))
	case eventbus.LoadFailedEvent:
		m.log.Debugw("load failed", "stage", e.Stage, "error", e.Err)
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.ToggleAction:
		return m.toggle(a.Name, a.NowActive)

	case inputtypes.ConfirmAction:
		it, ok := m.list.Item(a.Name)
		if !ok || !it.Active {
			return nil
		}
		return m.toggle(a.Name, false)

	case inputtypes.ChangeModeAction:
		switch a.Mode {
		case inputtypes.ModeConfirm:
			name, _ := a.Data.(string)
			m.state.ConfirmTarget = name
		case inputtypes.ModeImport:
			m.state.ImportCursor = 0
		case inputtypes.ModeNormal:
			m.state.ConfirmTarget = ""
		}

	case inputtypes.UpdateTextAction:
		m.applyFilter(a.Text)

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeFilter {
			m.applyFilter(a.Text)
		}

	case inputtypes.CancelTextAction, inputtypes.ClearFilterAction:
		m.applyFilter("")

	case inputtypes.ReloadAction:
		if m.list.AnyPending() {
			m.state.SetStatus("Wait for pending changes before reloading")
			return nil
		}
		if m.state.Loading {
			return nil
		}
		return m.startLoad()

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp

	case inputtypes.OpenHelpPagerAction:
		return m.openHelpPager()

	case inputtypes.ImportCursorAction:
		m.state.MoveImportCursor(a.Delta)

	case inputtypes.ImportToggleSourceAction:
		m.state.ToggleImportSource()

	case inputtypes.ImportSubmitAction:
		return m.submitImport()

	case inputtypes.QuitAction:
		return tea.Quit
	}
	return nil
}

func (m *Model) toggle(name string, nowActive bool) tea.Cmd {
	cmd := m.cmdExecutor.ExecuteToggle(name, nowActive)
	if cmd == nil {
		m.state.SetStatus(fmt.Sprintf("%s is busy", name))
		return nil
	}
	m.state.ClearStatus()
	return tea.Batch(cmd, m.startSpinner())
}

func (m *Model) applyFilter(text string) {
	if text == m.list.Filter() {
		return
	}
	m.cmdExecutor.ExecuteFilter(text)
	m.state.MoveTo(0, m.list.Counts().Visible)
}

func (m *Model) startLoad() tea.Cmd {
	m.state.Loading = true
	m.state.LoadStage = repolist.StageRepos
	m.state.SelectedIndex = 0
	m.state.ViewportOffset = 0
	m.state.ClearStatus()
	return tea.Batch(m.cmdExecutor.ExecuteLoad(), m.startSpinner())
}

func (m *Model) submitImport() tea.Cmd {
	sources := m.state.SelectedSources()
	if len(sources) == 0 {
		m.state.SetError("Select at least one import source")
		return nil
	}
	if !slices.Equal(sources, m.config.Import.Sources) {
		m.config.Import.Sources = sources
		if m.bus != nil {
			m.bus.Publish(eventbus.ConfigChangedEvent{ImportSources: sources})
		}
	}
	return m.cmdExecutor.ExecuteImport(sources)
}

func (m *Model) openHelpPager() tea.Cmd {
	if m.program == nil || m.helpOps == nil {
		m.state.ShowHelp = true
		return nil
	}
	content := m.helpRenderer.RenderHelpContent()
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(content)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// startSpinner restarts the spinner tick loop when it is idle
func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) busy() bool {
	return m.state.Loading || m.list.AnyPending()
}

func (m *Model) navigate(direction string) {
	total := m.list.Counts().Visible
	page := m.state.ViewportHeight
	if page < 1 {
		page = 1
	}
	switch direction {
	case "up":
		m.state.Move(-1, total)
	case "down":
		m.state.Move(1, total)
	case "pageup":
		m.state.Move(-page, total)
	case "pagedown":
		m.state.Move(page, total)
	case "home":
		m.state.MoveTo(0, total)
	case "end":
		m.state.MoveTo(total-1, total)
	}
}

func (m *Model) clampSelection() {
	m.state.Clamp(m.list.Counts().Visible)
}

// updateViewportHeight sizes the list to what is left after title, input line and footer
func (m *Model) updateViewportHeight() {
	reserved := 9
	if m.height-reserved < 3 {
		m.state.ViewportHeight = 3
	} else {
		m.state.ViewportHeight = m.height - reserved
	}
	m.clampSelection()
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Title:          m.title,
		Items:          m.list.VisibleItems(),
		Counts:         m.list.Counts(),
		ShowCounts:     m.config.UI.ShowCounts,
		SelectedIndex:  m.state.SelectedIndex,
		ViewportOffset: m.state.ViewportOffset,
		ViewportHeight: m.state.ViewportHeight,
		Filter:         m.list.Filter(),
		Loading:        m.state.Loading,
		LoadStage:      m.state.LoadStage,
		SpinnerFrame:   m.spinner.View(),
		StatusMessage:  m.state.StatusMessage,
		StatusKind:     m.state.StatusKind,
		ShowHelp:       m.state.ShowHelp,
		HelpShort:      m.help.View(m.inputHandler.Keys()),
		ImportSelected: m.state.ImportSelected,
		ImportCursor:   m.state.ImportCursor,
		ConfirmTarget:  m.state.ConfirmTarget,
	}
	if vs.ShowHelp {
		vs.HelpFull = m.help.FullHelpView(m.inputHandler.Keys().FullHelp())
	}

	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeFilter:
		vs.InputMode = views.InputFilter
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.TextInput = ti.View()
		}
	case inputtypes.ModeImport:
		vs.InputMode = views.InputImport
		if m.importer != nil {
			if u, err := m.importer.URL(m.state.SelectedSources()); err == nil {
				vs.ImportURL = u
			}
		}
	case inputtypes.ModeConfirm:
		vs.InputMode = views.InputConfirm
	}

	return m.renderer.Render(vs)
}

// loadErrorText turns a load error into a status line
func loadErrorText(err error) string {
	var le *repolist.LoadError
	if errors.As(err, &le) {
		switch le.Stage {
		case repolist.StageRepos:
			return fmt.Sprintf("Failed to load repositories: %v", le.Err)
		case repolist.StageActive:
			return fmt.Sprintf("Failed to load active repositories: %v", le.Err)
		}
	}
	return fmt.Sprintf("Failed to load: %v", err)
}
