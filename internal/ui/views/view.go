package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"repotoggle/internal/domain"
	"repotoggle/internal/ui/state"
)

// Input modes as shown by the renderer
const (
	InputNone    = ""
	InputFilter  = "filter"
	InputImport  = "import"
	InputConfirm = "confirm"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Title  string

	Items          []domain.Item // visible entries only
	Counts         domain.Counts
	ShowCounts     bool
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	Filter         string

	InputMode string
	TextInput string // rendered text input while filtering

	Loading      bool
	LoadStage    string
	SpinnerFrame string

	StatusMessage string
	StatusKind    state.StatusKind

	ShowHelp  bool
	HelpShort string
	HelpFull  string

	ImportSelected map[domain.ImportSource]bool
	ImportCursor   int
	ImportURL      string

	ConfirmTarget string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	itemRender  *ItemRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		itemRender:  NewItemRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the style set, e.g. for the text input prompt
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(vs))
	content.WriteString("\n\n")

	switch vs.InputMode {
	case InputFilter:
		content.WriteString(vs.TextInput)
		content.WriteString("\n\n")
	case InputConfirm:
		content.WriteString(r.styles.Confirm.Render(fmt.Sprintf("Deactivate '%s'? (y/n)", vs.ConfirmTarget)))
		content.WriteString("\n\n")
	}

	switch {
	case vs.Loading && vs.Counts.Total == 0:
		content.WriteString(r.styles.Dim.Render("Loading repositories..."))
	case vs.Counts.Total == 0:
		content.WriteString(r.styles.Dim.Render("No repositories. Press i to import, R to reload."))
	case len(vs.Items) == 0:
		content.WriteString(r.styles.Dim.Render(fmt.Sprintf("No repository matches %q. Press esc to clear the filter.", vs.Filter)))
	default:
		content.WriteString(r.renderList(vs))
	}

	footer := r.renderFooter(vs)

	// Push the footer to the bottom of the screen
	currentLines := strings.Count(content.String(), "\n") + 1
	footerLines := strings.Count(footer, "\n") + 1
	availableLines := vs.Height - 2 // Main padding
	if availableLines <= 0 {
		availableLines = 22
	}
	if padding := availableLines - currentLines - footerLines; padding > 0 {
		content.WriteString(strings.Repeat("\n", padding))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	finalContent := r.styles.Main.MaxHeight(vs.Height).Render(content.String())

	switch {
	case vs.InputMode == InputImport:
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderImportDialog(vs), vs.Height, vs.Width, r.styles.PopupBox)
	case vs.ShowHelp:
		return r.popupRender.RenderPopupOverlay(finalContent, vs.HelpFull, vs.Height, vs.Width, r.styles.PopupBox)
	}
	return finalContent
}

// renderTitleLine puts the title on the left and counts, loading and filter on the right
func (r *Renderer) renderTitleLine(vs ViewState) string {
	title := vs.Title
	if title == "" {
		title = "repotoggle"
	}
	logo := r.styles.Title.Render(title)

	var right []string
	if vs.Loading {
		stage := vs.LoadStage
		if stage == "" {
			stage = "repositories"
		}
		right = append(right, r.styles.Dim.Render(fmt.Sprintf("%s Loading %s", vs.SpinnerFrame, stage)))
	}
	if vs.ShowCounts && vs.Counts.Total > 0 {
		right = append(right, r.styles.Counts.Render(FormatCounts(vs.Counts)))
	}
	if vs.Filter != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", vs.Filter)))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	termWidth := vs.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth < 2 {
		paddingWidth = 2
	}
	return logo + strings.Repeat(" ", paddingWidth) + rightContent
}

// FormatCounts renders the list summary, e.g. "12 repos · 3 active · 1 pending"
func FormatCounts(c domain.Counts) string {
	parts := []string{fmt.Sprintf("%d repos", c.Total), fmt.Sprintf("%d active", c.Active)}
	if c.Visible != c.Total {
		parts = append(parts, fmt.Sprintf("%d shown", c.Visible))
	}
	if c.Pending > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", c.Pending))
	}
	if c.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", c.Failed))
	}
	return strings.Join(parts, " · ")
}

// renderList renders the visible entries inside the viewport
func (r *Renderer) renderList(vs ViewState) string {
	height := vs.ViewportHeight
	if height <= 0 {
		height = len(vs.Items)
	}
	start := vs.ViewportOffset
	if start < 0 || start >= len(vs.Items) {
		start = 0
	}
	end := start + height
	if end > len(vs.Items) {
		end = len(vs.Items)
	}

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.itemRender.RenderItem(vs.Items[i], i == vs.SelectedIndex, vs.Filter, vs.SpinnerFrame))
	}
	if end < len(vs.Items) {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", len(vs.Items)-end)))
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the status message above the short help
func (r *Renderer) renderFooter(vs ViewState) string {
	var lines []string
	if vs.StatusMessage != "" {
		style := r.styles.StatusInfo
		switch vs.StatusKind {
		case state.StatusError:
			style = r.styles.StatusError
		case state.StatusSuccess:
			style = r.styles.StatusSuccess
		}
		lines = append(lines, style.Render(vs.StatusMessage))
	}
	if vs.HelpShort != "" && !vs.ShowHelp {
		lines = append(lines, vs.HelpShort)
	}
	return strings.Join(lines, "\n")
}

// renderImportDialog renders the source checkboxes and the address that will be opened
func (r *Renderer) renderImportDialog(vs ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Import repositories"))
	b.WriteString("\n\n")
	for i, src := range domain.ImportSources {
		cursor := "  "
		if i == vs.ImportCursor {
			cursor = "> "
		}
		box := r.styles.Unchecked.Render("[ ]")
		if vs.ImportSelected[src] {
			box = r.styles.Checked.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, box, ImportSourceLabel(src)))
	}
	b.WriteString("\n")
	if vs.ImportURL != "" {
		b.WriteString(r.styles.Dim.Render(vs.ImportURL))
	} else {
		b.WriteString(r.styles.StatusError.Render("Select at least one source"))
	}
	b.WriteString("\n\n")
	b.WriteString(r.styles.Help.Render("space select · enter open · esc cancel"))
	return b.String()
}

// ImportSourceLabel describes an import source
func ImportSourceLabel(src domain.ImportSource) string {
	switch src {
	case domain.ImportUser:
		return "Your repositories"
	case domain.ImportStarred:
		return "Starred repositories"
	default:
		return string(src)
	}
}
