package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"repotoggle/internal/domain"
	"repotoggle/internal/repolist"
)

// ItemRenderer handles rendering of list entries
type ItemRenderer struct {
	styles *Styles
}

// NewItemRenderer creates a new item renderer
func NewItemRenderer(styles *Styles) *ItemRenderer {
	return &ItemRenderer{styles: styles}
}

// RenderItem renders one entry: cursor, checkbox, name and a state marker.
// spinnerFrame is shown in place of the checkbox while a request is outstanding.
func (r *ItemRenderer) RenderItem(item domain.Item, isSelected bool, filter, spinnerFrame string) string {
	bg := lipgloss.NewStyle()
	if isSelected {
		bg = r.styles.SelectionBg
	}

	cursor := "  "
	if isSelected {
		cursor = "> "
	}

	var parts []string
	parts = append(parts, cursor)
	parts = append(parts, r.checkbox(item, spinnerFrame, bg))
	parts = append(parts, bg.Render(" "))

	nameStyle := bg
	if item.Pending {
		nameStyle = r.styles.Disabled.Inherit(bg)
	}
	parts = append(parts, r.highlightMatch(item.Name, filter, r.styles.Highlight.Inherit(bg), nameStyle))

	if item.Failed() {
		parts = append(parts, r.styles.StatusError.Render(" ✗ "+item.Err.Error()))
	}

	return strings.Join(parts, "")
}

// checkbox returns [x] or [ ] for settled entries and a spinner frame for pending ones
func (r *ItemRenderer) checkbox(item domain.Item, spinnerFrame string, bg lipgloss.Style) string {
	switch {
	case item.Pending:
		frame := spinnerFrame
		if frame == "" {
			frame = "…"
		}
		return r.styles.Pending.Inherit(bg).Render("[" + frame + "]")
	case item.Checked():
		return r.styles.Checked.Inherit(bg).Render("[x]")
	default:
		return r.styles.Unchecked.Inherit(bg).Render("[ ]")
	}
}

// highlightMatch highlights the first filter match within text. Matching is
// case-sensitive, the same rule the filter uses.
func (r *ItemRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	start := repolist.MatchIndex(text, query)
	if start < 0 {
		return normalStyle.Render(text)
	}
	end := start + len(query)

	before := text[:start]
	match := text[start:end]
	after := text[end:]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}
	return strings.Join(result, "")
}
