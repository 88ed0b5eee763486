package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"slategallery/internal/export"
	"slategallery/internal/gallery"
	"slategallery/internal/notify"
	"slategallery/internal/state"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	slateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1)
	focusedStyle  = buttonStyle.Copy().Reverse(true)
)

const (
	listHelp   = "↑/↓ move • space select • v range • enter view • h hide • H hidden • s selected • a/A all • u unhide all • f filters • e export • q quit"
	filterHelp = "↑/↓ move • space toggle • c clear • esc back • q quit"
	viewerHelp = "←/→ prev/next • tab focus • enter press • h hide • esc close • q quit"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Slate Gallery"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n\n")

	body := m.listView()
	switch {
	case m.engine.Modal.IsOpen():
		body = m.viewerView()
	case m.pane == filterPane:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.filterView(), " ", body)
	}
	b.WriteString(body)
	b.WriteString("\n")

	if m.confirming {
		n := m.engine.Status().Hidden
		b.WriteString(promptStyle.Render(fmt.Sprintf("Unhide all %d hidden %s? (y/n)", n, plural(n))))
	} else {
		b.WriteString(m.noticeLine())
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) statusLine() string {
	st := m.engine.Status()
	line := fmt.Sprintf("%d of %d images | %d selected | %d hidden", st.Visible, st.Total, st.Selected, st.Hidden)
	switch st.Mode {
	case state.HiddenOnly:
		line += " | showing hidden"
	case state.SelectedOnly:
		line += " | showing selected"
	}
	if m.engine.Filter.Busy() {
		line += " | filtering..."
	}
	return line
}

func (m *Model) noticeLine() string {
	msg, ok := m.bar.Current()
	if !ok {
		return ""
	}
	style := statusStyle
	switch msg.Level {
	case notify.Error:
		style = errorStyle
	case notify.Warning:
		style = warningStyle
	case notify.Success:
		style = successStyle
	}
	return style.Render(m.bar.Status())
}

func (m *Model) help() string {
	switch {
	case m.engine.Modal.IsOpen():
		return viewerHelp
	case m.pane == filterPane:
		return filterHelp
	}
	return listHelp
}

func (m *Model) listView() string {
	v := m.visible()
	if len(v) == 0 {
		return hiddenStyle.Render(emptyText(m.engine.State.Mode))
	}
	end := min(len(v), m.offset+m.pageSize())
	lines := make([]string, 0, end-m.offset)
	slate := ""
	for i := m.offset; i < end; i++ {
		r := v[i]
		if r.Slate != slate {
			slate = r.Slate
			lines = append(lines, slateStyle.Render(slate))
		}
		lines = append(lines, m.row(r, i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) row(r *gallery.Record, focused bool) string {
	mark := "[ ]"
	if r.Selected {
		mark = selectedStyle.Render("[x]")
	}
	pointer := "  "
	if focused {
		pointer = cursorStyle.Render("> ")
	}
	text := fmt.Sprintf("%-32s %-10s %-8s %s", r.Filename, r.Orientation, export.FormatFocal(r.Focal), r.Date.Day())
	switch {
	case r.Hidden:
		text = hiddenStyle.Render(text + "  (hidden)")
	case focused:
		text = cursorStyle.Render(text)
	}
	return pointer + mark + " " + text
}

func (m *Model) filterView() string {
	crit := m.engine.State.Criteria
	lines := make([]string, 0, len(m.facets)+3)
	group := ""
	for i, it := range m.facets {
		if it.group != group {
			group = it.group
			lines = append(lines, titleStyle.Render(group))
		}
		var on bool
		switch it.group {
		case "Orientation":
			on = crit.Orientations[gallery.ParseOrientation(it.facet.Value)]
		case "Focal length":
			on = crit.FocalLengths[it.facet.Value]
		default:
			on = crit.Dates[it.facet.Value]
		}
		mark := "[ ]"
		if on {
			mark = selectedStyle.Render("[x]")
		}
		label := fmt.Sprintf("%s (%d)", it.facet.Label, it.facet.Count)
		if i == m.facetCursor {
			label = cursorStyle.Render(label)
		}
		lines = append(lines, mark+" "+label)
	}
	return paneStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) viewerView() string {
	r := m.engine.Modal.Current()
	if r == nil {
		return ""
	}
	ms := m.engine.State.Modal
	visible := len(m.visible())
	flags := "visible"
	if r.Hidden {
		flags = "hidden"
	}
	if r.Selected {
		flags += ", selected"
	}
	details := []string{
		titleStyle.Render(fmt.Sprintf("%s (%d of %d)", r.Filename, ms.Index+1, visible)),
		"",
		"Path:         " + r.Path,
		"Slate:        " + r.Slate,
		"Orientation:  " + r.Orientation.String(),
		"Focal length: " + export.FormatFocal(r.Focal),
		"Date:         " + r.Date.Day(),
		"State:        " + flags,
		"",
		m.buttons(r),
	}
	return paneStyle.Render(strings.Join(details, "\n"))
}

func (m *Model) buttons(r *gallery.Record) string {
	hideLabel := "Hide"
	if r.Hidden {
		hideLabel = "Unhide"
	}
	labels := []string{"Prev", "Next", hideLabel, "Close"}
	slots := []state.FocusSlot{state.FocusPrev, state.FocusNext, state.FocusHide, state.FocusClose}
	out := make([]string, len(labels))
	for i, label := range labels {
		style := buttonStyle
		if m.engine.State.Modal.Focus == slots[i] {
			style = focusedStyle
		}
		out[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func emptyText(mode state.ViewMode) string {
	switch mode {
	case state.HiddenOnly:
		return "No hidden images match the current filters"
	case state.SelectedOnly:
		return "No selected images match the current filters"
	}
	return "No images match the current filters"
}

func plural(n int) string {
	if n == 1 {
		return "image"
	}
	return "images"
}
