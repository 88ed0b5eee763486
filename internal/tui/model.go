// Package tui is a terminal front-end for the gallery engine. It lists the
// visible images, drives selection, hiding and filters through the engine
// and shows the viewer as a detail pane.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"slategallery/internal/engine"
	"slategallery/internal/gallery"
	"slategallery/internal/modal"
	"slategallery/internal/notify"
	"slategallery/internal/selection"
	"slategallery/internal/state"
)

// Loop is the part of the engine's task loop the browser drives.
type Loop interface {
	Wake() <-chan struct{}
	Drain()
}

type pane int

const (
	listPane pane = iota
	filterPane
)

// workMsg reports that the loop has queued work, usually a fired timer.
type workMsg struct{}

type facetItem struct {
	group string
	kind  engine.Kind
	facet gallery.Facet
}

// Model is the bubbletea model of the browser.
type Model struct {
	engine *engine.Engine
	loop   Loop
	bar    *notify.Bar

	path   string
	cursor int
	offset int
	width  int
	height int

	pane        pane
	facets      []facetItem
	facetCursor int
	confirming  bool
	quitting    bool
}

// New creates a browser on e. bar must be the notifier e reports through.
func New(e *engine.Engine, l Loop, bar *notify.Bar) *Model {
	m := &Model{engine: e, loop: l, bar: bar, height: 24, width: 80}
	f := e.State.Gallery.Facets()
	for _, g := range []struct {
		name   string
		kind   engine.Kind
		facets []gallery.Facet
	}{
		{"Orientation", engine.ToggleOrientation, f.Orientations},
		{"Focal length", engine.ToggleFocal, f.FocalLengths},
		{"Date", engine.ToggleDate, f.Dates},
	} {
		for _, fc := range g.facets {
			m.facets = append(m.facets, facetItem{group: g.name, kind: g.kind, facet: fc})
		}
	}
	m.sync()
	return m
}

func waitForWork(l Loop) tea.Cmd {
	return func() tea.Msg {
		<-l.Wake()
		return workMsg{}
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForWork(m.loop)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sync()
	case workMsg:
		m.loop.Drain()
		m.sync()
		return m, waitForWork(m.loop)
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	if key == "ctrl+c" || key == "q" {
		m.quitting = true
		return tea.Quit
	}
	if m.confirming {
		m.confirming = false
		if key == "y" || key == "Y" {
			m.dispatch(engine.Command{Kind: engine.UnhideAll, Confirmed: true})
		} else {
			m.bar.Notify(notify.Info, "Unhide all cancelled")
		}
		return nil
	}
	switch {
	case m.engine.Modal.IsOpen():
		m.viewerKey(key)
	case m.pane == filterPane:
		m.filterKey(key)
	default:
		m.listKey(key)
	}
	return nil
}

func (m *Model) listKey(key string) {
	cur := m.current()
	switch key {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.pageSize())
	case "pgdown":
		m.move(m.pageSize())
	case "home", "g":
		m.move(-len(m.visible()))
	case "end", "G":
		m.move(len(m.visible()))
	case " ", "x":
		if cur != nil {
			m.dispatch(engine.Command{Kind: engine.Click, Path: cur.Path, Mods: selection.Mods{Ctrl: true}})
		}
	case "v":
		if cur != nil {
			m.dispatch(engine.Command{Kind: engine.Click, Path: cur.Path, Mods: selection.Mods{Shift: true}})
		}
	case "enter":
		if cur != nil {
			m.dispatch(engine.Command{Kind: engine.OpenModal, Path: cur.Path, Focus: cur.Path})
		}
	case "h":
		if cur != nil {
			m.dispatch(engine.Command{Kind: engine.ToggleHide, Path: cur.Path})
		}
	case "H":
		m.dispatch(engine.Command{Kind: engine.ToggleHiddenMode})
	case "s":
		m.dispatch(engine.Command{Kind: engine.ToggleSelectedMode})
	case "a":
		m.dispatch(engine.Command{Kind: engine.SelectAll})
	case "A":
		m.dispatch(engine.Command{Kind: engine.DeselectAll})
	case "u":
		if m.engine.Status().Hidden == 0 {
			m.dispatch(engine.Command{Kind: engine.UnhideAll})
			return
		}
		m.confirming = true
	case "e":
		m.dispatch(engine.Command{Kind: engine.Export})
	case "c":
		m.dispatch(engine.Command{Kind: engine.ClearFilters})
	case "f", "tab":
		if len(m.facets) > 0 {
			m.pane = filterPane
		}
	case "[":
		m.bar.Previous()
	case "]":
		m.bar.Next()
	}
}

func (m *Model) filterKey(key string) {
	switch key {
	case "up", "k":
		if m.facetCursor > 0 {
			m.facetCursor--
		}
	case "down", "j":
		if m.facetCursor < len(m.facets)-1 {
			m.facetCursor++
		}
	case " ", "enter", "x":
		it := m.facets[m.facetCursor]
		m.dispatch(engine.Command{Kind: it.kind, Key: it.facet.Value})
	case "c":
		m.dispatch(engine.Command{Kind: engine.ClearFilters})
	case "f", "tab", "esc":
		m.pane = listPane
	}
}

func (m *Model) viewerKey(key string) {
	shown := m.engine.Modal.Current()
	switch key {
	case "left":
		m.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyLeft})
	case "right":
		m.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyRight})
	case "esc":
		m.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyEscape})
	case "tab":
		m.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyTab})
	case "shift+tab":
		m.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyTab, Mods: selection.Mods{Shift: true}})
	case "h":
		m.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyHide})
	case "enter", " ":
		m.activate(m.engine.State.Modal.Focus)
	}
	if r := m.engine.Modal.Current(); r != nil {
		m.path = r.Path
	} else if shown != nil {
		m.path = shown.Path
	}
	m.sync()
}

// activate presses the focused viewer control.
func (m *Model) activate(slot state.FocusSlot) {
	switch slot {
	case state.FocusPrev:
		m.dispatch(engine.Command{Kind: engine.ModalPrev})
	case state.FocusNext:
		m.dispatch(engine.Command{Kind: engine.ModalNext})
	case state.FocusHide:
		m.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyHide})
	default:
		m.dispatch(engine.Command{Kind: engine.CloseModal})
	}
}

// dispatch applies cmd and runs the filter passes it queued. Errors are
// already reported through the bar.
func (m *Model) dispatch(cmd engine.Command) {
	_, _ = m.engine.Dispatch(cmd)
	m.loop.Drain()
	m.sync()
}

func (m *Model) visible() []*gallery.Record {
	return m.engine.Filter.Visible()
}

func (m *Model) current() *gallery.Record {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return nil
	}
	return v[m.cursor]
}

func (m *Model) move(delta int) {
	v := m.visible()
	if len(v) == 0 {
		return
	}
	m.cursor = max(0, min(len(v)-1, m.cursor+delta))
	m.path = v[m.cursor].Path
	m.sync()
}

// sync keeps the cursor on the same image across filter passes, falling
// back to the nearest row when the image left the view.
func (m *Model) sync() {
	v := m.visible()
	if len(v) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	if i := m.engine.Filter.Rank(m.path); i >= 0 {
		m.cursor = i
	}
	m.cursor = max(0, min(len(v)-1, m.cursor))
	m.path = v[m.cursor].Path

	rows := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, min(m.offset, len(v)-1))
}

// chromeRows is the number of lines around the image list.
const chromeRows = 6

func (m *Model) pageSize() int {
	return max(1, m.height-chromeRows)
}
