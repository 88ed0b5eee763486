package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slategallery/internal/engine"
	"slategallery/internal/gallery"
	"slategallery/internal/gallery/gallerytest"
	"slategallery/internal/loop"
	"slategallery/internal/notify"
	"slategallery/internal/state"
	"slategallery/internal/storage"
)

type memClip struct{ text string }

func (c *memClip) WriteAll(text string) error {
	c.text = text
	return nil
}

func newModel(t *testing.T) (*Model, *memClip) {
	t.Helper()
	g := gallerytest.Build(t,
		gallerytest.Image{Path: "/p/slates/a/1.jpg", Orientation: gallery.Landscape, Focal: "50", Date: "2024-05-01T10:00:00"},
		gallerytest.Image{Path: "/p/slates/a/2.jpg", Orientation: gallery.Portrait, Focal: "35", Date: "2024-05-02T10:00:00"},
		gallerytest.Image{Path: "/p/slates/b/3.jpg", Orientation: gallery.Landscape, Focal: "50", Date: "2024-05-02T11:00:00"},
	)
	l := loop.NewManual(loop.Options{})
	bar := notify.NewBar(notify.DefaultMaxMessages, zerolog.Nop())
	clip := &memClip{}
	e := engine.New(g, engine.Options{
		Store:     storage.NewMemoryStore(0),
		PagePath:  "/p/index.html",
		Scheduler: l,
		Notifier:  bar,
		Clipboard: clip,
		Logger:    zerolog.Nop(),
	})
	e.Settle()
	m := New(e, l, bar)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, clip
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestSpaceTogglesSelection(t *testing.T) {
	m, _ := newModel(t)

	press(m, "down", " ")
	assert.Equal(t, []string{"/p/slates/a/2.jpg"}, gallerytest.Selected(m.engine.State.Gallery))
	assert.Contains(t, m.View(), "3 of 3 images | 1 selected | 0 hidden")

	press(m, " ")
	assert.Empty(t, gallerytest.Selected(m.engine.State.Gallery))
}

func TestRangeSelectFromAnchor(t *testing.T) {
	m, _ := newModel(t)

	press(m, " ", "down", "down", "v")
	assert.Equal(t, []string{"/p/slates/a/1.jpg", "/p/slates/a/2.jpg", "/p/slates/b/3.jpg"},
		gallerytest.Selected(m.engine.State.Gallery))
}

func TestHideKeepsCursorOnNeighbour(t *testing.T) {
	m, _ := newModel(t)

	press(m, "down", "h")
	r := m.engine.State.Gallery.Lookup("/p/slates/a/2.jpg")
	assert.True(t, r.Hidden)
	require.NotNil(t, m.current())
	assert.Equal(t, "/p/slates/b/3.jpg", m.current().Path)

	press(m, "H")
	assert.Equal(t, state.HiddenOnly, m.engine.State.Mode)
	assert.Contains(t, m.View(), "(hidden)")
}

func TestUnhideAllAsksFirst(t *testing.T) {
	m, _ := newModel(t)
	press(m, "h", "h")
	require.Equal(t, 2, m.engine.Status().Hidden)

	press(m, "u")
	assert.Contains(t, m.View(), "Unhide all 2 hidden images? (y/n)")
	press(m, "n")
	assert.Equal(t, 2, m.engine.Status().Hidden)

	press(m, "u", "y")
	assert.Equal(t, 0, m.engine.Status().Hidden)
}

func TestFilterPaneTogglesFacets(t *testing.T) {
	m, _ := newModel(t)

	press(m, "f")
	require.Equal(t, filterPane, m.pane)
	assert.Contains(t, m.View(), "Orientation")

	// Orientation facets come first: landscape, portrait.
	press(m, "down", " ")
	assert.True(t, m.engine.State.Criteria.Orientations[gallery.Portrait])
	assert.Len(t, m.visible(), 1)
	assert.Contains(t, m.View(), "1 of 3 images")

	press(m, "c", "esc")
	assert.Equal(t, listPane, m.pane)
	assert.Len(t, m.visible(), 3)
}

func TestViewerNavigation(t *testing.T) {
	m, _ := newModel(t)

	press(m, "enter")
	require.True(t, m.engine.Modal.IsOpen())
	assert.Contains(t, m.View(), "1.jpg (1 of 3)")

	press(m, "right")
	assert.Contains(t, m.View(), "2.jpg (2 of 3)")
	press(m, "left", "left")
	assert.Contains(t, m.View(), "3.jpg (3 of 3)")

	press(m, "shift+tab")
	assert.Equal(t, state.FocusHide, m.engine.State.Modal.Focus)
	press(m, "enter")
	assert.True(t, m.engine.State.Gallery.Lookup("/p/slates/b/3.jpg").Hidden)
	assert.Contains(t, m.View(), "1.jpg (1 of 2)")

	press(m, "esc")
	assert.False(t, m.engine.Modal.IsOpen())
	assert.Equal(t, "/p/slates/a/1.jpg", m.current().Path)
}

func TestExportCopiesSelection(t *testing.T) {
	m, clip := newModel(t)

	press(m, "e")
	assert.Empty(t, clip.text)
	assert.Contains(t, m.View(), "Select at least one image to export")

	press(m, "a", "e")
	assert.Equal(t, "/p/slates/a/1.jpg | 50mm\n2.jpg | 35mm\nb/3.jpg | 50mm", clip.text)
	assert.Contains(t, m.View(), "Copied 3 images to the clipboard")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestWorkMessageDrainsLoop(t *testing.T) {
	m, _ := newModel(t)

	ran := false
	m.loop.(*loop.Manual).Post(func() { ran = true })

	_, cmd := m.Update(workMsg{})
	assert.True(t, ran)
	assert.NotNil(t, cmd)
}
