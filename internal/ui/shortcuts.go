package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"slategallery/internal/engine"
)

// thumbStep is how far the size shortcuts move the slider.
const thumbStep = 40

func (a *App) buildKeyboardShortcuts() {
	cnv := a.win.Canvas()
	add := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		cnv.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(_ fyne.Shortcut) { fn() })
	}
	cmd := func(kind engine.Kind) func() {
		return func() { a.dispatch(engine.Command{Kind: kind}) }
	}

	add(fyne.KeyQ, a.mainModKey, a.app.Quit)
	add(fyne.KeyA, a.mainModKey, cmd(engine.SelectAll))
	add(fyne.KeyA, a.mainModKey|fyne.KeyModifierShift, cmd(engine.DeselectAll))
	add(fyne.KeyE, a.mainModKey, a.exportSelection)
	add(fyne.KeyH, a.mainModKey, cmd(engine.ToggleHiddenMode))
	add(fyne.KeyL, a.mainModKey, cmd(engine.ToggleSelectedMode))
	add(fyne.KeyU, a.mainModKey, a.unhideAllCheck)
	add(fyne.KeyBackspace, a.mainModKey, cmd(engine.ClearFilters))
	add(fyne.KeyEqual, a.mainModKey, func() { a.stepThumbSize(thumbStep) })
	add(fyne.KeyMinus, a.mainModKey, func() { a.stepThumbSize(-thumbStep) })

	cnv.SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		// close the viewer, or dialogs, with esc
		case fyne.KeyEscape:
			if a.engine.Modal.IsOpen() {
				a.dispatch(engine.Command{Kind: engine.CloseModal})
				return
			}
			if len(cnv.Overlays().List()) > 0 {
				cnv.Overlays().Top().Hide()
			}
		}
	})
}

func (a *App) stepThumbSize(delta int) {
	a.setThumbSize(float64(a.engine.State.ThumbSize + delta))
	a.sizeSlider.Value = float64(a.engine.State.ThumbSize)
	a.sizeSlider.Refresh()
}

var shortcutRows = [][2]string{
	{"Select or deselect image", "Click, Space"},
	{"Select range from last clicked", "Shift+Click"},
	{"Toggle one image", "Ctrl+Click"},
	{"Open viewer", "Double click, Enter"},
	{"Hide or unhide image", "Right click, H"},
	{"Select all visible", "Ctrl+A"},
	{"Deselect all visible", "Ctrl+Shift+A"},
	{"Copy selection list", "Ctrl+E"},
	{"Show hidden images", "Ctrl+H"},
	{"Show selected images", "Ctrl+L"},
	{"Unhide all", "Ctrl+U"},
	{"Clear filters", "Ctrl+Backspace"},
	{"Larger or smaller thumbnails", "Ctrl+= / Ctrl+-"},
	{"Viewer: previous or next", "Arrow Left / Arrow Right"},
	{"Viewer: move between controls", "Tab / Shift+Tab"},
	{"Viewer: close", "Esc"},
	{"Quit", "Ctrl+Q"},
}

func (a *App) showShortcuts() {
	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(shortcutRows) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			isHeader := id.Row == 0
			if isHeader {
				label.SetText(ternary(id.Col == 0, "Action", "Shortcut"))
			} else {
				label.SetText(shortcutRows[id.Row-1][id.Col])
			}
			label.TextStyle.Bold = isHeader
		},
	)
	table.SetColumnWidth(0, 300)
	table.SetColumnWidth(1, 220)
	win.SetContent(table)
	win.Resize(fyne.NewSize(540, 560))
	win.Show()
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
