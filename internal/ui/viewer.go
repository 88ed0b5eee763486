package ui

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"slategallery/internal/engine"
	"slategallery/internal/gallery"
	"slategallery/internal/modal"
	"slategallery/internal/notify"
	"slategallery/internal/selection"
	"slategallery/internal/state"
)

// viewer is the full-size image overlay. It only draws; which image is
// shown and when it closes is decided by the engine's navigator.
type viewer struct {
	app     *App
	area    *zoomArea
	caption *widget.Label
	buttons map[state.FocusSlot]*widget.Button
	pane    *viewerPane
	popup   *widget.PopUp
	// loaded is the path of the image in area.
	loaded string
}

func newViewer(a *App) *viewer {
	v := &viewer{
		app:     a,
		area:    newZoomArea(),
		caption: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
	}
	v.caption.Truncation = fyne.TextTruncateEllipsis
	// Resize only arms the navigator's debounce; the redraw comes back
	// through render once the loop fires it.
	v.area.OnResized = func() { a.engine.Modal.Resize() }

	v.buttons = map[state.FocusSlot]*widget.Button{
		state.FocusPrev:  widget.NewButtonWithIcon("Previous", theme.NavigateBackIcon(), func() { v.activate(state.FocusPrev) }),
		state.FocusNext:  widget.NewButtonWithIcon("Next", theme.NavigateNextIcon(), func() { v.activate(state.FocusNext) }),
		state.FocusHide:  widget.NewButtonWithIcon("Hide", theme.VisibilityOffIcon(), func() { v.activate(state.FocusHide) }),
		state.FocusClose: widget.NewButtonWithIcon("Close", theme.CancelIcon(), func() { v.activate(state.FocusClose) }),
	}
	controls := container.NewCenter(container.NewHBox(
		v.buttons[state.FocusPrev],
		v.buttons[state.FocusNext],
		v.buttons[state.FocusHide],
		v.buttons[state.FocusClose],
	))
	v.pane = newViewerPane(v, container.NewBorder(v.caption, controls, nil, nil, v.area))
	return v
}

func (v *viewer) isShown() bool {
	return v.popup != nil && v.popup.Visible()
}

// render draws r. A repeated render of the loaded image refits it.
func (v *viewer) render(r *gallery.Record) {
	cnv := v.app.win.Canvas()
	if v.popup == nil {
		v.popup = widget.NewModalPopUp(v.pane, cnv)
	}
	if !v.popup.Visible() {
		v.popup.Resize(viewerSize(cnv.Size()))
		v.popup.Show()
	}
	v.update()
	cnv.Focus(v.pane)

	if r.Path == v.loaded {
		v.area.Fit()
		return
	}
	v.loaded = r.Path
	v.area.SetImage(nil)

	path, src := r.Path, v.app.page.Resolve(r.FullSrc)
	v.app.async(func() {
		img, err := loadImage(src)
		fyne.Do(func() { v.loadedImage(path, img, err) })
	})
}

func (v *viewer) loadedImage(path string, img image.Image, err error) {
	if path != v.loaded {
		return
	}
	if err != nil {
		v.app.logger.Warn().Err(err).Str("path", path).Msg("viewer image failed")
		v.app.bar.Notify(notify.Error, "Could not load "+path)
		return
	}
	v.area.SetImage(img)
}

func viewerSize(s fyne.Size) fyne.Size {
	return fyne.NewSize(s.Width*0.95, s.Height*0.95)
}

// update refreshes the caption and the focused control.
func (v *viewer) update() {
	if !v.isShown() {
		return
	}
	st := v.app.engine.State
	cur := v.app.engine.Modal.Current()
	if cur == nil {
		return
	}
	v.caption.SetText(fmt.Sprintf("%s (%d of %d)", cur.Filename, st.Modal.Index+1, len(v.app.engine.Filter.Visible())))
	if cur.Hidden {
		v.buttons[state.FocusHide].SetText("Unhide")
	} else {
		v.buttons[state.FocusHide].SetText("Hide")
	}
	for slot, b := range v.buttons {
		b.Importance = importanceIf(slot == st.Modal.Focus)
		b.Refresh()
	}
	v.popup.Resize(viewerSize(v.app.win.Canvas().Size()))
}

func (v *viewer) hide() {
	if v.popup != nil {
		v.popup.Hide()
	}
	v.loaded = ""
	v.area.SetImage(nil)
}

// activate runs the control in slot, as Enter or a click would.
func (v *viewer) activate(slot state.FocusSlot) {
	switch slot {
	case state.FocusPrev:
		v.app.dispatch(engine.Command{Kind: engine.ModalPrev})
	case state.FocusNext:
		v.app.dispatch(engine.Command{Kind: engine.ModalNext})
	case state.FocusHide:
		v.app.dispatch(engine.Command{Kind: engine.ModalKey, ModalKey: modal.KeyHide})
	case state.FocusClose:
		v.app.dispatch(engine.Command{Kind: engine.CloseModal})
	}
}

// viewerPane holds keyboard focus while the viewer is open so Tab cycles
// the viewer's controls instead of leaving the overlay.
type viewerPane struct {
	widget.BaseWidget
	v       *viewer
	content fyne.CanvasObject
	shift   bool
}

var (
	_ fyne.Focusable  = (*viewerPane)(nil)
	_ fyne.Tabbable   = (*viewerPane)(nil)
	_ desktop.Keyable = (*viewerPane)(nil)
)

func newViewerPane(v *viewer, content fyne.CanvasObject) *viewerPane {
	p := &viewerPane{v: v, content: content}
	p.ExtendBaseWidget(p)
	return p
}

func (p *viewerPane) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

func (p *viewerPane) AcceptsTab() bool { return true }
func (p *viewerPane) FocusGained()     {}
func (p *viewerPane) FocusLost()       {}

func (p *viewerPane) KeyDown(ev *fyne.KeyEvent) {
	if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
		p.shift = true
	}
}

func (p *viewerPane) KeyUp(ev *fyne.KeyEvent) {
	if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
		p.shift = false
	}
}

func (p *viewerPane) TypedRune(r rune) {
	if r == 'h' || r == 'H' {
		p.key(modal.KeyHide)
	}
}

func (p *viewerPane) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyLeft:
		p.key(modal.KeyLeft)
	case fyne.KeyRight:
		p.key(modal.KeyRight)
	case fyne.KeyEscape:
		p.key(modal.KeyEscape)
	case fyne.KeyTab:
		p.key(modal.KeyTab)
	case fyne.KeyReturn, fyne.KeyEnter, fyne.KeySpace:
		p.v.activate(p.v.app.engine.State.Modal.Focus)
	}
}

func (p *viewerPane) key(k modal.Key) {
	p.v.app.dispatch(engine.Command{
		Kind:     engine.ModalKey,
		ModalKey: k,
		Mods:     selection.Mods{Shift: p.shift},
	})
}
