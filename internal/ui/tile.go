package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"slategallery/internal/engine"
	"slategallery/internal/gallery"
	"slategallery/internal/selection"
)

// tile is one thumbnail in the grid. Tap selects, shift and ctrl taps
// extend the selection, double tap opens the viewer and secondary tap
// hides.
type tile struct {
	widget.BaseWidget
	app   *App
	rec   *gallery.Record
	image *canvas.Image
	frame *canvas.Rectangle
	shade *canvas.Rectangle
	badge *widget.Icon
	name  *widget.Label

	mods    fyne.KeyModifier
	focused bool
}

var (
	_ fyne.Tappable          = (*tile)(nil)
	_ fyne.DoubleTappable    = (*tile)(nil)
	_ fyne.SecondaryTappable = (*tile)(nil)
	_ fyne.Focusable         = (*tile)(nil)
	_ desktop.Mouseable      = (*tile)(nil)
)

func newTile(a *App, r *gallery.Record) *tile {
	t := &tile{
		app:   a,
		rec:   r,
		image: canvas.NewImageFromResource(theme.FileImageIcon()),
		frame: canvas.NewRectangle(color.Transparent),
		shade: canvas.NewRectangle(color.NRGBA{A: 0xa0}),
		badge: widget.NewIcon(theme.VisibilityOffIcon()),
		name:  widget.NewLabel(r.Filename),
	}
	t.image.FillMode = canvas.ImageFillContain
	t.frame.CornerRadius = 4
	t.name.Truncation = fyne.TextTruncateEllipsis
	t.name.Alignment = fyne.TextAlignCenter
	t.ExtendBaseWidget(t)

	res := a.thumbs.GetThumbnail(r, t.SetResource)
	t.image.Resource = res
	t.update()
	return t
}

func (t *tile) CreateRenderer() fyne.WidgetRenderer {
	overlay := container.NewVBox(container.NewHBox(layout.NewSpacer(), t.badge))
	body := container.NewBorder(nil, t.name, nil, nil, container.NewStack(t.image, t.shade, overlay))
	return widget.NewSimpleRenderer(container.NewStack(t.frame, container.NewPadded(body)))
}

// SetResource swaps in the loaded thumbnail.
func (t *tile) SetResource(res fyne.Resource) {
	t.image.Resource = res
	canvas.Refresh(t.image)
}

// update draws the selection frame, keyboard focus and hidden marker.
func (t *tile) update() {
	switch {
	case t.rec.Selected:
		t.frame.StrokeColor = theme.Color(theme.ColorNamePrimary)
		t.frame.StrokeWidth = 3
	case t.focused:
		t.frame.StrokeColor = theme.Color(theme.ColorNameFocus)
		t.frame.StrokeWidth = 2
	default:
		t.frame.StrokeWidth = 0
	}
	if t.focused {
		t.frame.FillColor = theme.Color(theme.ColorNameHover)
	} else {
		t.frame.FillColor = color.Transparent
	}
	if t.rec.Hidden {
		t.shade.Show()
		t.badge.Show()
	} else {
		t.shade.Hide()
		t.badge.Hide()
	}
	t.frame.Refresh()
}

// MouseDown remembers the modifiers for the tap that follows.
func (t *tile) MouseDown(ev *desktop.MouseEvent) {
	t.mods = ev.Modifier
}

func (t *tile) MouseUp(_ *desktop.MouseEvent) {}

func (t *tile) Tapped(_ *fyne.PointEvent) {
	mods := selection.Mods{
		Shift: t.mods&fyne.KeyModifierShift != 0,
		Ctrl:  t.mods&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0,
	}
	t.mods = 0
	t.app.dispatch(engine.Command{Kind: engine.Click, Path: t.rec.Path, Mods: mods})
}

func (t *tile) DoubleTapped(_ *fyne.PointEvent) {
	t.open()
}

func (t *tile) TappedSecondary(_ *fyne.PointEvent) {
	t.app.dispatch(engine.Command{Kind: engine.ToggleHide, Path: t.rec.Path})
}

func (t *tile) open() {
	t.app.dispatch(engine.Command{Kind: engine.OpenModal, Path: t.rec.Path, Focus: t.rec.Path})
}

func (t *tile) FocusGained() {
	t.focused = true
	t.update()
}

func (t *tile) FocusLost() {
	t.focused = false
	t.update()
}

func (t *tile) TypedRune(r rune) {
	switch r {
	case ' ':
		t.app.dispatch(engine.Command{Kind: engine.Click, Path: t.rec.Path})
	case 'h', 'H':
		t.app.dispatch(engine.Command{Kind: engine.ToggleHide, Path: t.rec.Path})
	}
}

func (t *tile) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		t.open()
	}
}
