package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// About is the Help > About dialog with the open gallery's summary.
type About struct {
	parent    fyne.Window
	container *fyne.Container
	d         dialog.Dialog
}

func NewAbout(a *App) *About {
	ab := &About{parent: a.win}

	img := canvas.NewImageFromResource(theme.FileImageIcon())
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(96, 96))

	st := a.engine.Status()
	persistence := "on"
	if !a.engine.Persister.Available() {
		persistence = "off"
	}
	vbox := container.NewVBox(
		img,
		widget.NewLabelWithStyle("Slate Gallery", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel(a.page.Path),
		widget.NewLabel(fmt.Sprintf("%d images in %d slates", st.Total, len(a.engine.State.Gallery.Slates))),
		widget.NewLabel(fmt.Sprintf("%d selected, %d hidden, saving %s", st.Selected, st.Hidden, persistence)),
	)

	ok := container.NewHBox(
		layout.NewSpacer(),
		widget.NewButton("OK", func() { ab.Hide() }),
		layout.NewSpacer(),
	)
	ab.container = container.NewBorder(nil, ok, nil, nil, vbox)
	return ab
}

func (a *About) Hide() {
	a.d.Hide()
}

func (a *About) Show() {
	a.d = dialog.NewCustomWithoutButtons("About", a.container, a.parent)
	a.d.Show()
}
