package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"slategallery/internal/engine"
	"slategallery/internal/state"
)

func (a *App) buildToolbar() fyne.CanvasObject {
	selectAll := widget.NewButtonWithIcon("Select all", theme.CheckButtonCheckedIcon(), func() {
		a.dispatch(engine.Command{Kind: engine.SelectAll})
	})
	deselectAll := widget.NewButtonWithIcon("Deselect all", theme.CheckButtonIcon(), func() {
		a.dispatch(engine.Command{Kind: engine.DeselectAll})
	})
	a.selectedBtn = widget.NewButton("Selected", func() {
		a.dispatch(engine.Command{Kind: engine.ToggleSelectedMode})
	})
	a.hiddenBtn = widget.NewButtonWithIcon("Hidden", theme.VisibilityOffIcon(), func() {
		a.dispatch(engine.Command{Kind: engine.ToggleHiddenMode})
	})
	unhideAll := widget.NewButtonWithIcon("Unhide all", theme.VisibilityIcon(), a.unhideAllCheck)
	exportBtn := widget.NewButtonWithIcon("Copy list", theme.ContentCopyIcon(), a.exportSelection)
	exportBtn.Importance = widget.HighImportance

	a.sizeSlider = widget.NewSlider(engine.MinThumbSize, engine.MaxThumbSize)
	a.sizeSlider.Step = 20
	a.sizeSlider.SetValue(state.DefaultThumbSize)
	a.sizeSlider.OnChangeEnded = a.setThumbSize
	size := container.NewBorder(nil, nil, widget.NewIcon(theme.ZoomOutIcon()), widget.NewIcon(theme.ZoomInIcon()), a.sizeSlider)

	help := widget.NewButtonWithIcon("", theme.HelpIcon(), a.showShortcuts)

	return container.NewVBox(
		container.NewBorder(nil, nil,
			container.NewHBox(selectAll, deselectAll, widget.NewSeparator(), a.selectedBtn, a.hiddenBtn, unhideAll, widget.NewSeparator(), exportBtn),
			help,
			size,
		),
		widget.NewSeparator(),
	)
}

// buildStatusBar lays out the notification history on the left and the
// counts on the right.
func (a *App) buildStatusBar() fyne.CanvasObject {
	a.noticeUp = widget.NewButtonWithIcon("", theme.MoveUpIcon(), a.bar.Previous)
	a.noticeDown = widget.NewButtonWithIcon("", theme.MoveDownIcon(), a.bar.Next)
	a.noticeUp.Disable()
	a.noticeDown.Disable()
	a.noticeLabel = widget.NewLabel("")
	a.noticeLabel.Truncation = fyne.TextTruncateEllipsis
	a.liveLabel = widget.NewLabelWithStyle("", fyne.TextAlignTrailing, fyne.TextStyle{Italic: true})
	a.statusLabel = widget.NewLabel("")

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil,
			container.NewHBox(a.noticeUp, a.noticeDown),
			container.NewHBox(a.liveLabel, layout.NewSpacer(), a.statusLabel),
			a.noticeLabel,
		),
	)
}
