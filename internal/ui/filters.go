package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"slategallery/internal/engine"
	"slategallery/internal/gallery"
)

// filterPanel holds one check per facet value. Checks only mirror the
// criteria; every change goes through the engine.
type filterPanel struct {
	app     *App
	content fyne.CanvasObject
	checks  []facetCheck
}

type facetCheck struct {
	check  *widget.Check
	kind   engine.Kind
	value  string
	active func() bool
}

func newFilterPanel(a *App) *filterPanel {
	p := &filterPanel{app: a}
	facets := a.engine.State.Gallery.Facets()
	crit := a.engine.State.Criteria

	orient := p.group(facets.Orientations, engine.ToggleOrientation, func(v string) func() bool {
		o := gallery.ParseOrientation(v)
		return func() bool { return crit.Orientations[o] }
	})
	focal := p.group(facets.FocalLengths, engine.ToggleFocal, func(v string) func() bool {
		return func() bool { return crit.FocalLengths[v] }
	})
	dates := p.group(facets.Dates, engine.ToggleDate, func(v string) func() bool {
		return func() bool { return crit.Dates[v] }
	})

	acc := widget.NewAccordion(
		widget.NewAccordionItem("Orientation", orient),
		widget.NewAccordionItem("Focal length", focal),
		widget.NewAccordionItem("Date", dates),
	)
	acc.MultiOpen = true
	acc.OpenAll()

	clearBtn := widget.NewButtonWithIcon("Clear filters", theme.ContentClearIcon(), func() {
		a.dispatch(engine.Command{Kind: engine.ClearFilters})
	})
	p.content = container.NewBorder(nil, clearBtn, nil, nil, container.NewVScroll(acc))
	return p
}

func (p *filterPanel) group(facets []gallery.Facet, kind engine.Kind, active func(string) func() bool) fyne.CanvasObject {
	box := container.NewVBox()
	for _, f := range facets {
		value := f.Value
		c := widget.NewCheck(fmt.Sprintf("%s (%d)", f.Label, f.Count), func(bool) {
			p.app.dispatch(engine.Command{Kind: kind, Key: value})
		})
		p.checks = append(p.checks, facetCheck{check: c, kind: kind, value: value, active: active(value)})
		box.Add(c)
	}
	return box
}

// refresh syncs the checks with the criteria without firing OnChanged.
func (p *filterPanel) refresh() {
	for _, fc := range p.checks {
		want := fc.active()
		if fc.check.Checked != want {
			fc.check.Checked = want
			fc.check.Refresh()
		}
	}
}
