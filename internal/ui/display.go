package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"slategallery/internal/engine"
	"slategallery/internal/gallery"
	"slategallery/internal/state"
)

// captionHeight is the room under each thumbnail for the file name.
const captionHeight = 36

// galleryView shows the slates as headed grids of tiles.
type galleryView struct {
	app      *App
	content  fyne.CanvasObject
	sections []*slateSection
	tiles    map[string]*tile
	empty    *widget.Label
	size     int
}

type slateSection struct {
	slate *gallery.Slate
	title *widget.Label
	grid  *fyne.Container
	box   *fyne.Container
	tiles []*tile
}

func tileSize(size int) fyne.Size {
	return fyne.NewSize(float32(size), float32(size+captionHeight))
}

func newGalleryView(a *App) *galleryView {
	g := &galleryView{
		app:   a,
		tiles: make(map[string]*tile),
		empty: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		size:  a.engine.State.ThumbSize,
	}
	column := container.NewVBox(g.empty)
	for _, s := range a.engine.State.Gallery.Slates {
		sec := g.newSection(s)
		g.sections = append(g.sections, sec)
		column.Add(sec.box)
	}
	g.content = container.NewVScroll(column)
	return g
}

func (g *galleryView) newSection(s *gallery.Slate) *slateSection {
	name := s.Name
	sec := &slateSection{
		slate: s,
		title: widget.NewLabelWithStyle(name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	}
	objs := make([]fyne.CanvasObject, 0, len(s.Records))
	for _, r := range s.Records {
		t := newTile(g.app, r)
		g.tiles[r.Path] = t
		sec.tiles = append(sec.tiles, t)
		objs = append(objs, t)
	}
	sec.grid = container.NewGridWrap(tileSize(g.size), objs...)
	header := container.NewHBox(
		sec.title,
		layout.NewSpacer(),
		widget.NewButton("Select slate", func() {
			g.app.dispatch(engine.Command{Kind: engine.SelectSlate, Slate: name})
		}),
		widget.NewButton("Deselect slate", func() {
			g.app.dispatch(engine.Command{Kind: engine.DeselectSlate, Slate: name})
		}),
	)
	sec.box = container.NewVBox(header, sec.grid, widget.NewSeparator())
	return sec
}

func (g *galleryView) tile(path string) *tile {
	return g.tiles[path]
}

// refresh applies visibility, flags and the thumbnail size to every tile.
func (g *galleryView) refresh() {
	st := g.app.engine.State
	resized := st.ThumbSize != g.size
	g.size = st.ThumbSize

	shown := 0
	for _, sec := range g.sections {
		for _, t := range sec.tiles {
			if t.rec.FilteredOut {
				t.Hide()
			} else {
				t.Show()
			}
			t.update()
		}
		if resized {
			sec.grid.Layout = layout.NewGridWrapLayout(tileSize(g.size))
		}
		n := sec.slate.VisibleCount()
		shown += n
		if n == 0 {
			sec.box.Hide()
			continue
		}
		sec.title.SetText(fmt.Sprintf("%s (%d of %d)", sec.slate.Name, n, len(sec.slate.Records)))
		sec.box.Show()
		sec.grid.Refresh()
	}

	if shown > 0 {
		g.empty.Hide()
		return
	}
	g.empty.SetText(emptyText(st.Mode))
	g.empty.Show()
}

func emptyText(m state.ViewMode) string {
	switch m {
	case state.HiddenOnly:
		return "No hidden images match the current filters"
	case state.SelectedOnly:
		return "No selected images match the current filters"
	default:
		return "No images match the current filters"
	}
}
