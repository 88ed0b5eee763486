package selection

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slategallery/internal/filter"
	"slategallery/internal/gallery"
	"slategallery/internal/gallery/gallerytest"
	"slategallery/internal/state"
	"slategallery/internal/storage"
)

type saves map[storage.Kind]int

func (s saves) Save(k storage.Kind) { s[k]++ }

type fixture struct {
	g     *gallery.Gallery
	st    *state.Store
	f     *filter.Engine
	saves saves
	c     *Controller
}

func newFixture(t *testing.T, g *gallery.Gallery) *fixture {
	t.Helper()
	fx := &fixture{g: g, st: state.New(g), saves: saves{}}
	fx.f = filter.New(fx.st, filter.Options{Logger: zerolog.Nop()})
	fx.f.Recompute()
	fx.c = New(fx.st, fx.f, fx.saves, zerolog.Nop())
	return fx
}

func abc(t *testing.T) *gallery.Gallery {
	return gallerytest.Build(t,
		gallerytest.Image{Path: "/a.jpg", Orientation: gallery.Landscape},
		gallerytest.Image{Path: "/b.jpg", Orientation: gallery.Portrait},
		gallerytest.Image{Path: "/c.jpg", Orientation: gallery.Landscape},
	)
}

func TestClickAnchorScenario(t *testing.T) {
	fx := newFixture(t, abc(t))
	shift := Mods{Shift: true}

	fx.c.Click("/a.jpg", Mods{})
	assert.Equal(t, "/a.jpg", fx.st.Anchor)
	fx.c.Click("/c.jpg", shift)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg", "/c.jpg"}, gallerytest.Selected(fx.g))
	assert.Equal(t, "/a.jpg", fx.st.Anchor, "shift-click keeps the anchor")

	fx.c.Click("/b.jpg", Mods{})
	assert.Equal(t, []string{"/a.jpg", "/c.jpg"}, gallerytest.Selected(fx.g))
	assert.Equal(t, "/b.jpg", fx.st.Anchor)

	fx.c.Click("/a.jpg", shift)
	assert.Equal(t, []string{"/c.jpg"}, gallerytest.Selected(fx.g))
	assert.Equal(t, 4, fx.saves[storage.Selections])
}

func TestRangeOnlyTouchesRange(t *testing.T) {
	fx := newFixture(t, gallerytest.Paths(t, 10, 0))
	recs := fx.g.Records()
	recs[9].Selected = true

	fx.c.Click(recs[6].Path, Mods{})
	fx.c.Click(recs[3].Path, Mods{Shift: true})
	for i, r := range recs {
		want := (i >= 3 && i <= 6) || i == 9
		assert.Equal(t, want, r.Selected, r.Path)
	}

	changed := fx.c.Click(recs[3].Path, Mods{Shift: true})
	assert.False(t, changed, "repeating a range is idempotent")
}

func TestCtrlClickMovesAnchor(t *testing.T) {
	fx := newFixture(t, abc(t))
	fx.c.Click("/a.jpg", Mods{})
	fx.c.Click("/c.jpg", Mods{Ctrl: true})
	assert.Equal(t, "/c.jpg", fx.st.Anchor)
	assert.Equal(t, []string{"/a.jpg", "/c.jpg"}, gallerytest.Selected(fx.g))
}

func TestShiftWithoutAnchorIsPlainClick(t *testing.T) {
	fx := newFixture(t, abc(t))
	fx.c.Click("/b.jpg", Mods{Shift: true})
	assert.Equal(t, []string{"/b.jpg"}, gallerytest.Selected(fx.g))
	assert.Equal(t, "/b.jpg", fx.st.Anchor)
}

func TestAnchorAcrossFiltering(t *testing.T) {
	fx := newFixture(t, abc(t))
	fx.c.Click("/a.jpg", Mods{})

	fx.st.Criteria.ToggleOrientation(gallery.Landscape)
	fx.f.Recompute()
	require.Equal(t, -1, fx.f.Rank("/b.jpg"))

	fx.c.Click("/c.jpg", Mods{Shift: true})
	assert.Equal(t, []string{"/a.jpg", "/c.jpg"}, gallerytest.Selected(fx.g), "filtered-out records are skipped")
	assert.Equal(t, "/a.jpg", fx.st.Anchor)
}

func TestRangeDisabledWhileAnchorFilteredOut(t *testing.T) {
	fx := newFixture(t, abc(t))
	fx.c.Click("/b.jpg", Mods{})
	fx.st.Criteria.ToggleOrientation(gallery.Landscape)
	fx.f.Recompute()

	assert.False(t, fx.c.Click("/c.jpg", Mods{Shift: true}))
	assert.Equal(t, []string{"/b.jpg"}, gallerytest.Selected(fx.g))

	fx.st.Criteria.Clear()
	fx.f.Recompute()
	assert.True(t, fx.c.Click("/c.jpg", Mods{Shift: true}))
	assert.Equal(t, []string{"/b.jpg", "/c.jpg"}, gallerytest.Selected(fx.g))
}

func TestHiddenRecordsCannotBeSelected(t *testing.T) {
	fx := newFixture(t, abc(t))
	fx.g.Lookup("/b.jpg").Hidden = true
	fx.f.Recompute()

	assert.False(t, fx.c.Click("/b.jpg", Mods{}))
	assert.Equal(t, 2, fx.c.SetAll(true))
	assert.Equal(t, []string{"/a.jpg", "/c.jpg"}, gallerytest.Selected(fx.g))
}

func TestBulkSavesOnce(t *testing.T) {
	fx := newFixture(t, gallerytest.Paths(t, 6, 3))

	assert.Equal(t, 6, fx.c.SetAll(true))
	assert.Equal(t, 1, fx.saves[storage.Selections])
	assert.Equal(t, 0, fx.c.SetAll(true))
	assert.Equal(t, 1, fx.saves[storage.Selections], "no-op bulk does not save")

	assert.Equal(t, 3, fx.c.SetSlate("/slates/s1", false))
	assert.Equal(t, 2, fx.saves[storage.Selections])
	assert.Len(t, gallerytest.Selected(fx.g), 3)
	assert.Equal(t, 0, fx.c.SetSlate("/missing", true))
}

func TestSelectedModeRecomputes(t *testing.T) {
	fx := newFixture(t, abc(t))
	fx.c.Click("/a.jpg", Mods{})
	fx.c.Click("/b.jpg", Mods{})

	assert.Equal(t, state.SelectedOnly, fx.c.ToggleSelectedMode())
	assert.Len(t, fx.f.Visible(), 2)

	fx.c.Click("/a.jpg", Mods{})
	assert.Len(t, fx.f.Visible(), 1, "deselecting removes the record from the view")

	fx.st.EnterMode(state.HiddenOnly)
	assert.Equal(t, state.SelectedOnly, fx.c.ToggleSelectedMode(), "entering leaves hidden mode")
	assert.Equal(t, state.Normal, fx.c.ToggleSelectedMode())
	assert.Len(t, fx.f.Visible(), 3)
}

func TestApply(t *testing.T) {
	fx := newFixture(t, abc(t))
	fx.g.Lookup("/c.jpg").Hidden = true
	n := fx.c.Apply(map[string]bool{"/a.jpg": true, "/c.jpg": true, "/gone.jpg": true})
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"/a.jpg"}, gallerytest.Selected(fx.g))
	assert.Equal(t, 0, fx.saves[storage.Selections])
}
