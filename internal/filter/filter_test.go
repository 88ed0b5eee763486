package filter

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slategallery/internal/gallery"
	"slategallery/internal/gallery/gallerytest"
	"slategallery/internal/loop"
	"slategallery/internal/state"
)

func TestDateMatches(t *testing.T) {
	tests := []struct {
		value, prefix string
		want          bool
	}{
		{"2024-05-01T10:00:00", "2024-05-01", true},
		{"2024-05-01T10:00:00", "2024-05", true},
		{"2024-05-01T10:00:00", "2024", true},
		{"2024-05-01", "2024-05-01", true},
		{"2024-05-12T10:00:00", "2024-05-1", false},
		{"2024-05-01T10:00:00", "2024-05-02", false},
		{"2024-05-01T10:00:00", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DateMatches(tt.value, tt.prefix), "%q vs %q", tt.value, tt.prefix)
	}
}

func TestMatches(t *testing.T) {
	g := gallerytest.Build(t,
		gallerytest.Image{Path: "/s/a.jpg", Orientation: gallery.Landscape, Focal: "50", Date: "2024-05-01T10:00:00"},
		gallerytest.Image{Path: "/s/b.jpg", Orientation: gallery.Portrait, Focal: "", Date: ""},
		gallerytest.Image{Path: "/s/c.jpg", Orientation: gallery.OrientationUnknown, Focal: "4.5", Date: "2024-06-02T08:00:00"},
	)
	a, b, c := g.Records()[0], g.Records()[1], g.Records()[2]

	crit := state.NewCriteria()
	for _, r := range g.Records() {
		assert.True(t, Matches(r, crit, state.Normal), r.Path)
	}

	crit.ToggleOrientation(gallery.Portrait)
	assert.False(t, Matches(a, crit, state.Normal))
	assert.True(t, Matches(b, crit, state.Normal))
	assert.False(t, Matches(c, crit, state.Normal), "unknown orientation only matches without criteria")
	crit.Clear()

	crit.ToggleFocal(gallery.UnknownKey)
	assert.True(t, Matches(b, crit, state.Normal))
	assert.False(t, Matches(a, crit, state.Normal))
	crit.ToggleFocal("4.5")
	assert.True(t, Matches(c, crit, state.Normal))
	crit.Clear()

	crit.ToggleDate("2024-05-01")
	assert.True(t, Matches(a, crit, state.Normal))
	assert.False(t, Matches(c, crit, state.Normal))
	assert.False(t, Matches(b, crit, state.Normal))
	crit.ToggleDate(gallery.UnknownKey)
	assert.True(t, Matches(b, crit, state.Normal))
}

func TestVisibilityExclusivity(t *testing.T) {
	g := gallerytest.Paths(t, 4, 0)
	recs := g.Records()
	recs[0].Hidden = true
	recs[1].Selected = true
	crit := state.NewCriteria()

	for _, r := range recs {
		if r.Hidden {
			assert.False(t, Matches(r, crit, state.Normal), r.Path)
		} else {
			assert.False(t, Matches(r, crit, state.HiddenOnly), r.Path)
		}
	}
	assert.True(t, Matches(recs[0], crit, state.HiddenOnly))
	assert.True(t, Matches(recs[1], crit, state.SelectedOnly))
	assert.False(t, Matches(recs[2], crit, state.SelectedOnly))
}

func TestSynchronousPass(t *testing.T) {
	g := gallerytest.Build(t,
		gallerytest.Image{Path: "/s1/a.jpg", Orientation: gallery.Landscape},
		gallerytest.Image{Path: "/s2/b.jpg", Orientation: gallery.Portrait},
	)
	st := state.New(g)
	l := loop.NewManual(loop.Options{})
	e := New(st, Options{Scheduler: l, Logger: zerolog.Nop()})
	settled := 0
	e.OnSettled(func() { settled++ })

	st.Criteria.ToggleOrientation(gallery.Portrait)
	gen := e.Recompute()

	assert.Equal(t, uint64(1), gen)
	assert.False(t, e.Busy())
	assert.Equal(t, 1, settled)
	assert.False(t, l.Pending(), "small galleries never touch the scheduler")
	assert.True(t, g.Slate("/s1").FilteredOut)
	assert.False(t, g.Slate("/s2").FilteredOut)
	require.Len(t, e.Visible(), 1)
	assert.Equal(t, "/s2/b.jpg", e.Visible()[0].Path)
	assert.Equal(t, 0, e.Rank("/s2/b.jpg"))
	assert.Equal(t, -1, e.Rank("/s1/a.jpg"))
}

func TestChunkedPass(t *testing.T) {
	g := gallerytest.Paths(t, 450, 150)
	st := state.New(g)
	l := loop.NewManual(loop.Options{})
	e := New(st, Options{Scheduler: l, Logger: zerolog.Nop()})
	settled := 0
	e.OnSettled(func() { settled++ })

	st.Mode = state.SelectedOnly
	e.Recompute()
	assert.True(t, e.Busy())
	assert.Equal(t, 0, settled)

	l.RunOnce()
	recs := g.Records()
	assert.True(t, recs[0].FilteredOut)
	assert.True(t, recs[99].FilteredOut)
	assert.False(t, recs[100].FilteredOut, "second chunk not processed yet")

	l.Drain()
	assert.False(t, e.Busy())
	assert.Equal(t, 1, settled)
	assert.Empty(t, e.Visible())
	for _, s := range g.Slates {
		assert.True(t, s.FilteredOut, s.Name)
	}
}

func TestGenerationSafety(t *testing.T) {
	g := gallerytest.Paths(t, 500, 0)
	st := state.New(g)
	l := loop.NewManual(loop.Options{})
	writes := map[uint64]int{}
	e := New(st, Options{
		Scheduler: l,
		Logger:    zerolog.Nop(),
		Trace:     func(gen uint64, _ *gallery.Record) { writes[gen]++ },
	})
	settled := 0
	e.OnSettled(func() { settled++ })

	st.Mode = state.SelectedOnly
	first := e.Recompute()
	l.RunOnce()
	require.Equal(t, 100, writes[first])

	st.Mode = state.Normal
	second := e.Recompute()
	l.Drain()

	assert.Equal(t, 100, writes[first], "no writes after the pass was superseded")
	assert.Equal(t, 500, writes[second])
	assert.Equal(t, 1, settled, "only the current pass settles")
	assert.Len(t, e.Visible(), 500)
}

func TestIdleFallback(t *testing.T) {
	g := gallerytest.Paths(t, 250, 0)
	st := state.New(g)
	l := loop.NewManual(loop.Options{NoIdle: true})
	e := New(st, Options{Scheduler: l, Logger: zerolog.Nop()})

	st.Mode = state.HiddenOnly
	e.Recompute()
	l.Drain()
	assert.True(t, e.Busy(), "chunks wait on timers when idle scheduling is unavailable")

	l.Advance(10 * time.Millisecond)
	assert.False(t, e.Busy())
	assert.Empty(t, e.Visible())
}

func TestCompleteFinishesPassInFlight(t *testing.T) {
	g := gallerytest.Paths(t, 300, 0)
	st := state.New(g)
	l := loop.NewManual(loop.Options{})
	e := New(st, Options{Scheduler: l, Logger: zerolog.Nop()})
	settled := 0
	e.OnSettled(func() { settled++ })
	require.Len(t, e.Visible(), 300)

	st.Mode = state.SelectedOnly
	e.Recompute()
	require.True(t, e.Busy())

	e.Complete()
	assert.False(t, e.Busy())
	assert.Empty(t, e.Visible())
	assert.Equal(t, 1, settled)

	l.Drain()
	assert.Equal(t, 1, settled, "queued chunks of the completed pass do nothing")
	e.Complete()
	assert.Equal(t, 1, settled)
}
