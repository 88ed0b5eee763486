// Package selection implements click, range and bulk selection.
//
// The controller owns state.Store.Anchor and the Selected flag of records.
// The anchor moves on plain and ctrl clicks only, so shift-clicks always
// measure ranges from the same fixed start.
package selection

import (
	"github.com/rs/zerolog"

	"slategallery/internal/filter"
	"slategallery/internal/gallery"
	"slategallery/internal/state"
	"slategallery/internal/storage"
)

// Mods are the modifier keys held during a click. Ctrl covers Cmd.
type Mods struct {
	Shift bool
	Ctrl  bool
}

type Controller struct {
	st     *state.Store
	filter *filter.Engine
	saver  storage.Saver
	logger zerolog.Logger
}

func New(st *state.Store, f *filter.Engine, saver storage.Saver, logger zerolog.Logger) *Controller {
	return &Controller{st: st, filter: f, saver: saver, logger: logger}
}

// Click handles a click on the record at path and reports whether any
// selection changed.
func (c *Controller) Click(path string, mods Mods) bool {
	r := c.st.Gallery.Lookup(path)
	if r == nil || r.Hidden {
		return false
	}
	if mods.Shift && c.st.Anchor != "" {
		return c.selectRange(r)
	}
	r.Selected = !r.Selected
	c.st.Anchor = path
	c.changed()
	return true
}

func (c *Controller) selectRange(target *gallery.Record) bool {
	anchor := c.st.Gallery.Lookup(c.st.Anchor)
	if anchor == nil {
		return false
	}
	i, j := c.filter.Rank(anchor.Path), c.filter.Rank(target.Path)
	if i < 0 || j < 0 {
		c.logger.Debug().Str("anchor", anchor.Path).Str("target", target.Path).Msg("range ignored, endpoint not visible")
		return false
	}
	if i > j {
		i, j = j, i
	}
	want := anchor.Selected
	visible := c.filter.Visible()
	changed := false
	for _, r := range visible[i : j+1] {
		if r.Hidden || r.Selected == want {
			continue
		}
		r.Selected = want
		changed = true
	}
	if changed {
		c.changed()
	}
	return changed
}

// SetAll sets the selection of every visible record and returns how many
// records changed.
func (c *Controller) SetAll(selected bool) int {
	return c.set(c.filter.Visible(), selected)
}

// SetSlate sets the selection of every visible record of one slate.
func (c *Controller) SetSlate(name string, selected bool) int {
	s := c.st.Gallery.Slate(name)
	if s == nil {
		return 0
	}
	var targets []*gallery.Record
	for _, r := range s.Records {
		if !r.FilteredOut {
			targets = append(targets, r)
		}
	}
	return c.set(targets, selected)
}

func (c *Controller) set(records []*gallery.Record, selected bool) int {
	n := 0
	for _, r := range records {
		if r.Hidden || r.Selected == selected {
			continue
		}
		r.Selected = selected
		n++
	}
	if n > 0 {
		c.changed()
	}
	return n
}

// Apply selects exactly the given paths among existing, unhidden records.
// It is used when restoring saved state and does not schedule a save.
func (c *Controller) Apply(paths map[string]bool) int {
	n := 0
	for _, r := range c.st.Gallery.Records() {
		r.Selected = paths[r.Path] && !r.Hidden
		if r.Selected {
			n++
		}
	}
	return n
}

// ToggleSelectedMode enters SelectedOnly mode, or returns to Normal when
// it is already active. Entering it leaves HiddenOnly mode.
func (c *Controller) ToggleSelectedMode() state.ViewMode {
	if c.st.Mode == state.SelectedOnly {
		c.st.EnterMode(state.Normal)
	} else {
		c.st.EnterMode(state.SelectedOnly)
	}
	c.filter.Recompute()
	return c.st.Mode
}

func (c *Controller) changed() {
	c.saver.Save(storage.Selections)
	if c.st.Mode == state.SelectedOnly {
		c.filter.Recompute()
	}
}
