// Package hidden implements hiding images and the hidden-only view.
package hidden

import (
	"fmt"

	"github.com/rs/zerolog"

	"slategallery/internal/filter"
	"slategallery/internal/notify"
	"slategallery/internal/state"
	"slategallery/internal/storage"
)

type Controller struct {
	st       *state.Store
	filter   *filter.Engine
	saver    storage.Saver
	notifier notify.Notifier
	logger   zerolog.Logger
}

func New(st *state.Store, f *filter.Engine, saver storage.Saver, n notify.Notifier, logger zerolog.Logger) *Controller {
	return &Controller{st: st, filter: f, saver: saver, notifier: n, logger: logger}
}

// Hide marks path hidden and clears that record's own selection. Hiding
// an already hidden record does nothing.
func (c *Controller) Hide(path string) bool {
	r := c.st.Gallery.Lookup(path)
	if r == nil || r.Hidden {
		return false
	}
	r.Hidden = true
	if r.Selected {
		r.Selected = false
		c.saver.Save(storage.Selections)
	}
	c.saver.Save(storage.Hidden)
	c.filter.Recompute()
	c.logger.Debug().Str("path", path).Msg("image hidden")
	return true
}

// Unhide clears the hidden flag of path. The previous selection is not
// restored.
func (c *Controller) Unhide(path string) bool {
	r := c.st.Gallery.Lookup(path)
	if r == nil || !r.Hidden {
		return false
	}
	r.Hidden = false
	c.saver.Save(storage.Hidden)
	c.filter.Recompute()
	c.logger.Debug().Str("path", path).Msg("image unhidden")
	return true
}

// Toggle hides or unhides path and reports whether it is now hidden.
func (c *Controller) Toggle(path string) bool {
	r := c.st.Gallery.Lookup(path)
	if r == nil {
		return false
	}
	if r.Hidden {
		c.Unhide(path)
		return false
	}
	return c.Hide(path)
}

// UnhideAll clears the whole hidden set in one step. confirmed carries the
// user's answer to the confirmation dialog; without it nothing changes.
// HiddenOnly mode is left since it would show nothing.
func (c *Controller) UnhideAll(confirmed bool) int {
	n := c.st.HiddenCount()
	if n == 0 {
		c.notifier.Notify(notify.Info, "There are no hidden images")
		return 0
	}
	if !confirmed {
		return 0
	}
	for _, r := range c.st.Gallery.Records() {
		r.Hidden = false
	}
	if c.st.Mode == state.HiddenOnly {
		c.st.EnterMode(state.Normal)
	}
	c.saver.Save(storage.Hidden)
	c.filter.Recompute()
	msg := fmt.Sprintf("Unhid %d %s", n, plural(n, "image", "images"))
	c.notifier.Notify(notify.Success, msg)
	c.notifier.Announce(msg)
	return n
}

// Apply marks exactly the given paths hidden. It is used when restoring
// saved state and does not schedule a save.
func (c *Controller) Apply(paths map[string]bool) int {
	n := 0
	for _, r := range c.st.Gallery.Records() {
		r.Hidden = paths[r.Path]
		if r.Hidden {
			r.Selected = false
			n++
		}
	}
	return n
}

// ToggleHiddenMode switches between HiddenOnly and Normal mode. Entering
// HiddenOnly leaves SelectedOnly, and is refused when nothing is hidden.
func (c *Controller) ToggleHiddenMode() state.ViewMode {
	if c.st.Mode == state.HiddenOnly {
		c.st.EnterMode(state.Normal)
	} else {
		if c.st.HiddenCount() == 0 {
			c.notifier.Notify(notify.Info, "There are no hidden images")
			return c.st.Mode
		}
		c.st.EnterMode(state.HiddenOnly)
	}
	c.filter.Recompute()
	c.notifier.Announce(modeAnnouncement(c.st.Mode))
	return c.st.Mode
}

// Badge returns the hidden count and whether the badge is shown.
func (c *Controller) Badge() (int, bool) {
	n := c.st.HiddenCount()
	return n, n > 0
}

func modeAnnouncement(m state.ViewMode) string {
	if m == state.HiddenOnly {
		return "Showing hidden images"
	}
	return "Showing all images"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
