// Package modal is the full-screen image viewer's navigation logic.
//
// The navigator owns state.Store.Modal. It walks the filter engine's
// visible list and checks every target before showing it, closing with a
// notification when a filter pass removed the image underneath it.
package modal

import (
	"time"

	"github.com/rs/zerolog"

	"slategallery/internal/debounce"
	"slategallery/internal/filter"
	"slategallery/internal/gallery"
	"slategallery/internal/hidden"
	"slategallery/internal/loop"
	"slategallery/internal/notify"
	"slategallery/internal/state"
)

// DefaultResizeDelay is the quiet period before a resized viewer redraws.
const DefaultResizeDelay = 150 * time.Millisecond

// Key is a key press the viewer reacts to.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyEscape
	KeyTab
	// KeyHide toggles hide on the current image ("h").
	KeyHide
)

type Options struct {
	Scheduler   loop.Scheduler
	ResizeDelay time.Duration
	Notifier    notify.Notifier
	Logger      zerolog.Logger
	// OnRender draws r in the viewer.
	OnRender func(r *gallery.Record)
	// OnClose hands focus back to the control focused before Open.
	OnClose func(returnFocus string)
}

type Navigator struct {
	st       *state.Store
	filter   *filter.Engine
	hidden   *hidden.Controller
	notifier notify.Notifier
	logger   zerolog.Logger
	resize   *debounce.Debouncer
	onRender func(*gallery.Record)
	onClose  func(string)
}

// New creates a navigator and registers it to refresh after every filter
// pass.
func New(st *state.Store, f *filter.Engine, h *hidden.Controller, opts Options) *Navigator {
	if opts.ResizeDelay <= 0 {
		opts.ResizeDelay = DefaultResizeDelay
	}
	n := &Navigator{
		st:       st,
		filter:   f,
		hidden:   h,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		onRender: opts.OnRender,
		onClose:  opts.OnClose,
	}
	n.resize = debounce.New(opts.Scheduler, opts.ResizeDelay, n.redraw)
	f.OnSettled(n.Refresh)
	return n
}

// IsOpen reports whether the viewer is showing.
func (n *Navigator) IsOpen() bool {
	return n.st.Modal.Open
}

// Current returns the displayed record, or nil when closed.
func (n *Navigator) Current() *gallery.Record {
	if !n.st.Modal.Open {
		return nil
	}
	return n.st.Gallery.Lookup(n.st.Modal.Path)
}

// Open shows the record at path. An unknown or filtered-out path opens the
// first visible image instead.
func (n *Navigator) Open(path, returnFocus string) bool {
	visible := n.filter.Visible()
	if len(visible) == 0 {
		n.notifier.Notify(notify.Info, "No images to show")
		return false
	}
	idx := n.filter.Rank(path)
	if idx < 0 {
		n.logger.Debug().Str("path", path).Msg("opening first visible image instead")
		idx = 0
	}
	n.st.Modal = state.ModalState{
		Open:        true,
		ReturnFocus: returnFocus,
		Focus:       state.FocusClose,
	}
	n.show(idx)
	return n.st.Modal.Open
}

// Close hides the viewer and restores the previous focus.
func (n *Navigator) Close() {
	if !n.st.Modal.Open {
		return
	}
	n.resize.Cancel()
	focus := n.st.Modal.ReturnFocus
	n.st.Modal = state.ModalState{}
	if n.onClose != nil {
		n.onClose(focus)
	}
}

// Next shows the following visible image, wrapping to the first.
func (n *Navigator) Next() {
	n.step(1)
}

// Prev shows the preceding visible image, wrapping to the last.
func (n *Navigator) Prev() {
	n.step(-1)
}

func (n *Navigator) step(delta int) {
	if !n.st.Modal.Open {
		return
	}
	count := len(n.filter.Visible())
	if count == 0 {
		n.closeWith("No images left to show")
		return
	}
	n.show(((n.position()+delta)%count + count) % count)
}

// position is the current visible index, preferring the path's rank over
// the stored index when the list moved underneath the viewer.
func (n *Navigator) position() int {
	if i := n.filter.Rank(n.st.Modal.Path); i >= 0 {
		return i
	}
	return n.st.Modal.Index
}

func (n *Navigator) show(idx int) {
	visible := n.filter.Visible()
	if idx < 0 || idx >= len(visible) {
		n.closeWith("Image is no longer available")
		return
	}
	r := visible[idx]
	if !n.st.Gallery.Live(r) || r.FilteredOut {
		n.closeWith("Image is no longer available")
		return
	}
	n.st.Modal.Index = idx
	n.st.Modal.Path = r.Path
	n.render(r)
}

func (n *Navigator) render(r *gallery.Record) {
	if n.onRender != nil {
		n.onRender(r)
	}
}

func (n *Navigator) closeWith(msg string) {
	n.Close()
	n.notifier.Notify(notify.Info, msg)
	n.notifier.Announce(msg)
}

// Refresh re-locates the current image after a filter pass and closes the
// viewer if it is no longer visible.
func (n *Navigator) Refresh() {
	if !n.st.Modal.Open {
		return
	}
	idx := n.filter.Rank(n.st.Modal.Path)
	if idx < 0 {
		n.closeWith("The current image is no longer visible")
		return
	}
	n.show(idx)
}

// HideCurrent toggles hide on the displayed image. When that removes it
// from view the viewer moves to the next still visible image, or closes
// if there is none.
func (n *Navigator) HideCurrent() {
	cur := n.Current()
	if cur == nil {
		return
	}
	after := *cur
	after.Hidden = !after.Hidden
	if after.Hidden {
		after.Selected = false
	}
	if filter.Matches(&after, n.st.Criteria, n.st.Mode) {
		n.hidden.Toggle(cur.Path)
		return
	}

	next := n.nextCandidate(cur)
	if next == nil {
		n.closeWith("No more images to show")
		n.hidden.Toggle(cur.Path)
		return
	}
	n.st.Modal.Path = next.Path
	n.hidden.Toggle(cur.Path)
	if n.filter.Busy() {
		n.render(next)
	}
}

func (n *Navigator) nextCandidate(cur *gallery.Record) *gallery.Record {
	visible := n.filter.Visible()
	start := n.position()
	for k := 1; k < len(visible); k++ {
		r := visible[(start+k)%len(visible)]
		if r != cur && n.st.Gallery.Live(r) && filter.Matches(r, n.st.Criteria, n.st.Mode) {
			return r
		}
	}
	return nil
}

// Resize schedules a redraw once resizing has been quiet for the delay.
func (n *Navigator) Resize() {
	if n.st.Modal.Open {
		n.resize.Call()
	}
}

func (n *Navigator) redraw() {
	if r := n.Current(); r != nil {
		n.render(r)
	}
}

// HandleKey reacts to a key press and reports whether it was consumed.
// Tab and shift+Tab cycle focus within the viewer's controls.
func (n *Navigator) HandleKey(k Key, shift bool) bool {
	if !n.st.Modal.Open {
		return false
	}
	switch k {
	case KeyLeft:
		n.Prev()
	case KeyRight:
		n.Next()
	case KeyEscape:
		n.Close()
	case KeyHide:
		n.HideCurrent()
	case KeyTab:
		step := 1
		if shift {
			step = -1
		}
		n.st.Modal.Focus = n.st.Modal.Focus.Cycle(step)
	default:
		return false
	}
	return true
}
