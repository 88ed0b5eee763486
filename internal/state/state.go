// Package state is the single mutable record of a gallery session.
//
// Field ownership:
//   - Mode: hidden and selection controllers (via EnterMode)
//   - Criteria: filter panel commands
//   - Anchor: selection controller
//   - Modal: modal navigator
//   - ThumbSize, Focus: the front-end
//   - visible, rank: filter engine (cache)
//
// Record flags (Selected, Hidden, FilteredOut) live on the records themselves.
package state

import (
	"slategallery/internal/gallery"
)

// ViewMode restricts the gallery to a subset of records.
type ViewMode int

const (
	Normal ViewMode = iota
	HiddenOnly
	SelectedOnly
)

func (m ViewMode) String() string {
	switch m {
	case HiddenOnly:
		return "hidden"
	case SelectedOnly:
		return "selected"
	default:
		return "normal"
	}
}

// DefaultThumbSize is the initial value of the size slider.
const DefaultThumbSize = 200

// Store holds all session state.
type Store struct {
	Gallery   *gallery.Gallery
	Mode      ViewMode
	Criteria  Criteria
	Anchor    string
	Modal     ModalState
	ThumbSize int
	Focus     string

	visible []*gallery.Record
	rank    map[string]int
}

// New creates the session state for g in Normal mode.
func New(g *gallery.Gallery) *Store {
	return &Store{
		Gallery:   g,
		Criteria:  NewCriteria(),
		ThumbSize: DefaultThumbSize,
	}
}

// EnterMode switches to m, leaving whichever mode was active. It returns
// the previous mode.
func (s *Store) EnterMode(m ViewMode) ViewMode {
	prev := s.Mode
	s.Mode = m
	return prev
}

// InvalidateCaches drops the visible list and rank index. The filter
// engine calls it after every pass.
func (s *Store) InvalidateCaches() {
	s.visible = nil
	s.rank = nil
}

// VisibleImages returns the shown records in document order, rebuilding
// the cache from record flags when it was invalidated.
func (s *Store) VisibleImages() []*gallery.Record {
	if s.visible != nil {
		return s.visible
	}
	records := s.Gallery.Records()
	visible := make([]*gallery.Record, 0, len(records))
	rank := make(map[string]int, len(records))
	for _, r := range records {
		if r.FilteredOut {
			continue
		}
		rank[r.Path] = len(visible)
		visible = append(visible, r)
	}
	s.visible = visible
	s.rank = rank
	return visible
}

// Rank returns the position of path in the visible order, or -1 when the
// record is filtered out or unknown.
func (s *Store) Rank(path string) int {
	s.VisibleImages()
	if i, ok := s.rank[path]; ok {
		return i
	}
	return -1
}

// SelectedPaths returns the selection set as persisted.
func (s *Store) SelectedPaths() map[string]bool {
	out := make(map[string]bool)
	for _, r := range s.Gallery.Records() {
		if r.Selected {
			out[r.Path] = true
		}
	}
	return out
}

// HiddenPaths returns the hidden set as persisted.
func (s *Store) HiddenPaths() map[string]bool {
	out := make(map[string]bool)
	for _, r := range s.Gallery.Records() {
		if r.Hidden {
			out[r.Path] = true
		}
	}
	return out
}

// HiddenCount returns the number of hidden records.
func (s *Store) HiddenCount() int {
	n := 0
	for _, r := range s.Gallery.Records() {
		if r.Hidden {
			n++
		}
	}
	return n
}

// Status is the content of the status bar.
type Status struct {
	Total    int
	Visible  int
	Selected int
	Hidden   int
	Mode     ViewMode
}

// Status counts records for the status bar and the hidden badge.
func (s *Store) Status() Status {
	st := Status{Total: s.Gallery.Len(), Mode: s.Mode}
	for _, r := range s.Gallery.Records() {
		if !r.FilteredOut {
			st.Visible++
		}
		if r.Selected {
			st.Selected++
		}
		if r.Hidden {
			st.Hidden++
		}
	}
	return st
}
