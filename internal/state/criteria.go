package state

import "slategallery/internal/gallery"

// Criteria are the active filter panel choices. An empty set matches
// everything along its dimension.
type Criteria struct {
	Orientations map[gallery.Orientation]bool
	FocalLengths map[string]bool
	Dates        map[string]bool
}

// NewCriteria returns criteria with nothing selected.
func NewCriteria() Criteria {
	return Criteria{
		Orientations: make(map[gallery.Orientation]bool),
		FocalLengths: make(map[string]bool),
		Dates:        make(map[string]bool),
	}
}

// Empty reports whether no criterion is active.
func (c Criteria) Empty() bool {
	return len(c.Orientations) == 0 && len(c.FocalLengths) == 0 && len(c.Dates) == 0
}

// ToggleOrientation flips o and reports whether it is now active.
func (c Criteria) ToggleOrientation(o gallery.Orientation) bool {
	return toggle(c.Orientations, o)
}

// ToggleFocal flips a focal length key (see gallery.FocalLength.Key).
func (c Criteria) ToggleFocal(key string) bool {
	return toggle(c.FocalLengths, key)
}

// ToggleDate flips a date prefix such as "2024-05-01".
func (c Criteria) ToggleDate(prefix string) bool {
	return toggle(c.Dates, prefix)
}

// Clear deactivates every criterion.
func (c Criteria) Clear() {
	clear(c.Orientations)
	clear(c.FocalLengths)
	clear(c.Dates)
}

func toggle[K comparable](set map[K]bool, k K) bool {
	if set[k] {
		delete(set, k)
		return false
	}
	set[k] = true
	return true
}
