package filter

import (
	"strings"

	"slategallery/internal/gallery"
	"slategallery/internal/state"
)

// Matches reports whether r is shown under criteria c in mode m. Every
// dimension must match; an empty criterion set matches everything.
func Matches(r *gallery.Record, c state.Criteria, m state.ViewMode) bool {
	switch m {
	case state.HiddenOnly:
		if !r.Hidden {
			return false
		}
	case state.SelectedOnly:
		if r.Hidden || !r.Selected {
			return false
		}
	default:
		if r.Hidden {
			return false
		}
	}
	if len(c.Orientations) > 0 && !c.Orientations[r.Orientation] {
		return false
	}
	if len(c.FocalLengths) > 0 && !c.FocalLengths[r.Focal.Key()] {
		return false
	}
	if len(c.Dates) > 0 && !dateMatchesAny(r.Date, c.Dates) {
		return false
	}
	return true
}

func dateMatchesAny(d gallery.CaptureDate, prefixes map[string]bool) bool {
	if !d.Known {
		return prefixes[gallery.UnknownKey]
	}
	for p := range prefixes {
		if DateMatches(d.Value, p) {
			return true
		}
	}
	return false
}

// DateMatches reports whether timestamp value starts with prefix and the
// prefix ends on a component boundary, so "2024-05-1" does not match
// "2024-05-12".
func DateMatches(value, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(value, prefix) {
		return false
	}
	if len(value) == len(prefix) {
		return true
	}
	switch value[len(prefix)] {
	case '-', 'T', ' ', ':', '.':
		return true
	}
	return false
}
