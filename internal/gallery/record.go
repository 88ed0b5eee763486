// Package gallery holds the parsed image records the engine works on.
// Records are built once at load time from the generator's markup (or a
// directory scan) so that filtering never re-parses attribute strings.
package gallery

import (
	"strconv"
	"strings"
	"unicode"
)

// Orientation of an image as reported by the generator.
type Orientation int

const (
	OrientationUnknown Orientation = iota
	Landscape
	Portrait
	Square
)

// ParseOrientation maps a data-orientation value to an Orientation.
func ParseOrientation(s string) Orientation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "landscape":
		return Landscape
	case "portrait":
		return Portrait
	case "square":
		return Square
	default:
		return OrientationUnknown
	}
}

func (o Orientation) String() string {
	switch o {
	case Landscape:
		return "landscape"
	case Portrait:
		return "portrait"
	case Square:
		return "square"
	default:
		return "unknown"
	}
}

// UnknownKey is the filter bucket for missing focal lengths and dates.
const UnknownKey = "unknown"

// FocalLength is a focal length in millimetres, or unknown.
type FocalLength struct {
	Known bool
	MM    float64
}

// KnownFocal returns a known focal length.
func KnownFocal(mm float64) FocalLength {
	return FocalLength{Known: true, MM: mm}
}

// ParseFocalLength reads a data-focal-length value. Empty, "unknown",
// "None" and unparseable values are all unknown.
func ParseFocalLength(s string) FocalLength {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "mm")
	if s == "" || s == UnknownKey || s == "none" {
		return FocalLength{}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return FocalLength{}
	}
	return KnownFocal(v)
}

// Key is the canonical filter value: integer text for whole values, the
// shortest decimal otherwise, "unknown" when absent.
func (f FocalLength) Key() string {
	if !f.Known {
		return UnknownKey
	}
	if f.MM == float64(int64(f.MM)) {
		return strconv.FormatInt(int64(f.MM), 10)
	}
	return strconv.FormatFloat(f.MM, 'f', -1, 64)
}

// CaptureDate is an ISO capture timestamp (any granularity), or unknown.
type CaptureDate struct {
	Known bool
	Value string
}

// ParseCaptureDate reads a data-date value. Values that do not start with
// a four digit year are treated as unknown.
func ParseCaptureDate(s string) CaptureDate {
	s = strings.TrimSpace(s)
	if len(s) < 4 || strings.EqualFold(s, UnknownKey) {
		return CaptureDate{}
	}
	for _, r := range s[:4] {
		if !unicode.IsDigit(r) {
			return CaptureDate{}
		}
	}
	return CaptureDate{Known: true, Value: s}
}

// Day returns the YYYY-MM-DD part of the date, or "unknown".
func (d CaptureDate) Day() string {
	if !d.Known {
		return UnknownKey
	}
	if len(d.Value) >= 10 {
		return d.Value[:10]
	}
	return d.Value
}

// Record is one image wrapper of the gallery. Path is the primary key.
// Selected, Hidden and FilteredOut are the live view flags the controllers
// mutate; everything else is fixed at load time.
type Record struct {
	Path        string
	Filename    string
	Slate       string
	FullSrc     string
	Thumb       string
	Orientation Orientation
	Focal       FocalLength
	Date        CaptureDate

	Selected    bool
	Hidden      bool
	FilteredOut bool

	index int
}

// Index is the record's position in document order.
func (r *Record) Index() int {
	return r.index
}

// Visible reports whether the record is currently shown.
func (r *Record) Visible() bool {
	return !r.FilteredOut
}

// Slate is a group of records (one source folder).
type Slate struct {
	Name        string
	Records     []*Record
	FilteredOut bool
}

// VisibleCount returns the number of records in the slate that are shown.
func (s *Slate) VisibleCount() int {
	n := 0
	for _, r := range s.Records {
		if !r.FilteredOut {
			n++
		}
	}
	return n
}
