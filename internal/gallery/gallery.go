package gallery

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrNoImages is returned when a source contains no image records.
var ErrNoImages = errors.New("gallery contains no images")

// Gallery is the ordered set of slates and records of one generated page.
type Gallery struct {
	Slates      []*Slate
	LazyLoading bool
	// Duplicates lists paths that appeared more than once; only the first
	// occurrence was kept.
	Duplicates []string

	records []*Record
	byPath  map[string]*Record
	bySlate map[string]*Slate
}

// New builds a gallery from slates in document order. Records with an empty
// or repeated path are dropped, as are slates left empty.
func New(slates []*Slate) (*Gallery, error) {
	g := &Gallery{
		byPath:  make(map[string]*Record),
		bySlate: make(map[string]*Slate),
	}
	for i, s := range slates {
		if s.Name == "" {
			s.Name = "Slate " + strconv.Itoa(i+1)
		}
		kept := s.Records[:0]
		for _, r := range s.Records {
			if r.Path == "" {
				continue
			}
			if _, dup := g.byPath[r.Path]; dup {
				g.Duplicates = append(g.Duplicates, r.Path)
				continue
			}
			r.Slate = s.Name
			r.index = len(g.records)
			g.records = append(g.records, r)
			g.byPath[r.Path] = r
			kept = append(kept, r)
		}
		s.Records = kept
		if len(kept) == 0 {
			continue
		}
		if existing, ok := g.bySlate[s.Name]; ok {
			existing.Records = append(existing.Records, kept...)
			continue
		}
		g.bySlate[s.Name] = s
		g.Slates = append(g.Slates, s)
	}
	if len(g.records) == 0 {
		return nil, ErrNoImages
	}
	return g, nil
}

// Records returns all records in document order. The slice is shared.
func (g *Gallery) Records() []*Record {
	return g.records
}

// Len returns the number of records.
func (g *Gallery) Len() int {
	return len(g.records)
}

// Lookup returns the record for path, or nil.
func (g *Gallery) Lookup(path string) *Record {
	return g.byPath[path]
}

// Slate returns the slate named name, or nil.
func (g *Gallery) Slate(name string) *Slate {
	return g.bySlate[name]
}

// Live reports whether r is still the record registered under its path.
func (g *Gallery) Live(r *Record) bool {
	return r != nil && g.byPath[r.Path] == r
}

// Facet is one filter option with the number of records it matches.
type Facet struct {
	Value string
	Label string
	Count int
}

// Facets groups the filter options of a gallery.
type Facets struct {
	Orientations []Facet
	FocalLengths []Facet
	Dates        []Facet
}

// Facets computes the filter panel options: orientations in enum order,
// focal lengths ascending with unknown last, dates ascending by day with
// unknown last.
func (g *Gallery) Facets() Facets {
	orient := map[Orientation]int{}
	focal := map[string]int{}
	focalMM := map[string]float64{}
	dates := map[string]int{}
	for _, r := range g.records {
		orient[r.Orientation]++
		k := r.Focal.Key()
		focal[k]++
		focalMM[k] = r.Focal.MM
		dates[r.Date.Day()]++
	}

	var f Facets
	for _, o := range []Orientation{Landscape, Portrait, Square, OrientationUnknown} {
		if n := orient[o]; n > 0 {
			f.Orientations = append(f.Orientations, Facet{Value: o.String(), Label: o.String(), Count: n})
		}
	}

	for k, n := range focal {
		label := k + "mm"
		if k == UnknownKey {
			label = "Unknown"
		}
		f.FocalLengths = append(f.FocalLengths, Facet{Value: k, Label: label, Count: n})
	}
	sort.Slice(f.FocalLengths, func(i, j int) bool {
		a, b := f.FocalLengths[i].Value, f.FocalLengths[j].Value
		if a == UnknownKey || b == UnknownKey {
			return b == UnknownKey && a != UnknownKey
		}
		return focalMM[a] < focalMM[b]
	})

	for k, n := range dates {
		f.Dates = append(f.Dates, Facet{Value: k, Label: displayDate(k), Count: n})
	}
	sort.Slice(f.Dates, func(i, j int) bool {
		a, b := f.Dates[i].Value, f.Dates[j].Value
		if a == UnknownKey || b == UnknownKey {
			return b == UnknownKey && a != UnknownKey
		}
		return a < b
	})
	return f
}

// displayDate renders YYYY-MM-DD as DD/MM/YY.
func displayDate(day string) string {
	if day == UnknownKey || len(day) != 10 {
		if day == UnknownKey {
			return "Unknown Date"
		}
		return day
	}
	return fmt.Sprintf("%s/%s/%s", day[8:10], day[5:7], day[2:4])
}
