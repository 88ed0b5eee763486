// Package gallerytest builds small galleries for tests.
package gallerytest

import (
	"fmt"
	"path"
	"testing"

	"slategallery/internal/gallery"
)

// Image describes one record to build.
type Image struct {
	Path        string
	Orientation gallery.Orientation
	Focal       string
	Date        string
}

// Build creates a gallery with the given images grouped into slates by
// their parent directory, in the order given.
func Build(t testing.TB, images ...Image) *gallery.Gallery {
	t.Helper()
	var slates []*gallery.Slate
	byName := map[string]*gallery.Slate{}
	for _, img := range images {
		name := path.Dir(img.Path)
		s := byName[name]
		if s == nil {
			s = &gallery.Slate{Name: name}
			byName[name] = s
			slates = append(slates, s)
		}
		s.Records = append(s.Records, &gallery.Record{
			Path:        img.Path,
			Filename:    path.Base(img.Path),
			FullSrc:     img.Path,
			Orientation: img.Orientation,
			Focal:       gallery.ParseFocalLength(img.Focal),
			Date:        gallery.ParseCaptureDate(img.Date),
		})
	}
	g, err := gallery.New(slates)
	if err != nil {
		t.Fatalf("gallerytest: %v", err)
	}
	return g
}

// Paths builds a gallery of n landscape images named /slates/s<k>/img<i>.jpg,
// perSlate images per slate.
func Paths(t testing.TB, n, perSlate int) *gallery.Gallery {
	t.Helper()
	if perSlate <= 0 {
		perSlate = n
	}
	images := make([]Image, n)
	for i := range images {
		images[i] = Image{
			Path:        fmt.Sprintf("/slates/s%d/img%04d.jpg", i/perSlate, i),
			Orientation: gallery.Landscape,
			Focal:       "50",
			Date:        "2024-05-01T10:00:00",
		}
	}
	return Build(t, images...)
}

// Selected returns the paths of selected records in document order.
func Selected(g *gallery.Gallery) []string {
	var out []string
	for _, r := range g.Records() {
		if r.Selected {
			out = append(out, r.Path)
		}
	}
	return out
}
