package gallery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html><body data-lazy-loading="true">
<div class="slate" data-slate="beach">
  <h2>beach</h2>
  <div class="image-container" data-full-image="/photos/slates/beach/a.jpg"
       data-orientation="landscape" data-focal-length="50.0" data-date="2024-05-01T09:30:00">
    <img src="thumbs/a.jpg" data-src-full="file:///photos/slates/beach/a.jpg">
    <div class="metadata"><span class="filename">a.jpg</span></div>
  </div>
  <div class="image-container" data-full-image="/photos/slates/beach/b.jpg"
       data-orientation="Portrait" data-focal-length="" data-date="unknown">
    <img data-src="thumbs/b.jpg" data-src-full="file:///photos/slates/beach/b.jpg">
  </div>
</div>
<div class="slate">
  <h2>city</h2>
  <div data-full-image="/photos/slates/city/c.jpg" data-orientation="square" data-focal-length="4.5" data-date="2024-05-02">
    <img src="thumbs/c.jpg">
  </div>
  <div data-full-image="/photos/slates/beach/a.jpg" data-orientation="landscape"></div>
</div>
</body></html>`

func TestParseHTML(t *testing.T) {
	g, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.True(t, g.LazyLoading)
	require.Len(t, g.Slates, 2)
	assert.Equal(t, "beach", g.Slates[0].Name)
	assert.Equal(t, "city", g.Slates[1].Name)
	assert.Equal(t, []string{"/photos/slates/beach/a.jpg"}, g.Duplicates)
	require.Equal(t, 3, g.Len())

	a := g.Lookup("/photos/slates/beach/a.jpg")
	require.NotNil(t, a)
	assert.Equal(t, Landscape, a.Orientation)
	assert.Equal(t, "50", a.Focal.Key())
	assert.Equal(t, "2024-05-01", a.Date.Day())
	assert.Equal(t, "a.jpg", a.Filename)
	assert.Equal(t, "thumbs/a.jpg", a.Thumb)
	assert.Equal(t, "file:///photos/slates/beach/a.jpg", a.FullSrc)
	assert.Equal(t, 0, a.Index())

	b := g.Lookup("/photos/slates/beach/b.jpg")
	require.NotNil(t, b)
	assert.Equal(t, Portrait, b.Orientation)
	assert.False(t, b.Focal.Known)
	assert.False(t, b.Date.Known)
	assert.Equal(t, "b.jpg", b.Filename, "filename falls back to the path base")
	assert.Equal(t, "thumbs/b.jpg", b.Thumb)

	c := g.Lookup("/photos/slates/city/c.jpg")
	require.NotNil(t, c)
	assert.Equal(t, "city", c.Slate)
	assert.Equal(t, "4.5", c.Focal.Key())
	assert.Equal(t, "/photos/slates/city/c.jpg", c.FullSrc, "full source falls back to the path")
}

func TestParseHTMLWithoutImages(t *testing.T) {
	_, err := ParseHTML(strings.NewReader("<html><body><p>empty</p></body></html>"))
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestParseFocalLength(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50", "50"},
		{"50.0", "50"},
		{"4.5", "4.5"},
		{"35mm", "35"},
		{"", UnknownKey},
		{"unknown", UnknownKey},
		{"None", UnknownKey},
		{"abc", UnknownKey},
		{"-3", UnknownKey},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFocalLength(tt.in).Key(), "input %q", tt.in)
	}
}

func TestParseCaptureDate(t *testing.T) {
	assert.Equal(t, CaptureDate{Known: true, Value: "2024-05-01T10:00:00"}, ParseCaptureDate(" 2024-05-01T10:00:00 "))
	assert.False(t, ParseCaptureDate("unknown").Known)
	assert.False(t, ParseCaptureDate("May 2024").Known)
	assert.Equal(t, UnknownKey, ParseCaptureDate("").Day())
}

func TestFacets(t *testing.T) {
	g, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	f := g.Facets()
	assert.Equal(t, []Facet{
		{Value: "landscape", Label: "landscape", Count: 1},
		{Value: "portrait", Label: "portrait", Count: 1},
		{Value: "square", Label: "square", Count: 1},
	}, f.Orientations)
	assert.Equal(t, []Facet{
		{Value: "4.5", Label: "4.5mm", Count: 1},
		{Value: "50", Label: "50mm", Count: 1},
		{Value: UnknownKey, Label: "Unknown", Count: 1},
	}, f.FocalLengths)
	assert.Equal(t, []Facet{
		{Value: "2024-05-01", Label: "01/05/24", Count: 1},
		{Value: "2024-05-02", Label: "02/05/24", Count: 1},
		{Value: UnknownKey, Label: "Unknown Date", Count: 1},
	}, f.Dates)
}

func TestLive(t *testing.T) {
	g, err := ParseHTML(strings.NewReader(samplePage))
	require.NoError(t, err)
	assert.True(t, g.Live(g.Records()[0]))
	assert.False(t, g.Live(&Record{Path: "/photos/slates/beach/a.jpg"}))
	assert.False(t, g.Live(nil))
}
