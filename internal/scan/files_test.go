package scan

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slategallery/internal/gallery"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))))
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"image.PNG", true},
		{"image.jpg", true},
		{"image.jpeg", true},
		{"image.gif", true},
		{"image.TIFF", true},
		{"image.bmp", true},
		{"image.txt", false},
		{"image", false},
		{".jpeg", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsImage(tt.name), tt.name)
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "top.png"), 4, 4)
	writePNG(t, filepath.Join(root, "day1", "a.png"), 6, 3)
	writePNG(t, filepath.Join(root, "day1", "b.png"), 3, 6)
	writePNG(t, filepath.Join(root, "day2", "nested", "c.png"), 5, 2)
	require.NoError(t, os.WriteFile(filepath.Join(root, "day1", "empty.jpg"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "day1", "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "day2", "broken.jpg"), []byte("not a jpeg"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	g, err := Run(context.Background(), root, Options{Workers: 2, Logger: zerolog.Nop()})
	require.NoError(t, err)

	var names []string
	for _, s := range g.Slates {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"/", "day1", "day2/nested"}, names)
	require.Equal(t, 4, g.Len())

	a := g.Lookup(filepath.ToSlash(filepath.Join(root, "day1", "a.png")))
	require.NotNil(t, a)
	assert.Equal(t, "a.png", a.Filename)
	assert.Equal(t, "day1", a.Slate)
	assert.Equal(t, gallery.Landscape, a.Orientation)
	assert.False(t, a.Focal.Known)
	assert.False(t, a.Date.Known)

	b := g.Lookup(filepath.ToSlash(filepath.Join(root, "day1", "b.png")))
	require.NotNil(t, b)
	assert.Equal(t, gallery.Portrait, b.Orientation)
	assert.Equal(t, gallery.Square, g.Slate("/").Records[0].Orientation)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{Logger: zerolog.Nop()})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "x.png")
	writePNG(t, file, 1, 1)
	_, err = Run(context.Background(), file, Options{Logger: zerolog.Nop()})
	assert.Error(t, err)

	_, err = Run(context.Background(), t.TempDir(), Options{Logger: zerolog.Nop()})
	assert.ErrorIs(t, err, gallery.ErrNoImages)
}

func TestOrientation(t *testing.T) {
	assert.Equal(t, gallery.Landscape, orientation(6, 4, 0))
	assert.Equal(t, gallery.Portrait, orientation(6, 4, 6))
	assert.Equal(t, gallery.Portrait, orientation(6, 4, 8))
	assert.Equal(t, gallery.Landscape, orientation(6, 4, 3))
	assert.Equal(t, gallery.Square, orientation(5, 5, 0))
	assert.Equal(t, gallery.OrientationUnknown, orientation(0, 5, 0))

	// Rotation swaps the sides before they are compared.
	assert.Equal(t, gallery.Portrait, orientation(6, 4, 5))
	assert.Equal(t, gallery.Portrait, orientation(6, 4, 7))
	assert.Equal(t, gallery.Landscape, orientation(4, 6, 6))
	assert.Equal(t, gallery.Portrait, orientation(4, 6, 1))
}
