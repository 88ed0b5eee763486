package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// galleryTheme wraps an existing theme with tighter padding and a
// stronger selection color, so more thumbnails fit on screen.
type galleryTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*galleryTheme)(nil)

func (t *galleryTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 2
	case theme.SizeNameInnerPadding:
		return 4
	}
	return t.Theme.Size(name)
}

func (t *galleryTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameSelection {
		return t.Theme.Color(theme.ColorNamePrimary, variant)
	}
	return t.Theme.Color(name, variant)
}

// NewGalleryTheme creates the theme wrapper around baseTheme.
func NewGalleryTheme(baseTheme fyne.Theme) fyne.Theme {
	return &galleryTheme{Theme: baseTheme}
}
