// Package source opens a gallery from a generated HTML page or an image
// directory.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"slategallery/internal/gallery"
	"slategallery/internal/scan"
)

// Page is an opened gallery and where it came from.
type Page struct {
	Gallery *gallery.Gallery
	// Path is the absolute source path; storage keys derive from it.
	Path string
	// BaseDir resolves relative image sources.
	BaseDir string
}

// Open loads path. Directories are scanned, files are parsed as HTML.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Page, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open gallery: %w", err)
	}
	if fi.IsDir() {
		g, err := scan.Run(ctx, abs, scan.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		return &Page{Gallery: g, Path: abs, BaseDir: abs}, nil
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open gallery: %w", err)
	}
	defer f.Close()
	g, err := gallery.ParseHTML(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", abs, err)
	}
	return &Page{Gallery: g, Path: abs, BaseDir: filepath.Dir(abs)}, nil
}

// Resolve turns an image source from the page into a local file path.
// URLs other than file:// are returned unchanged.
func (p *Page) Resolve(src string) string {
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "file://"):
		return filepath.FromSlash(strings.TrimPrefix(src, "file://"))
	case strings.Contains(src, "://"):
		return src
	case filepath.IsAbs(filepath.FromSlash(src)):
		return filepath.FromSlash(src)
	default:
		return filepath.Join(p.BaseDir, filepath.FromSlash(src))
	}
}
