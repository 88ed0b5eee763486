// Package scan builds a gallery from a directory of images. Every folder
// that directly contains images becomes one slate.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"slategallery/internal/gallery"
)

// Options tunes a scan.
type Options struct {
	// Workers bounds concurrent file inspections. Zero means GOMAXPROCS.
	Workers int
	Logger  zerolog.Logger
}

// rootSlate names the slate of images directly inside the scanned root.
const rootSlate = "/"

// Run walks root and reads metadata of every image found. Zero-byte files,
// files with other extensions and files that fail to decode are skipped.
func Run(ctx context.Context, root string, opts Options) (*gallery.Gallery, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}
	dirs, err := collect(root, opts.Logger)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	slates := make([]*gallery.Slate, len(dirs))
	for i, d := range dirs {
		s := &gallery.Slate{Name: d.name, Records: make([]*gallery.Record, len(d.files))}
		slates[i] = s
		for j, p := range d.files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, err := Inspect(p)
				if err != nil {
					opts.Logger.Warn().Err(err).Str("path", p).Msg("skipping unreadable image")
					return nil
				}
				s.Records[j] = r
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	for _, s := range slates {
		kept := s.Records[:0]
		for _, r := range s.Records {
			if r != nil {
				kept = append(kept, r)
			}
		}
		s.Records = kept
	}
	gal, err := gallery.New(slates)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	opts.Logger.Info().Str("root", root).Int("images", gal.Len()).Int("slates", len(gal.Slates)).Msg("scan complete")
	return gal, nil
}

type dir struct {
	name  string
	files []string
}

// collect lists image files per directory. Directories are sorted by name,
// which puts the root slate first.
func collect(root string, logger zerolog.Logger) ([]dir, error) {
	var dirs []dir
	index := map[string]int{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			logger.Warn().Err(err).Str("path", p).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsImage(p) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() == 0 {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == "." {
			name = rootSlate
		}
		i, ok := index[name]
		if !ok {
			i = len(dirs)
			index[name] = i
			dirs = append(dirs, dir{name: name})
		}
		dirs[i].files = append(dirs[i].files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	return dirs, nil
}

// IsImage checks if a file name has an image extension.
func IsImage(n string) bool {
	switch strings.ToLower(filepath.Ext(n)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return true
	default:
		return false
	}
}
