package ui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/fogleman/gg"
	"github.com/nfnt/resize"

	"slategallery/internal/gallery"
)

// thumbnailSize bounds the generated thumbnails; the grid scales them to
// the slider size.
const thumbnailSize = 320

// ThumbnailManager handles generation and caching of image thumbnails.
type ThumbnailManager struct {
	cache      map[string]fyne.Resource
	waiting    map[string][]func(fyne.Resource)
	cacheMutex sync.RWMutex
	sem        chan struct{}
	app        *App
}

// NewThumbnailManager creates a new thumbnail manager.
func NewThumbnailManager(app *App) *ThumbnailManager {
	return &ThumbnailManager{
		cache:   make(map[string]fyne.Resource),
		waiting: make(map[string][]func(fyne.Resource)),
		sem:     make(chan struct{}, runtime.NumCPU()),
		app:     app,
	}
}

// imageToBytes is a helper to convert image.Image to []byte for Fyne resources.
func imageToBytes(img image.Image) []byte {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// loadImage decodes a local image file.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open image '%s': %w", path, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode image '%s' (%s): %w", path, format, err)
	}
	return img, nil
}

// GetThumbnail returns the cached thumbnail of r, or a placeholder while
// onComplete waits for the generated one. Concurrent requests for the same
// record share one decode.
func (tm *ThumbnailManager) GetThumbnail(r *gallery.Record, onComplete func(fyne.Resource)) fyne.Resource {
	tm.cacheMutex.RLock()
	if res, ok := tm.cache[r.Path]; ok {
		tm.cacheMutex.RUnlock()
		return res
	}
	tm.cacheMutex.RUnlock()

	src := r.Thumb
	if src == "" {
		src = r.FullSrc
	}
	src = tm.app.page.Resolve(src)
	if strings.Contains(src, "://") {
		return theme.FileImageIcon()
	}

	tm.cacheMutex.Lock()
	waiters, busy := tm.waiting[r.Path]
	tm.waiting[r.Path] = append(waiters, onComplete)
	tm.cacheMutex.Unlock()
	if busy {
		return theme.FileImageIcon()
	}

	path := r.Path
	tm.app.async(func() {
		tm.sem <- struct{}{}
		res, err := tm.generate(path, src)
		<-tm.sem

		if err != nil {
			tm.app.logger.Warn().Err(err).Str("path", path).Msg("thumbnail failed")
			res = brokenThumbnail(path)
		}

		tm.cacheMutex.Lock()
		waiters := tm.waiting[path]
		delete(tm.waiting, path)
		tm.cache[path] = res
		tm.cacheMutex.Unlock()

		fyne.Do(func() {
			for _, fn := range waiters {
				fn(res)
			}
		})
	})

	tm.cacheMutex.RLock()
	defer tm.cacheMutex.RUnlock()
	if res, ok := tm.cache[path]; ok {
		return res
	}
	return theme.FileImageIcon()
}

func (tm *ThumbnailManager) generate(path, src string) (fyne.Resource, error) {
	img, err := loadImage(src)
	if err != nil {
		return nil, err
	}
	thumbImg := resize.Thumbnail(thumbnailSize, thumbnailSize, img, resize.Lanczos3)
	thumbBytes := imageToBytes(thumbImg)
	if thumbBytes == nil {
		return nil, fmt.Errorf("unable to encode thumbnail of '%s'", src)
	}
	return fyne.NewStaticResource(path, thumbBytes), nil
}

// brokenThumbnail draws a grey card with the file name for images that
// could not be decoded.
func brokenThumbnail(path string) fyne.Resource {
	const w, h = thumbnailSize, thumbnailSize * 2 / 3
	dc := gg.NewContext(w, h)
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.Clear()
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, w-2, h-2)
	dc.Stroke()
	dc.DrawLine(1, 1, w-1, h-1)
	dc.DrawLine(w-1, 1, 1, h-1)
	dc.Stroke()

	name := filepath.Base(path)
	tw, th := dc.MeasureString(name)
	dc.SetRGB(0.95, 0.95, 0.95)
	dc.DrawRectangle((w-tw)/2-6, (h-th)/2-6, tw+12, th+12)
	dc.Fill()
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawStringAnchored(name, w/2, h/2, 0.5, 0.5)
	return fyne.NewStaticResource("broken-"+name+".png", imageToBytes(dc.Image()))
}
