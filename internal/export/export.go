// Package export builds the text block of selected images and copies it
// to the clipboard.
package export

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"slategallery/internal/gallery"
	"slategallery/internal/notify"
)

// ErrNothingSelected is returned when no visible image is selected.
var ErrNothingSelected = errors.New("no images selected")

// slatesSegment is the folder name that roots slate paths.
const slatesSegment = "slates"

// FormatFocal renders a focal length as "50mm", "4.5mm" or "unknown".
func FormatFocal(f gallery.FocalLength) string {
	if !f.Known {
		return gallery.UnknownKey
	}
	return f.Key() + "mm"
}

// Lines returns one "<path> | <focal>" line per selected record of
// visible, in order. Paths are shortened against the previous line when
// both live under the same slates root.
func Lines(visible []*gallery.Record) []string {
	var lines []string
	prev := ""
	for _, r := range visible {
		if !r.Selected || r.Hidden {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s | %s", Abbreviate(prev, r.Path), FormatFocal(r.Focal)))
		prev = r.Path
	}
	return lines
}

// Build joins Lines with newlines.
func Build(visible []*gallery.Record) (string, int, error) {
	lines := Lines(visible)
	if len(lines) == 0 {
		return "", 0, ErrNothingSelected
	}
	return strings.Join(lines, "\n"), len(lines), nil
}

// Abbreviate shortens cur relative to prev. Inside the same folder only
// the file name is kept; under the same slates root the path relative to
// that root is kept. Anything else keeps the full path.
func Abbreviate(prev, cur string) string {
	if prev == "" {
		return cur
	}
	root, ok := slatesRoot(cur)
	if !ok {
		return cur
	}
	prevRoot, ok := slatesRoot(prev)
	if !ok || prevRoot != root {
		return cur
	}
	curSlash := toSlash(cur)
	if path.Dir(toSlash(prev)) == path.Dir(curSlash) {
		return path.Base(curSlash)
	}
	return strings.TrimPrefix(curSlash, root+"/")
}

// slatesRoot returns p up to and including its last "slates" folder.
func slatesRoot(p string) (string, bool) {
	segs := strings.Split(toSlash(p), "/")
	for i := len(segs) - 2; i >= 0; i-- {
		if segs[i] == slatesSegment {
			return strings.Join(segs[:i+1], "/"), true
		}
	}
	return "", false
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Exporter copies the selection to a clipboard and reports the outcome
// through the notifier.
type Exporter struct {
	clip     Clipboard
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewExporter(clip Clipboard, n notify.Notifier, logger zerolog.Logger) *Exporter {
	return &Exporter{clip: clip, notifier: n, logger: logger}
}

// Copy builds the export block from visible and writes it to the
// clipboard. Failures are notified and returned; they never panic.
func (e *Exporter) Copy(visible []*gallery.Record) (string, error) {
	text, n, err := Build(visible)
	if err != nil {
		e.notifier.Notify(notify.Error, "Select at least one image to export")
		return "", err
	}
	if err := e.clip.WriteAll(text); err != nil {
		e.logger.Error().Err(err).Msg("clipboard write failed")
		e.notifier.Notify(notify.Error, "Could not copy to the clipboard")
		return text, fmt.Errorf("copy export: %w", err)
	}
	msg := fmt.Sprintf("Copied %d %s to the clipboard", n, plural(n))
	e.notifier.Notify(notify.Success, msg)
	e.notifier.Announce(msg)
	return text, nil
}

func plural(n int) string {
	if n == 1 {
		return "image"
	}
	return "images"
}
