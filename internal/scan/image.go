package scan

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"slategallery/internal/gallery"
)

// exifDateLayout is the EXIF timestamp layout.
const exifDateLayout = "2006:01:02 15:04:05"

// isoLayout is the capture date layout the gallery markup uses.
const isoLayout = "2006-01-02T15:04:05"

// dateFields are tried in order for the capture date.
var dateFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime}

// Inspect reads one image's dimensions and EXIF data into a record.
// Missing EXIF data is not an error; the fields stay unknown.
func Inspect(path string) (*gallery.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	x, _ := exif.Decode(f) // Not all images have EXIF.

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek in image file: %w", err)
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config: %w", err)
	}

	slash := filepath.ToSlash(path)
	r := &gallery.Record{
		Path:     slash,
		Filename: filepath.Base(path),
		FullSrc:  slash,
	}
	rotation := 0
	if x != nil {
		r.Focal = focalLength(x)
		r.Date = captureDate(x)
		rotation = exifOrientation(x)
	}
	r.Orientation = orientation(cfg.Width, cfg.Height, rotation)
	return r, nil
}

func focalLength(x *exif.Exif) gallery.FocalLength {
	tag, err := x.Get(exif.FocalLength)
	if err != nil {
		return gallery.FocalLength{}
	}
	rat, err := tag.Rat(0)
	if err != nil || rat.Sign() <= 0 {
		return gallery.FocalLength{}
	}
	mm, _ := rat.Float64()
	return gallery.KnownFocal(mm)
}

func captureDate(x *exif.Exif) gallery.CaptureDate {
	for _, field := range dateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.Parse(exifDateLayout, s)
		if err != nil {
			continue
		}
		return gallery.CaptureDate{Known: true, Value: t.Format(isoLayout)}
	}
	return gallery.CaptureDate{}
}

func exifOrientation(x *exif.Exif) int {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}

// orientation classifies the displayed shape. EXIF orientations 5 to 8
// rotate the image by 90 degrees.
func orientation(w, h, rotation int) gallery.Orientation {
	if rotation >= 5 && rotation <= 8 {
		w, h = h, w
	}
	switch {
	case w <= 0 || h <= 0:
		return gallery.OrientationUnknown
	case h > w:
		return gallery.Portrait
	case w > h:
		return gallery.Landscape
	default:
		return gallery.Square
	}
}
