package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	minZoom        float32 = 0.05
	maxZoom        float32 = 10.0
	zoomScrollStep float32 = 0.1
)

// zoomArea shows one image fitted to its size, with wheel zoom and drag
// panning.
type zoomArea struct {
	widget.BaseWidget

	img    image.Image
	raster *canvas.Raster

	zoom      float32
	panOffset fyne.Position

	isPanning    bool
	lastMousePos fyne.Position

	// OnResized is called when the widget is laid out at a new size.
	OnResized func()
}

var (
	_ fyne.Widget       = (*zoomArea)(nil)
	_ fyne.Scrollable   = (*zoomArea)(nil)
	_ fyne.Draggable    = (*zoomArea)(nil)
	_ desktop.Mouseable = (*zoomArea)(nil)
)

func newZoomArea() *zoomArea {
	z := &zoomArea{zoom: 1}
	z.raster = canvas.NewRaster(z.draw)
	z.ExtendBaseWidget(z)
	return z
}

// SetImage replaces the image and fits it.
func (z *zoomArea) SetImage(img image.Image) {
	z.img = img
	z.Fit()
}

// Fit scales the image to fit the widget and centers it.
func (z *zoomArea) Fit() {
	z.panOffset = fyne.Position{}
	z.zoom = 1
	size := z.Size()
	if z.img != nil && size.Width > 0 && size.Height > 0 {
		b := z.img.Bounds()
		imgW, imgH := float32(b.Dx()), float32(b.Dy())
		z.zoom = min(size.Width/imgW, size.Height/imgH)
		z.panOffset.X = (size.Width - imgW*z.zoom) / 2
		z.panOffset.Y = (size.Height - imgH*z.zoom) / 2
	}
	z.Refresh()
}

// draw renders the image through the zoom and pan transform. w and h are
// pixels; zoom and pan are in canvas units.
func (z *zoomArea) draw(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if z.img == nil || w <= 0 || h <= 0 || z.Size().Width <= 0 {
		return dst
	}
	px := float64(w) / float64(z.Size().Width)
	scale := float64(z.zoom) * px
	b := z.img.Bounds()
	s2d := f64.Aff3{
		scale, 0, float64(z.panOffset.X)*px - float64(b.Min.X)*scale,
		0, scale, float64(z.panOffset.Y)*px - float64(b.Min.Y)*scale,
	}
	draw.ApproxBiLinear.Transform(dst, s2d, z.img, b, draw.Src, nil)
	return dst
}

func (z *zoomArea) CreateRenderer() fyne.WidgetRenderer {
	return &zoomAreaRenderer{z: z}
}

// Scrolled zooms around the center of the view.
func (z *zoomArea) Scrolled(ev *fyne.ScrollEvent) {
	if z.img == nil {
		return
	}
	size := z.Size()
	cx, cy := size.Width/2, size.Height/2
	imgX := (cx - z.panOffset.X) / z.zoom
	imgY := (cy - z.panOffset.Y) / z.zoom

	switch {
	case ev.Scrolled.DY < 0:
		z.zoom /= 1 + zoomScrollStep
	case ev.Scrolled.DY > 0:
		z.zoom *= 1 + zoomScrollStep
	}
	z.zoom = max(minZoom, min(maxZoom, z.zoom))

	z.panOffset.X = cx - imgX*z.zoom
	z.panOffset.Y = cy - imgY*z.zoom
	z.Refresh()
}

func (z *zoomArea) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		z.isPanning = true
		z.lastMousePos = ev.Position
	}
}

func (z *zoomArea) MouseUp(_ *desktop.MouseEvent) {
	z.isPanning = false
}

func (z *zoomArea) Dragged(ev *fyne.DragEvent) {
	if !z.isPanning {
		return
	}
	z.panOffset = z.panOffset.Add(ev.Position.Subtract(z.lastMousePos))
	z.lastMousePos = ev.Position
	z.Refresh()
}

func (z *zoomArea) DragEnd() {
	z.isPanning = false
}

type zoomAreaRenderer struct {
	z    *zoomArea
	last fyne.Size
}

func (r *zoomAreaRenderer) Layout(size fyne.Size) {
	r.z.raster.Resize(size)
	if size == r.last {
		return
	}
	r.last = size
	if r.z.OnResized != nil {
		r.z.OnResized()
	}
}

func (r *zoomAreaRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 200) }
func (r *zoomAreaRenderer) Refresh()                     { canvas.Refresh(r.z.raster) }
func (r *zoomAreaRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.z.raster} }
func (r *zoomAreaRenderer) Destroy()                     {}
