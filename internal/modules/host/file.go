package host

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/reusedev/koi/internal/modules/logs"
	"github.com/reusedev/koi/internal/modules/storage"
	"github.com/reusedev/koi/tools"
)

type paintLayer struct {
	Layer
	img  *image.NRGBA
	path string
}

// FileDocument is a single-canvas document loaded from an image file. New
// layers are kept in memory, persisted through a storage.Store, and composited
// into the projection file on refresh.
type FileDocument struct {
	canvas         *image.NRGBA
	selection      Rect
	layers         []paintLayer
	store          storage.Store
	projectionPath string
}

func OpenFile(path string, selection *Rect, store storage.Store, projectionPath string) (*FileDocument, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open canvas %s: %w", path, err)
	}
	return NewDocument(img, selection, store, projectionPath)
}

func NewDocument(canvas image.Image, selection *Rect, store storage.Store, projectionPath string) (*FileDocument, error) {
	c := imaging.Clone(canvas)
	bounds := c.Bounds()
	sel := Rect{X: 0, Y: 0, Width: bounds.Dx(), Height: bounds.Dy()}
	if selection != nil {
		clipped := selection.Image().Intersect(bounds)
		if clipped.Empty() {
			return nil, fmt.Errorf("selection %+v is outside the %dx%d canvas", *selection, bounds.Dx(), bounds.Dy())
		}
		sel = Rect{X: clipped.Min.X, Y: clipped.Min.Y, Width: clipped.Dx(), Height: clipped.Dy()}
	}
	return &FileDocument{
		canvas:         c,
		selection:      sel,
		store:          store,
		projectionPath: projectionPath,
	}, nil
}

func (d *FileDocument) Selection() Rect {
	return d.selection
}

// PixelData reads a w x h window at (x, y). Pixels outside the canvas are transparent.
func (d *FileDocument) PixelData(x, y, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid pixel window %dx%d", w, h)
	}
	window := imaging.Paste(imaging.New(w, h, color.Transparent), d.canvas, image.Pt(-x, -y))
	return window.Pix, nil
}

func (d *FileDocument) CreatePaintLayer(name string, pixels []byte, x, y, w, h int) error {
	src, err := tools.NRGBAFromPix(pixels, w, h)
	if err != nil {
		return err
	}
	layer := paintLayer{
		Layer: Layer{Name: name, X: x, Y: y, Width: w, Height: h},
		img:   imaging.Clone(src),
	}
	if d.store != nil {
		data, err := tools.EncodePNG(layer.img)
		if err != nil {
			return err
		}
		layer.path, err = d.store.Save(name+".png", data)
		if err != nil {
			return fmt.Errorf("save layer %s: %w", name, err)
		}
		logs.Logger.Debug().Str("layer", name).Str("path", layer.path).Msg("layer saved")
	}
	d.layers = append(d.layers, layer)
	return nil
}

// RefreshProjection composites every layer, oldest first, over the canvas and
// writes the result to the projection path. Without a path it does nothing.
func (d *FileDocument) RefreshProjection() error {
	if d.projectionPath == "" {
		return nil
	}
	projection := imaging.Clone(d.canvas)
	for _, l := range d.layers {
		projection = imaging.Overlay(projection, l.img, image.Pt(l.X, l.Y), 1.0)
	}
	err := imaging.Save(projection, d.projectionPath)
	if err != nil {
		return err
	}
	logs.Logger.Debug().Str("path", d.projectionPath).Int("layers", len(d.layers)).Msg("projection refreshed")
	return nil
}
