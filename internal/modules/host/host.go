// Package host describes what the panel needs from the image editor it is
// embedded in, and provides a PNG-file backed document for running headless.
package host

import "image"

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Document is the active document of the host application. Pixel buffers are
// tightly packed RGBA8888, non-premultiplied, row-major.
//
// Implementations are only called from the panel's event loop.
type Document interface {
	Selection() Rect
	PixelData(x, y, w, h int) ([]byte, error)
	CreatePaintLayer(name string, pixels []byte, x, y, w, h int) error
	RefreshProjection() error
}

type Layer struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
