package host

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	saved map[string][]byte
}

func (m *memStore) Save(name string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[name] = data
	return "mem/" + name, nil
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func TestNewDocumentSelection(t *testing.T) {
	canvas := solid(100, 80, color.NRGBA{R: 255, A: 255})

	doc, err := NewDocument(canvas, nil, nil, "")
	require.NoError(t, err)
	require.Equal(t, Rect{Width: 100, Height: 80}, doc.Selection())

	doc, err = NewDocument(canvas, &Rect{X: 90, Y: 70, Width: 50, Height: 50}, nil, "")
	require.NoError(t, err)
	require.Equal(t, Rect{X: 90, Y: 70, Width: 10, Height: 10}, doc.Selection())

	_, err = NewDocument(canvas, &Rect{X: 200, Y: 200, Width: 5, Height: 5}, nil, "")
	require.Error(t, err)
}

func TestPixelDataPadsOutsideCanvas(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	doc, err := NewDocument(solid(4, 4, red), nil, nil, "")
	require.NoError(t, err)

	pix, err := doc.PixelData(2, 2, 4, 4)
	require.NoError(t, err)
	require.Len(t, pix, 4*4*4)
	// (0,0) of the window is canvas (2,2)
	require.Equal(t, []byte{255, 0, 0, 255}, pix[0:4])
	// (3,3) of the window is canvas (5,5), outside
	last := (3*4 + 3) * 4
	require.Equal(t, []byte{0, 0, 0, 0}, pix[last:last+4])

	_, err = doc.PixelData(0, 0, 0, 4)
	require.Error(t, err)
}

func TestCreatePaintLayerAndProjection(t *testing.T) {
	store := &memStore{}
	out := filepath.Join(t.TempDir(), "projection.png")
	doc, err := NewDocument(solid(8, 8, color.NRGBA{A: 255}), nil, store, out)
	require.NoError(t, err)

	layer := solid(2, 2, color.NRGBA{G: 255, A: 255})
	require.NoError(t, doc.CreatePaintLayer("koi-1", layer.Pix, 3, 3, 2, 2))
	require.Error(t, doc.CreatePaintLayer("short", layer.Pix[:4], 0, 0, 2, 2))

	require.Len(t, doc.layers, 1)
	require.Equal(t, Layer{Name: "koi-1", X: 3, Y: 3, Width: 2, Height: 2}, doc.layers[0].Layer)
	require.Equal(t, "mem/koi-1.png", doc.layers[0].path)
	require.Contains(t, store.saved, "koi-1.png")
	require.NotContains(t, store.saved, "short.png")

	require.NoError(t, doc.RefreshProjection())
	saved, err := imaging.Open(out)
	require.NoError(t, err)
	require.Equal(t, 8, saved.Bounds().Dx())
	require.Equal(t, color.NRGBA{G: 255, A: 255}, color.NRGBAModel.Convert(saved.At(3, 3)))
	require.Equal(t, color.NRGBA{A: 255}, color.NRGBAModel.Convert(saved.At(0, 0)))
}

func TestRefreshProjectionWithoutPath(t *testing.T) {
	doc, err := NewDocument(solid(4, 4, color.NRGBA{A: 255}), nil, nil, "")
	require.NoError(t, err)
	require.NoError(t, doc.CreatePaintLayer("koi-1", solid(1, 1, color.NRGBA{B: 255, A: 255}).Pix, 0, 0, 1, 1))
	require.NoError(t, doc.RefreshProjection())
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.png"), nil, nil, "")
	require.Error(t, err)
}
