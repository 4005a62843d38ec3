package panel

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/reusedev/koi/internal/modules/host"
	"github.com/reusedev/koi/tools"
)

const dimensionStep = 64

var ErrSelectionTooSmall = errors.New("selection too small for the rescaling")

// Buffer is the encoded init image of a job and where it was taken from.
type Buffer struct {
	Image  []byte
	X      int
	Y      int
	Width  int
	Height int
}

func Multiplier(rescaling int) float64 {
	return math.Pow(2, float64(rescaling))
}

// RequestDim scales a selection side by 2^rescaling and rounds it down to a multiple of 64.
func RequestDim(selection, rescaling int) int {
	return int(float64(selection)*Multiplier(rescaling)) / dimensionStep * dimensionStep
}

// LayerToBuffer reads the selected region of doc and encodes it at request resolution.
func LayerToBuffer(doc host.Document, rescaling int) (*Buffer, error) {
	sel := doc.Selection()
	multiplier := Multiplier(rescaling)
	width := RequestDim(sel.Width, rescaling)
	height := RequestDim(sel.Height, rescaling)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d at rescaling %d", ErrSelectionTooSmall, sel.Width, sel.Height, rescaling)
	}
	readWidth := int(float64(width) / multiplier)
	readHeight := int(float64(height) / multiplier)

	pix, err := doc.PixelData(sel.X, sel.Y, readWidth, readHeight)
	if err != nil {
		return nil, fmt.Errorf("read pixel data: %w", err)
	}
	img, err := tools.NRGBAFromPix(pix, readWidth, readHeight)
	if err != nil {
		return nil, err
	}
	data, err := tools.EncodePNG(tools.ScaleExact(img, width, height))
	if err != nil {
		return nil, fmt.Errorf("encode init image: %w", err)
	}
	return &Buffer{
		Image:  data,
		X:      sel.X,
		Y:      sel.Y,
		Width:  width,
		Height: height,
	}, nil
}

var unsafeLayerChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func SafeLayerName(name string) string {
	return unsafeLayerChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
}
