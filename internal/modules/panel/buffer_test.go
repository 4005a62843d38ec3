package panel

import (
	"image/color"
	"testing"

	"github.com/reusedev/koi/internal/modules/host"
	"github.com/reusedev/koi/tools"
	"github.com/stretchr/testify/require"
)

func TestRequestDim(t *testing.T) {
	for _, tc := range []struct {
		selection int
		rescaling int
		want      int
	}{
		{selection: 512, rescaling: 0, want: 512},
		{selection: 500, rescaling: 0, want: 448},
		{selection: 63, rescaling: 0, want: 0},
		{selection: 128, rescaling: 1, want: 256},
		{selection: 100, rescaling: 1, want: 192},
		{selection: 200, rescaling: -1, want: 64},
		{selection: 1000, rescaling: -2, want: 192},
		{selection: 40, rescaling: 2, want: 128},
	} {
		got := RequestDim(tc.selection, tc.rescaling)
		require.Equal(t, tc.want, got, "selection %d rescaling %d", tc.selection, tc.rescaling)
		require.Zero(t, got%64)
	}
}

func TestLayerToBuffer(t *testing.T) {
	doc := &mockDocument{
		selection: host.Rect{X: 5, Y: 6, Width: 200, Height: 130},
		fill:      color.NRGBA{R: 10, G: 20, B: 30, A: 255},
	}

	buffer, err := LayerToBuffer(doc, -1)
	require.NoError(t, err)
	require.Equal(t, 5, buffer.X)
	require.Equal(t, 6, buffer.Y)
	require.Equal(t, 64, buffer.Width)
	require.Equal(t, 64, buffer.Height)
	require.Equal(t, []host.Rect{{X: 5, Y: 6, Width: 128, Height: 128}}, doc.reads)

	require.Equal(t, tools.ImageTypePNG, tools.DetectImageType(buffer.Image))
	img, err := tools.DecodeImage(buffer.Image)
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 64, img.Bounds().Dy())
}

func TestSafeLayerName(t *testing.T) {
	for in, want := range map[string]string{
		"a koi pond":         "a_koi_pond",
		"oils, on canvas.":   "oils_on_canvas",
		"émigré-art_2":       "migr-art_2",
		"  ":                 "__",
		"<script>x</script>": "scriptxscript",
	} {
		require.Equal(t, want, SafeLayerName(in))
	}
}
