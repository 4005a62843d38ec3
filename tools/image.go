package tools

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

type ImageType string

const (
	ImageTypePNG     ImageType = "png"
	ImageTypeJPEG    ImageType = "jpeg"
	ImageTypeWEBP    ImageType = "webp"
	ImageTypeUnknown ImageType = "unknown"
)

func (t ImageType) String() string {
	return string(t)
}

func DetectImageType(data []byte) ImageType {
	switch http.DetectContentType(data) {
	case "image/png":
		return ImageTypePNG
	case "image/jpeg":
		return ImageTypeJPEG
	case "image/webp":
		return ImageTypeWEBP
	default:
		return ImageTypeUnknown
	}
}

// DecodeImage decodes the formats the generation backend is known to return.
func DecodeImage(data []byte) (image.Image, error) {
	var img image.Image
	var err error
	switch imageType := DetectImageType(data); imageType {
	case ImageTypePNG:
		img, err = png.Decode(bytes.NewReader(data))
	case ImageTypeJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case ImageTypeWEBP:
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image type: %s", imageType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ScaleExact resizes img to w x h ignoring the aspect ratio, with a smooth filter.
func ScaleExact(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.PNG)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NRGBAFromPix wraps a tightly packed RGBA8888 buffer without copying it.
func NRGBAFromPix(pix []byte, w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	if len(pix) != 4*w*h {
		return nil, fmt.Errorf("pixel buffer holds %d bytes, want %d for %dx%d", len(pix), 4*w*h, w, h)
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}
