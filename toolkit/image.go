package toolkit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
)

const (
	TestImageWidth    = 800
	TestImageHeight   = 600
	TestImageFilename = "test_product.jpg"
	TestImageType     = "image/jpeg"
)

var TestImageColor = color.RGBA{R: 255, A: 255}

// SyntheticJPEG renders a solid w×h image and encodes it as JPEG.
func SyntheticJPEG(w, h int, c color.Color) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
