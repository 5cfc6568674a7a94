package raster

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding

	_ "golang.org/x/image/tiff" // register TIFF decoding
)

// Dimensions returns the pixel size of an encoded page image.
// PNG, JPEG, and TIFF are supported.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Decode decodes an encoded page image into an image.Image.
// PNG, JPEG, and TIFF are supported.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
