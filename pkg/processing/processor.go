package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/instaframe/instaframe/pkg/types"
)

// Processor handles byte-level image operations: MIME sniffing, decoding
// and encoding at the pipeline's input and output boundaries.
type Processor struct{}

// NewProcessor creates a new image processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// SniffMIME checks that data looks like an image before any decode is
// attempted. Non-image content fails with types.ErrUnsupportedType.
func (p *Processor) SniffMIME(data []byte) error {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%s: %w", contentType, types.ErrUnsupportedType)
	}
	return nil
}

// DecodeBytes decodes an image from raw bytes with WebP support.
func (p *Processor) DecodeBytes(data []byte) (image.Image, error) {
	// Try standard image.Decode first
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	// Try WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}

	return nil, fmt.Errorf("unknown or corrupt image data: %w", types.ErrDecode)
}

// EncodePNG encodes an image to PNG bytes, the pipeline's output format.
func (p *Processor) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes in a data URI suitable for direct embedding.
func (p *Processor) DataURI(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// EncodeForModel downscales an image so its long side is at most maxDim and
// encodes it as JPEG for sending to a vision model. maxDim 0 keeps the
// original size.
func (p *Processor) EncodeForModel(img image.Image, maxDim, quality int) ([]byte, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
