// Package covers processes book cover images.
package covers

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// thumbSize bounds the image fed to the blurhash encoder. The hash is a
// low-resolution placeholder, so a small thumbnail gives the same result
// in a fraction of the time.
const thumbSize = 64

// Blurhash computes a compact placeholder hash for a cover image, letting
// the client paint a blurred stand-in before the real cover loads. Uses
// 4x3 components, keeping the hash short enough to inline in listings.
func Blurhash(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode cover: %w", err)
	}

	hash, err := blurhash.Encode(4, 3, thumbnail(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// thumbnail downscales with nearest-neighbor sampling, which is plenty for
// a blurhash input.
func thumbnail(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= thumbSize && h <= thumbSize {
		return img
	}

	dw, dh := thumbSize, thumbSize
	if w > h {
		dh = max(1, h*thumbSize/w)
	} else {
		dw = max(1, w*thumbSize/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			dst.Set(x, y, img.At(bounds.Min.X+x*w/dw, bounds.Min.Y+y*h/dh))
		}
	}
	return dst
}
