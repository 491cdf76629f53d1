package covers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestBlurhash(t *testing.T) {
	hash, err := Blurhash(pngBytes(t, 200, 300))
	if err != nil {
		t.Fatalf("blurhash: %v", err)
	}
	if len(hash) < 6 {
		t.Errorf("hash suspiciously short: %q", hash)
	}
}

func TestBlurhashSmallImage(t *testing.T) {
	if _, err := Blurhash(pngBytes(t, 10, 10)); err != nil {
		t.Errorf("small image: %v", err)
	}
}

func TestBlurhashRejectsGarbage(t *testing.T) {
	if _, err := Blurhash([]byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
}

func TestThumbnailAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	thumb := thumbnail(img)
	b := thumb.Bounds()
	if b.Dx() != 64 || b.Dy() != 16 {
		t.Errorf("thumb bounds = %dx%d, want 64x16", b.Dx(), b.Dy())
	}
}
