package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepareCoverArt(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	tests := []struct {
		name     string
		w, h     int
		maxSize  int
		toJPEG   bool
		wantW    int
		wantH    int
		wantJPEG bool
	}{
		{"shrinks wide image", 200, 100, 50, false, 50, 25, true},
		{"keeps small image", 40, 40, 50, false, 40, 40, false},
		{"converts small image", 40, 40, 50, true, 40, 40, true},
		{"no limit", 80, 60, 0, false, 80, 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.PrepareCoverArt(ctx, pngFixture(t, tt.w, tt.h), tt.maxSize, tt.toJPEG)
			if err != nil {
				t.Fatalf("PrepareCoverArt() error = %v", err)
			}

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
			if (format == "jpeg") != tt.wantJPEG {
				t.Errorf("format = %s, want jpeg=%v", format, tt.wantJPEG)
			}
		})
	}
}

func TestConvertToJPEG_InvalidData(t *testing.T) {
	if _, err := NewImageService().ConvertToJPEG(context.Background(), []byte("not an image")); err == nil {
		t.Error("expected an error for invalid image data")
	}
}
