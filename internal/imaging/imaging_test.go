package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestProcessSmallImageKeepsSize(t *testing.T) {
	result, err := Process(bytes.NewReader(encodeJPEG(t, 100, 80)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", result.MIME)
	}
	w, h := decodeSize(t, result.Data)
	if w != 100 || h != 80 {
		t.Errorf("expected 100x80, got %dx%d", w, h)
	}
}

func TestProcessDownscalesWide(t *testing.T) {
	result, err := Process(bytes.NewReader(encodeJPEG(t, MaxDimension*2, MaxDimension)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	w, h := decodeSize(t, result.Data)
	if w != MaxDimension {
		t.Errorf("expected width %d, got %d", MaxDimension, w)
	}
	if h != MaxDimension/2 {
		t.Errorf("expected height %d, got %d", MaxDimension/2, h)
	}
}

func TestProcessPNGStaysPNG(t *testing.T) {
	result, err := Process(bytes.NewReader(encodePNG(t, 50, 50)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/png" {
		t.Errorf("expected image/png, got %q", result.MIME)
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("plain text, not an image"))); err == nil {
		t.Error("expected error for non-image data")
	}
}
