package imgutil

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	webpHeader := append([]byte("RIFF"), 0x10, 0x00, 0x00, 0x00)
	webpHeader = append(webpHeader, []byte("WEBP")...)

	tests := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0, 0, 0, 0, 0}, KindJPEG},
		{"png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}, KindPNG},
		{"webp", webpHeader, KindWebP},
		{"riff but not webp", []byte("RIFF\x10\x00\x00\x00WAVE"), KindUnknown},
		{"garbage", []byte("not an image"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHeader(tt.header)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectHeader = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectHeaderTooShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0xff, 0xd8}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestSniffReaderRealEncodes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	if kind, err := SniffReader(&jpegBuf); err != nil || kind != KindJPEG {
		t.Errorf("jpeg sniff = %v, %v", kind, err)
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if kind, err := SniffReader(&pngBuf); err != nil || kind != KindPNG {
		t.Errorf("png sniff = %v, %v", kind, err)
	}
}
