package imgutil

import (
	"path/filepath"
	"strings"
)

// Format identifies an output image format the baker can produce.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatWebP
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// Ext returns the canonical file extension with a leading dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	default:
		return ""
	}
}

// ParseFormat maps a user-facing format name ("jpg", "jpeg", "png", "webp")
// to a Format. Unrecognized names return FormatUnknown.
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jpg", "jpeg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "webp":
		return FormatWebP
	default:
		return FormatUnknown
	}
}

// imageExtensions lists the candidate extensions the scanner recognizes
// (lowercase, with leading dot).
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImagePath reports whether path carries a recognized image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// FormatForExt maps a file extension (with or without leading dot) to a
// Format, or FormatUnknown.
func FormatForExt(ext string) Format {
	e := strings.ToLower(ext)
	if !strings.HasPrefix(e, ".") {
		e = "." + e
	}
	switch e {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	case ".webp":
		return FormatWebP
	default:
		return FormatUnknown
	}
}
