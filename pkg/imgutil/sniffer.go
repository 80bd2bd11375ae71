package imgutil

import (
	"errors"
	"io"
	"os"
)

// Kind identifies a supported image payload type detected from magic bytes.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindWebP
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindWebP:
		return "webp"
	default:
		return "unknown"
	}
}

var (
	pngSig  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig = []byte{0xff, 0xd8, 0xff}
	riffSig = []byte{0x52, 0x49, 0x46, 0x46} // "RIFF"
	webpSig = []byte{0x57, 0x45, 0x42, 0x50} // "WEBP" at offset 8
)

// DetectHeader inspects the first 12 bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 12 {
		return KindUnknown, errors.New("header too short")
	}

	if hasPrefix(header, jpegSig) {
		return KindJPEG, nil
	}
	if hasPrefix(header, pngSig) {
		return KindPNG, nil
	}
	if hasPrefix(header, riffSig) && hasPrefix(header[8:], webpSig) {
		return KindWebP, nil
	}

	return KindUnknown, nil
}

// SniffFile reads the first 12 bytes of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads the first 12 bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		return KindUnknown, err
	}

	return DetectHeader(header)
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
