package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	// Registers the WebP decoder with image.Decode so imaging.Open can read
	// .webp sources.
	_ "golang.org/x/image/webp"

	"imgbake/pkg/imgutil"
)

// Codec re-encodes a source image into dst. The output format is inferred
// from dst's extension, which is why temp paths keep a real image extension.
type Codec interface {
	Transcode(src, dst string, quality int) error
}

// defaultCodec decodes via disintegration/imaging (with EXIF auto-orientation)
// and encodes per-format:
//
//	JPEG: alpha flattened onto opaque black, requested quality
//	PNG:  best structural compression, quality ignored
//	WebP: requested quality, maximum compression effort (method 6)
type defaultCodec struct{}

// DefaultCodec returns the imaging/go-webp backed codec.
func DefaultCodec() Codec { return defaultCodec{} }

func (defaultCodec) Transcode(src, dst string, quality int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(src), err)
	}

	switch imgutil.FormatForExt(filepath.Ext(dst)) {
	case imgutil.FormatJPEG:
		return imaging.Save(flattenOnBlack(img), dst, imaging.JPEGQuality(quality))
	case imgutil.FormatPNG:
		return imaging.Save(img, dst, imaging.PNGCompressionLevel(png.BestCompression))
	case imgutil.FormatWebP:
		return encodeWebP(img, dst, quality)
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(dst))
	}
}

// flattenOnBlack composites the image over an opaque black background.
// Semi-transparent pixels are irrecoverably merged against black; JPEG has
// no alpha channel so this is the documented conversion.
func flattenOnBlack(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}

func encodeWebP(img image.Image, dst string, quality int) error {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return err
	}
	opts.Method = 6

	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	if err := webp.Encode(f, img, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
