package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"imgbake/pkg/imgutil"
)

// writeStubPNG writes a file of exactly size bytes that passes the magic-byte
// sniffer as a PNG. Only fake-codec tests use these; the bytes after the
// signature are filler.
func writeStubPNG(t *testing.T, path string, size int) {
	t.Helper()
	if size < 12 {
		t.Fatalf("stub size %d too small for the sniffer", size)
	}
	data := make([]byte, size)
	copy(data, []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// fakeCodec writes outputs of a fixed size per source base name, or fails.
type fakeCodec struct {
	outSizes map[string]int // src base name -> output size
	failWith error
	noOutput bool
}

func (c fakeCodec) Transcode(src, dst string, quality int) error {
	if c.failWith != nil {
		return c.failWith
	}
	if c.noOutput {
		return nil
	}
	size, ok := c.outSizes[filepath.Base(src)]
	if !ok {
		return fmt.Errorf("no planned size for %s", filepath.Base(src))
	}
	return os.WriteFile(dst, make([]byte, size), 0o644)
}

func bakeWith(t *testing.T, codec Codec, opts Options, src string) Outcome {
	t.Helper()
	return NewWithCodec(opts, codec).Bake(src)
}

func TestBakeWinKeepTie(t *testing.T) {
	dir := t.TempDir()
	codec := fakeCodec{outSizes: map[string]int{
		"a.png": 90,
		"b.png": 250,
		"c.png": 50,
	}}

	tests := []struct {
		name     string
		file     string
		srcSize  int
		wantKind OutcomeKind
		wantOut  int64
	}{
		{"strictly smaller wins", "a.png", 100, OutcomeWon, 90},
		{"larger keeps original", "b.png", 200, OutcomeKept, 200},
		{"tie keeps original", "c.png", 50, OutcomeKept, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filepath.Join(dir, tt.file)
			writeStubPNG(t, src, tt.srcSize)
			before, err := os.ReadFile(src)
			if err != nil {
				t.Fatalf("read src: %v", err)
			}

			outcome := bakeWith(t, codec, Options{Policy: PreserveFormat(), SkipMarked: true}, src)
			if outcome.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v (%s)", outcome.Kind, tt.wantKind, outcome.Message)
			}
			if outcome.SrcSize != int64(tt.srcSize) || outcome.OutSize != tt.wantOut {
				t.Errorf("sizes = %d->%d, want %d->%d", outcome.SrcSize, outcome.OutSize, tt.srcSize, tt.wantOut)
			}

			final := MarkedName(src, ".png")
			tmp := TempName(final)
			if _, err := os.Stat(tmp); !os.IsNotExist(err) {
				t.Errorf("temp file %s left behind", tmp)
			}

			if tt.wantKind == OutcomeWon {
				info, err := os.Stat(final)
				if err != nil {
					t.Fatalf("marked file missing: %v", err)
				}
				if info.Size() != tt.wantOut {
					t.Errorf("marked size = %d, want %d", info.Size(), tt.wantOut)
				}
				// DeleteOnWin not set: original stays.
				if _, err := os.Stat(src); err != nil {
					t.Errorf("original deleted without --delete-originals: %v", err)
				}
			} else {
				if _, err := os.Stat(final); !os.IsNotExist(err) {
					t.Errorf("marked file created on a no-win")
				}
				after, err := os.ReadFile(src)
				if err != nil || !bytes.Equal(before, after) {
					t.Errorf("original modified on a no-win")
				}
			}
		})
	}
}

func TestBakeDeleteOnWin(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writeStubPNG(t, src, 100)

	codec := fakeCodec{outSizes: map[string]int{"a.png": 40}}
	outcome := bakeWith(t, codec, Options{Policy: PreserveFormat(), DeleteOnWin: true}, src)
	if outcome.Kind != OutcomeWon {
		t.Fatalf("kind = %v, want won (%s)", outcome.Kind, outcome.Message)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("original not deleted on win with DeleteOnWin")
	}
	if _, err := os.Stat(MarkedName(src, ".png")); err != nil {
		t.Errorf("marked output missing: %v", err)
	}
}

func TestBakeSkipMarked(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a[D].png")
	writeStubPNG(t, src, 100)

	outcome := bakeWith(t, fakeCodec{failWith: errors.New("must not be called")},
		Options{Policy: PreserveFormat(), SkipMarked: true}, src)
	if outcome.Kind != OutcomeSkipped {
		t.Fatalf("kind = %v, want skipped", outcome.Kind)
	}
	if outcome.SrcSize != 0 || outcome.OutSize != 0 {
		t.Errorf("skip must report zero sizes, got %d->%d", outcome.SrcSize, outcome.OutSize)
	}
}

func TestBakeConvertAlwaysWins(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writeStubPNG(t, src, 100)

	codec := fakeCodec{outSizes: map[string]int{"a.png": 400}}
	outcome := bakeWith(t, codec, Options{Policy: ConvertTo(imgutil.FormatWebP)}, src)
	if outcome.Kind != OutcomeWon {
		t.Fatalf("kind = %v, want won (%s)", outcome.Kind, outcome.Message)
	}
	final := MarkedName(src, ".webp")
	if info, err := os.Stat(final); err != nil || info.Size() != 400 {
		t.Fatalf("converted output missing or wrong size: %v", err)
	}
}

func TestBakeCodecFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writeStubPNG(t, src, 100)

	outcome := bakeWith(t, fakeCodec{failWith: errors.New("decode exploded")},
		Options{Policy: PreserveFormat()}, src)
	if outcome.Kind != OutcomeFailed {
		t.Fatalf("kind = %v, want failed", outcome.Kind)
	}
	if !errors.Is(outcome.Err, ErrCodec) {
		t.Errorf("err = %v, want ErrCodec", outcome.Err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("original touched on codec failure: %v", err)
	}
	tmp := TempName(MarkedName(src, ".png"))
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Errorf("temp file left behind on failure")
	}
}

func TestBakeMissingOutputIsIntegrityFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writeStubPNG(t, src, 100)

	outcome := bakeWith(t, fakeCodec{noOutput: true}, Options{Policy: PreserveFormat()}, src)
	if outcome.Kind != OutcomeFailed || !errors.Is(outcome.Err, ErrIntegrity) {
		t.Fatalf("got kind=%v err=%v, want failed/ErrIntegrity", outcome.Kind, outcome.Err)
	}
}

func TestBakeRejectsLyingExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notimage.png")
	if err := os.WriteFile(src, []byte("this is not a png at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	outcome := bakeWith(t, fakeCodec{}, Options{Policy: PreserveFormat()}, src)
	if outcome.Kind != OutcomeFailed || !errors.Is(outcome.Err, ErrCodec) {
		t.Fatalf("got kind=%v err=%v, want failed/ErrCodec", outcome.Kind, outcome.Err)
	}
}

func TestBakeBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writeStubPNG(t, src, 100)
	original, _ := os.ReadFile(src)

	backup := filepath.Join(dir, "backup", "nested")
	codec := fakeCodec{outSizes: map[string]int{"a.png": 40}}
	outcome := bakeWith(t, codec, Options{Policy: PreserveFormat(), DeleteOnWin: true, BackupDir: backup}, src)
	if outcome.Kind != OutcomeWon {
		t.Fatalf("kind = %v, want won (%s)", outcome.Kind, outcome.Message)
	}

	copied, err := os.ReadFile(filepath.Join(backup, "a.png"))
	if err != nil {
		t.Fatalf("backup copy missing: %v", err)
	}
	if !bytes.Equal(copied, original) {
		t.Errorf("backup copy differs from original")
	}
}

func TestBakeBackupFailureAborts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writeStubPNG(t, src, 100)

	// A regular file where the backup dir should go forces MkdirAll to fail.
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	outcome := bakeWith(t, fakeCodec{outSizes: map[string]int{"a.png": 40}},
		Options{Policy: PreserveFormat(), BackupDir: blocker}, src)
	if outcome.Kind != OutcomeFailed || !errors.Is(outcome.Err, ErrIO) {
		t.Fatalf("got kind=%v err=%v, want failed/ErrIO", outcome.Kind, outcome.Err)
	}
	if _, err := os.Stat(MarkedName(src, ".png")); !os.IsNotExist(err) {
		t.Errorf("marked file created despite backup failure")
	}
}

// TestBakeRealPNG runs the real codec: a PNG stored without compression must
// shrink when re-encoded with best compression.
func TestBakeRealPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gradient.png")

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8(x ^ y), A: 0xff})
		}
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	outcome := New(Options{Policy: PreserveFormat(), SkipMarked: true}).Bake(src)
	if outcome.Kind != OutcomeWon {
		t.Fatalf("kind = %v, want won (%s)", outcome.Kind, outcome.Message)
	}
	if outcome.OutSize >= outcome.SrcSize {
		t.Errorf("expected shrink, got %d -> %d", outcome.SrcSize, outcome.OutSize)
	}
	if _, err := os.Stat(MarkedName(src, ".png")); err != nil {
		t.Errorf("marked output missing: %v", err)
	}
}
