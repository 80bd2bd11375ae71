// Package engine implements the per-file bake decision and atomic replace
// protocol: read, transcode to a temp file beside the final path, compare
// sizes, and commit or discard. It also carries the batch driver that folds
// per-file outcomes into an aggregate summary.
package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"imgbake/pkg/imgutil"
)

// Engine performs the per-candidate bake: read, transcode to a temp file,
// compare sizes, and commit or discard. The original is never mutated until
// a winning temp file has been fully written and verified.
type Engine struct {
	opts  Options
	codec Codec
}

// New returns an engine using the default imaging/go-webp codec.
func New(opts Options) *Engine {
	return &Engine{opts: opts, codec: DefaultCodec()}
}

// NewWithCodec returns an engine using a caller-supplied codec.
func NewWithCodec(opts Options, codec Codec) *Engine {
	return &Engine{opts: opts, codec: codec}
}

// Bake processes one candidate and reports what happened. It never returns
// an error directly: failures are folded into the Outcome so batch callers
// can count them and continue.
func (e *Engine) Bake(src string) Outcome {
	name := filepath.Base(src)

	if e.opts.SkipMarked && IsMarked(src) {
		return Outcome{
			Kind:    OutcomeSkipped,
			Path:    src,
			Message: fmt.Sprintf("skip already marked %s", name),
		}
	}

	targetExt := e.opts.Policy.TargetExt(src)
	final := MarkedName(src, targetExt)
	tmp := TempName(final)

	if e.opts.BackupDir != "" {
		if err := backupOriginal(src, e.opts.BackupDir); err != nil {
			return e.failed(src, fmt.Errorf("backup %s: %w: %v", name, ErrIO, err))
		}
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return e.failed(src, fmt.Errorf("stat %s: %w: %v", name, ErrNotFound, err))
	}
	srcSize := srcInfo.Size()

	kind, err := imgutil.SniffFile(src)
	if err != nil || kind == imgutil.KindUnknown {
		if err == nil {
			err = fmt.Errorf("unrecognized image signature")
		}
		return e.failed(src, fmt.Errorf("sniff %s: %w: %v", name, ErrCodec, err))
	}

	// Drop any stale temp from an interrupted earlier run.
	_ = os.Remove(tmp)

	if err := e.codec.Transcode(src, tmp, e.opts.Quality); err != nil {
		_ = os.Remove(tmp)
		return e.failed(src, fmt.Errorf("transcode %s: %w: %v", name, ErrCodec, err))
	}

	tmpInfo, err := os.Stat(tmp)
	if err != nil {
		return e.failed(src, fmt.Errorf("%s: %w: save did not produce output", name, ErrIntegrity))
	}
	tmpSize := tmpInfo.Size()

	if !e.opts.Policy.Wins(srcSize, tmpSize) {
		_ = os.Remove(tmp)
		return Outcome{
			Kind:    OutcomeKept,
			Path:    src,
			Message: fmt.Sprintf("kept original %s (no win)", name),
			SrcSize: srcSize,
			OutSize: srcSize,
		}
	}

	// Idempotent re-runs: a previous winner at the final path is replaced.
	if err := os.Remove(final); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(tmp)
		return e.failed(src, fmt.Errorf("clear %s: %w: %v", filepath.Base(final), ErrIO, err))
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return e.failed(src, fmt.Errorf("commit %s: %w: %v", name, ErrIO, err))
	}

	if e.opts.DeleteOnWin {
		if err := os.Remove(src); err != nil && !os.IsNotExist(err) {
			return Outcome{
				Kind:    OutcomeFailed,
				Path:    src,
				Message: fmt.Sprintf("baked %s but could not delete original: %v", name, err),
				SrcSize: srcSize,
				OutSize: tmpSize,
				Err:     fmt.Errorf("delete %s: %w: %v", name, ErrIO, err),
			}
		}
	}

	msg := fmt.Sprintf("%s -> %s | %s -> %s",
		name, filepath.Base(final), FormatBytes(srcSize), FormatBytes(tmpSize))
	if e.opts.Policy.Converts() && tmpSize > srcSize {
		msg += " (conversion grew the file)"
	}

	return Outcome{
		Kind:    OutcomeWon,
		Path:    src,
		Message: msg,
		SrcSize: srcSize,
		OutSize: tmpSize,
	}
}

func (e *Engine) failed(src string, err error) Outcome {
	return Outcome{
		Kind:    OutcomeFailed,
		Path:    src,
		Message: err.Error(),
		Err:     err,
	}
}

// backupOriginal copies src into backupDir under its original base name,
// preserving the file mode. The directory is created if absent.
func backupOriginal(src, backupDir string) error {
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	dst := filepath.Join(backupDir, filepath.Base(src))
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
