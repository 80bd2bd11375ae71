package engine

import (
	"path/filepath"
	"strings"
)

// markTag is appended to the stem of every winning output. Its presence in a
// stem marks the file as already baked.
const markTag = "[D]"

// tmpInfix sits between the marked stem and the real extension of in-flight
// temp files. The temp file keeps a genuine image extension so format can
// still be inferred from the name during the write.
const tmpInfix = ".tmp"

// IsMarked reports whether the file's stem already carries the completion
// tag. The test is a substring match, anywhere in the stem.
func IsMarked(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Contains(stem, markTag)
}

// MarkedName returns the final output path for src: same directory and stem
// with the completion tag appended, using targetExt (with leading dot).
//
//	photo.jpg -> photo[D].jpg
func MarkedName(src, targetExt string) string {
	dir := filepath.Dir(src)
	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+markTag+targetExt)
}

// TempName returns the temp path for a final output path, inserting the tmp
// infix before the extension.
//
//	photo[D].jpg -> photo[D].tmp.jpg
func TempName(finalPath string) string {
	dir := filepath.Dir(finalPath)
	base := filepath.Base(finalPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+tmpInfix+ext)
}
