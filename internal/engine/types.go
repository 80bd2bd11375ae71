package engine

import (
	"path/filepath"
	"strings"

	"imgbake/pkg/imgutil"
)

// OutcomeKind classifies the result of one bake attempt.
type OutcomeKind int

const (
	OutcomeWon OutcomeKind = iota
	OutcomeKept
	OutcomeSkipped
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeWon:
		return "won"
	case OutcomeKept:
		return "kept"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome is the result of baking one candidate. SrcSize and OutSize are the
// true filesystem sizes observed around the operation; both are zero for
// skipped candidates, and OutSize equals SrcSize when the original is kept.
type Outcome struct {
	Kind    OutcomeKind
	Path    string
	Message string
	SrcSize int64
	OutSize int64
	Err     error
}

// WinPolicy decides whether a finished temp encode replaces the original.
// The two variants have genuinely different win semantics: preserving the
// source format wins only on strict size improvement, while an explicit
// conversion always wins because the caller asked for the format change.
type WinPolicy struct {
	convert bool
	format  imgutil.Format
}

// PreserveFormat keeps the candidate's own format; the bake wins only when
// the re-encode is strictly smaller.
func PreserveFormat() WinPolicy {
	return WinPolicy{}
}

// ConvertTo re-encodes into format; the bake always wins, even when the
// result is larger.
func ConvertTo(format imgutil.Format) WinPolicy {
	return WinPolicy{convert: true, format: format}
}

// Converts reports whether the policy requests a format change.
func (p WinPolicy) Converts() bool { return p.convert }

// TargetExt returns the output extension for a candidate path.
func (p WinPolicy) TargetExt(src string) string {
	if p.convert {
		return p.format.Ext()
	}
	return strings.ToLower(filepath.Ext(src))
}

// Wins applies the variant's decision rule to the observed sizes.
func (p WinPolicy) Wins(srcSize, tmpSize int64) bool {
	if p.convert {
		return true
	}
	return tmpSize < srcSize
}

// Options configures a bake engine.
type Options struct {
	Policy      WinPolicy
	Quality     int    // JPEG/WebP quality; ignored for PNG.
	DeleteOnWin bool   // Delete the original after a winning replace.
	BackupDir   string // Copy originals here before any mutation ("" = off).
	SkipMarked  bool   // Skip candidates already carrying the mark tag.
}

// Summary aggregates outcomes across one batch run.
type Summary struct {
	Total       int
	Won         int
	Kept        int
	Skipped     int
	Errors      int
	BytesBefore int64
	BytesAfter  int64
}

// Saved returns the aggregate byte delta across the scanned roots. Positive
// means the batch shrank them.
func (s Summary) Saved() int64 {
	return s.BytesBefore - s.BytesAfter
}

// SavedPercent returns Saved as a percentage of BytesBefore.
func (s Summary) SavedPercent() float64 {
	if s.BytesBefore == 0 {
		return 0
	}
	return float64(s.Saved()) / float64(s.BytesBefore) * 100
}

// ProgressUpdate carries incremental batch progress to a UI.
type ProgressUpdate struct {
	TotalDelta      int
	ProcessedDelta  int
	WonDelta        int
	KeptDelta       int
	SkippedDelta    int
	ErrorDelta      int
	BytesSavedDelta int64
}
