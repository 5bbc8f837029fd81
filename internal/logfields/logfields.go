package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyRepo       = "repository"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeyPath       = "path"
	KeyDest       = "dest"
	KeyLine       = "line"
	KeyStage      = "stage"
	KeyOutcome    = "outcome"
	KeyCommit     = "commit"
	KeyAttempt    = "attempt"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dest(d string) slog.Attr         { return slog.String(KeyDest, d) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
