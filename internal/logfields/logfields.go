package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPlugin     = "plugin"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyEntries    = "entries"
	KeyFiles      = "files"
	KeyReason     = "reason"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
