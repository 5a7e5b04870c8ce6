package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPublishID  = "publish_id"
	KeyTarget     = "target"
	KeyDirectory  = "directory"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyEndpoint   = "endpoint"
	KeyAppVersion = "app_version"
	KeyHost       = "host"
	KeyCount      = "count"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func PublishID(id string) slog.Attr    { return slog.String(KeyPublishID, id) }
func Target(kind string) slog.Attr     { return slog.String(KeyTarget, kind) }
func Directory(dir string) slog.Attr   { return slog.String(KeyDirectory, dir) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Endpoint(e string) slog.Attr      { return slog.String(KeyEndpoint, e) }
func AppVersion(v string) slog.Attr    { return slog.String(KeyAppVersion, v) }
func Host(name string) slog.Attr       { return slog.String(KeyHost, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }

func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
