// Package upload sends source maps to a Bugsnag-compatible upload endpoint.
//
// Two uploaders exist, mirroring the two build outputs: NodeUploader for the
// server bundle (bundle paths are reported relative to the project root) and
// BrowserUploader for the public bundle (bundle paths become URLs under the
// base URL). Both walk the target directory for *.map files and upload each
// map together with its bundle, one request per map.
package upload

import (
	"log/slog"
	"time"
)

// Kind identifies which build output a Target covers.
type Kind string

const (
	KindServer Kind = "server"
	KindClient Kind = "client"
)

// Target describes one multi-file upload.
type Target struct {
	Kind         Kind
	APIKey       string
	AppVersion   string
	Directory    string
	ProjectRoot  string // server only
	BaseURL      string // client only
	Overwrite    bool
	Endpoint     string
	CodeBundleID string
	IdleTimeout  time.Duration
	Logger       *slog.Logger
}

func (t Target) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// Result summarises a finished upload.
type Result struct {
	Kind      Kind
	Directory string
	Uploaded  int
	Skipped   int
	Duration  time.Duration
}
