package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"PublishID", KeyPublishID, "abc", PublishID("abc")},
		{"Target", KeyTarget, "server", Target("server")},
		{"Directory", KeyDirectory, "/out/server", Directory("/out/server")},
		{"Path", KeyPath, "/tmp/x.js.map", Path("/tmp/x.js.map")},
		{"URL", KeyURL, "https://cdn.example.com/a.js", URL("https://cdn.example.com/a.js")},
		{"Endpoint", KeyEndpoint, "https://upload.bugsnag.com", Endpoint("https://upload.bugsnag.com")},
		{"AppVersion", KeyAppVersion, "1.2.3", AppVersion("1.2.3")},
		{"Host", KeyHost, "nitro", Host("nitro")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Count(3); a.Key != KeyCount || a.Value.Int64() != 3 {
		t.Fatalf("unexpected count attr %v", a)
	}
	if a := Status(401); a.Key != KeyStatus || a.Value.Int64() != 401 {
		t.Fatalf("unexpected status attr %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Value.Float64() != 1.5 {
		t.Fatalf("expected 1.5ms got %v", a.Value.Float64())
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom got %q", a.Value.String())
	}
}
