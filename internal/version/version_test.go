package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "releasepub "+Version) {
		t.Errorf("unexpected version line %q", s)
	}
	if !strings.Contains(s, GitCommit) || !strings.Contains(s, BuildTime) {
		t.Errorf("version line should include build info, got %q", s)
	}
}
