package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfoBuildMetadata(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldVersion, oldCommit, oldDate })

	Version = "1.4.0"
	Commit = "0123456789abcdef0123"
	BuildDate = "2026-10-18"

	info := Info()
	if want := "spiceguard 1.4.0 (0123456789ab, built 2026-10-18)"; !strings.HasPrefix(info, want) {
		t.Errorf("Info() = %q, want prefix %q", info, want)
	}
	if !strings.Contains(info, runtime.Version()) {
		t.Errorf("Info() missing go version:\n%s", info)
	}
	if strings.Count(info, "\n") != 1 {
		t.Errorf("Info() without details should be two lines:\n%s", info)
	}
}

func TestInfoDetails(t *testing.T) {
	info := Info(
		Detail{Key: "patcher", Value: "spicetify"},
		Detail{Key: "settings", Value: ""},
		Detail{Key: "log", Value: "/base/Spotify/spicetify_boot_guard.log"},
	)
	if !strings.Contains(info, "patcher:  spicetify") {
		t.Errorf("missing patcher line:\n%s", info)
	}
	if !strings.Contains(info, "log:      /base/Spotify/spicetify_boot_guard.log") {
		t.Errorf("missing log line:\n%s", info)
	}
	if strings.Contains(info, "settings:") {
		t.Errorf("empty detail should be omitted:\n%s", info)
	}
}

func TestShort(t *testing.T) {
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
