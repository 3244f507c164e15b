package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell helpers need a POSIX shell")
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"no args", Command{Name: "spicetify"}, "spicetify"},
		{"version check", Command{Name: "spicetify", Args: []string{"--version"}}, "spicetify --version"},
		{
			"restore",
			Command{Name: "spicetify", Args: []string{"-n", "restore", "backup", "--bypass-admin"}},
			"spicetify -n restore backup --bypass-admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessRunnerSuccess(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	r := NewProcessRunner()
	out := r.Run(context.Background(), Command{Name: "/bin/sh", Args: []string{"-c", "exit 0"}, Timeout: 5 * time.Second})
	if !out.Success {
		t.Fatalf("expected success, got %v", out.Err)
	}
	if out.Err != nil {
		t.Errorf("unexpected error: %v", out.Err)
	}
}

func TestProcessRunnerNonZeroExit(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	r := NewProcessRunner()
	out := r.Run(context.Background(), Command{Name: "/bin/sh", Args: []string{"-c", "exit 3"}, Timeout: 5 * time.Second})
	if out.Success {
		t.Fatal("expected failure")
	}
	if !errors.Is(out.Err, ErrCommandFailed) {
		t.Errorf("expected ErrCommandFailed, got %v", out.Err)
	}
}

func TestProcessRunnerMissingBinary(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewProcessRunner()
	out := r.Run(context.Background(), Command{Name: filepath.Join(t.TempDir(), "does-not-exist")})
	if out.Success {
		t.Fatal("expected failure")
	}
	if !errors.Is(out.Err, ErrCommandStart) {
		t.Errorf("expected ErrCommandStart, got %v", out.Err)
	}
}

func TestProcessRunnerTimeoutKills(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	r := NewProcessRunner()
	start := time.Now()
	out := r.Run(context.Background(), Command{Name: "/bin/sh", Args: []string{"-c", "sleep 30"}, Timeout: 100 * time.Millisecond})
	if out.Success {
		t.Fatal("expected timeout failure")
	}
	if !errors.Is(out.Err, ErrCommandTimeout) {
		t.Errorf("expected ErrCommandTimeout, got %v", out.Err)
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("timeout did not bound the wait: %v", time.Since(start))
	}
}

func TestProcessRunnerContextCancel(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	r := NewProcessRunner()
	out := r.Run(ctx, Command{Name: "/bin/sh", Args: []string{"-c", "sleep 30"}})
	if out.Success {
		t.Fatal("expected cancellation failure")
	}
	if !errors.Is(out.Err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", out.Err)
	}
}

func TestProcessRunnerAvailable(t *testing.T) {
	r := &ProcessRunner{
		lookPath: func(name string) (string, error) {
			if name == "spicetify" {
				return "/usr/bin/spicetify", nil
			}
			return "", errors.New("not found")
		},
	}

	if !r.Available("spicetify") {
		t.Error("spicetify should be available")
	}
	if r.Available("taskkill") {
		t.Error("taskkill should not be available")
	}
	if r.Available("") {
		t.Error("empty name should never be available")
	}
}

func TestProcessRunnerAvailableAbsolutePath(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	bin := filepath.Join(dir, "spicetify")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}

	r := NewProcessRunner()
	if !r.Available(bin) {
		t.Errorf("%s should be available", bin)
	}
	if r.Available(filepath.Join(dir, "missing")) {
		t.Error("missing path should not be available")
	}
}
