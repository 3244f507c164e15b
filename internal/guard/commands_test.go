package guard

import (
	"reflect"
	"testing"
	"time"

	"github.com/obentoo/spiceguard/internal/common/config"
)

func TestCommandsFor(t *testing.T) {
	c := NewCommands(&config.Settings{
		Patcher:     `C:\Users\me\AppData\Local\spicetify\spicetify.exe`,
		ProcessName: "Spotify.exe",
		GOOS:        "windows",
		Timeout:     42 * time.Second,
	})

	tests := []struct {
		step Step
		name string
		args []string
	}{
		{StepStopApp, "taskkill", []string{"/F", "/IM", "Spotify.exe"}},
		{StepBackup, c.Patcher, []string{"-n", "backup", "--bypass-admin"}},
		{StepApply, c.Patcher, []string{"-n", "apply", "--bypass-admin"}},
		{StepRestoreBackup, c.Patcher, []string{"-n", "restore", "backup", "--bypass-admin"}},
		{StepRestart, c.Patcher, []string{"restart", "--bypass-admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			cmd, err := c.For(tt.step)
			if err != nil {
				t.Fatalf("For: %v", err)
			}
			if cmd.Name != tt.name {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.name)
			}
			if !reflect.DeepEqual(cmd.Args, tt.args) {
				t.Errorf("Args = %q, want %q", cmd.Args, tt.args)
			}
			if cmd.Timeout != 42*time.Second {
				t.Errorf("Timeout = %v", cmd.Timeout)
			}
		})
	}

	if _, err := c.For(Step(99)); err == nil {
		t.Error("unknown step should be an error")
	}
}

func TestCommandsVersionCheck(t *testing.T) {
	c := &Commands{Patcher: "spicetify"}
	if got := c.VersionCheck().String(); got != "spicetify --version" {
		t.Errorf("VersionCheck() = %q", got)
	}
}

func TestCommandsStopAppUnix(t *testing.T) {
	c := &Commands{Patcher: "spicetify", ProcessName: "spotify", GOOS: "linux"}
	cmd, err := c.For(StepStopApp)
	if err != nil {
		t.Fatal(err)
	}
	if got := cmd.String(); got != "pkill -x spotify" {
		t.Errorf("stop app = %q", got)
	}
}
