package guard

import (
	"fmt"
	"time"

	"github.com/obentoo/spiceguard/internal/common/config"
	"github.com/obentoo/spiceguard/internal/common/runner"
)

// Patcher flags appended to mutating subcommands.
const (
	flagNoPrompt    = "-n"
	flagBypassAdmin = "--bypass-admin"
)

// Commands maps plan steps to concrete command lines. The argument tokens
// must match the patcher CLI exactly.
type Commands struct {
	Patcher     string
	ProcessName string
	GOOS        string
	Timeout     time.Duration
}

// NewCommands builds the command table from settings.
func NewCommands(s *config.Settings) *Commands {
	return &Commands{
		Patcher:     s.Patcher,
		ProcessName: s.ProcessName,
		GOOS:        s.GOOS,
		Timeout:     s.Timeout,
	}
}

// VersionCheck asks the patcher for its version; success means it is usable.
func (c *Commands) VersionCheck() runner.Command {
	return c.patcher("--version")
}

// For returns the command line for a plan step.
func (c *Commands) For(step Step) (runner.Command, error) {
	switch step {
	case StepStopApp:
		return c.stopApp(), nil
	case StepBackup:
		return c.patcher(flagNoPrompt, "backup", flagBypassAdmin), nil
	case StepApply:
		return c.patcher(flagNoPrompt, "apply", flagBypassAdmin), nil
	case StepRestoreBackup:
		return c.patcher(flagNoPrompt, "restore", "backup", flagBypassAdmin), nil
	case StepRestart:
		return c.patcher("restart", flagBypassAdmin), nil
	}
	return runner.Command{}, fmt.Errorf("no command for %s", step)
}

// stopApp force-terminates the target application by process name.
func (c *Commands) stopApp() runner.Command {
	if c.GOOS == "windows" {
		return runner.Command{Name: "taskkill", Args: []string{"/F", "/IM", c.ProcessName}, Timeout: c.Timeout}
	}
	return runner.Command{Name: "pkill", Args: []string{"-x", c.ProcessName}, Timeout: c.Timeout}
}

func (c *Commands) patcher(args ...string) runner.Command {
	return runner.Command{Name: c.Patcher, Args: args, Timeout: c.Timeout}
}
