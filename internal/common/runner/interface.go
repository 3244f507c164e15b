package runner

import (
	"context"
	"strings"
	"time"
)

// Command describes one external program invocation.
type Command struct {
	Name    string        // executable name or path
	Args    []string      // passed verbatim
	Timeout time.Duration // zero means no limit
}

// String renders the command line as it is logged.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Outcome reports how a command ended. Only success or failure is exposed;
// Err carries the reason for logging.
type Outcome struct {
	Success bool
	Elapsed time.Duration
	Err     error
}

// Executor defines the interface for running external commands.
// This interface allows for mocking process execution in tests.
type Executor interface {
	// Run executes the command and waits for it, killing it on timeout
	Run(ctx context.Context, cmd Command) Outcome

	// Available reports whether the named command can be found
	Available(name string) bool
}
