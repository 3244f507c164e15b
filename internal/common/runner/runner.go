package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var (
	ErrCommandFailed  = errors.New("command failed")
	ErrCommandTimeout = errors.New("command timed out")
	ErrCommandStart   = errors.New("command could not be started")
)

// ProcessRunner executes commands as child processes with stdio detached.
type ProcessRunner struct {
	lookPath func(string) (string, error)
}

// NewProcessRunner creates a ProcessRunner using the system search path
func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{
		lookPath: exec.LookPath,
	}
}

// Run starts the command and waits for it to exit, the timeout to expire or
// ctx to be cancelled. On timeout or cancellation the process is killed and
// reaped before Run returns.
func (r *ProcessRunner) Run(ctx context.Context, c Command) Outcome {
	start := time.Now()

	// Stdin, stdout and stderr stay nil, which connects them to the null device.
	cmd := exec.Command(c.Name, c.Args...)
	if err := cmd.Start(); err != nil {
		return Outcome{Elapsed: time.Since(start), Err: errors.Join(ErrCommandStart, err)}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var timeout <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case err := <-done:
		elapsed := time.Since(start)
		if err != nil {
			return Outcome{Elapsed: elapsed, Err: errors.Join(ErrCommandFailed, err)}
		}
		return Outcome{Success: true, Elapsed: elapsed}

	case <-timeout:
		r.kill(cmd, done)
		return Outcome{
			Elapsed: time.Since(start),
			Err:     fmt.Errorf("%w after %s", ErrCommandTimeout, c.Timeout),
		}

	case <-ctx.Done():
		r.kill(cmd, done)
		return Outcome{Elapsed: time.Since(start), Err: ctx.Err()}
	}
}

// kill terminates the process and waits for the waiter goroutine to finish
func (r *ProcessRunner) kill(cmd *exec.Cmd, done <-chan error) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	<-done
}

// Available reports whether name resolves to an executable, either as a path
// or through the search path.
func (r *ProcessRunner) Available(name string) bool {
	if name == "" {
		return false
	}
	_, err := r.lookPath(name)
	return err == nil
}

// Ensure ProcessRunner implements Executor interface
var _ Executor = (*ProcessRunner)(nil)
