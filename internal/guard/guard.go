package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/obentoo/spiceguard/internal/common/config"
	"github.com/obentoo/spiceguard/internal/common/logger"
	"github.com/obentoo/spiceguard/internal/common/runner"
)

// ErrStepFailed is wrapped by every hard step failure
var ErrStepFailed = errors.New("step failed")

// StepError reports a hard step that aborted the plan.
type StepError struct {
	Step    Step
	Command string
	Err     error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("command failed: %s (%s)", e.Command, e.Step)
	}
	return fmt.Sprintf("command failed: %s (%s): %v", e.Command, e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStepFailed}
	}
	return []error{ErrStepFailed, e.Err}
}

// Report is everything a run learned before acting.
type Report struct {
	HasConfig bool
	PatcherOK bool
	Installed bool

	Versions  VersionPair
	Cache     Record
	CacheErr  error // why an existing cache file was discarded
	ConfigErr error // why the patcher config could not be read

	Status Status
	Plan   Plan
	Trace  []Evaluation

	// Executed lists the steps that ran, in order.
	Executed []Step
	// CacheUpdated is set once the new record is on disk.
	CacheUpdated bool
}

// Guard runs the reconciliation once.
type Guard struct {
	settings *config.Settings
	exec     runner.Executor
	log      *logger.Logger
	commands *Commands
	now      func() time.Time
	runID    func() string
}

// Option configures a Guard
type Option func(*Guard)

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) Option {
	return func(g *Guard) {
		g.now = fn
	}
}

// WithRunID sets a custom run id generator
func WithRunID(fn func() string) Option {
	return func(g *Guard) {
		g.runID = fn
	}
}

// New creates a Guard. A nil log uses the default logger.
func New(s *config.Settings, exec runner.Executor, log *logger.Logger, opts ...Option) *Guard {
	if log == nil {
		log = logger.Default()
	}
	g := &Guard{
		settings: s,
		exec:     exec,
		log:      log,
		commands: NewCommands(s),
		now:      time.Now,
		runID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Inspect checks the installation, reads the config and cache and decides on
// a plan. Apart from the patcher version check it has no side effects.
func (g *Guard) Inspect(ctx context.Context) *Report {
	r := &Report{}

	r.HasConfig = g.settings.HasMarker()
	r.PatcherOK = g.checkPatcher(ctx)
	r.Installed = r.HasConfig && r.PatcherOK

	if !r.Installed {
		r.Plan, r.Trace = Decide(false, Status{}, false)
		return r
	}

	r.Cache, r.CacheErr = LoadCacheChecked(g.settings.CachePath())
	r.Versions, r.ConfigErr = ReadVersions(g.settings.MarkerPath())

	r.Status = Evaluate(r.Versions, r.Cache, g.now(), g.settings.Freshness)
	r.Plan, r.Trace = Decide(true, r.Status, r.Versions.Target != nil)
	return r
}

func (g *Guard) checkPatcher(ctx context.Context) bool {
	if !g.exec.Available(g.settings.Patcher) {
		return false
	}
	return g.exec.Run(ctx, g.commands.VersionCheck()).Success
}

// Run executes one guard pass. A non-nil error means the run must end with a
// non-zero exit status; the cache is left untouched when a hard step fails.
func (g *Guard) Run(ctx context.Context) (*Report, error) {
	g.log.Info("boot guard start (run %s)", g.runID())

	r := g.Inspect(ctx)
	g.log.Info("has_config=%t, patcher_ok=%t", r.HasConfig, r.PatcherOK)
	g.log.Info("installed=%t", r.Installed)

	if !r.Installed {
		g.log.Info("not installed → skipping heavy work")
		return r, nil
	}

	if r.CacheErr != nil {
		g.log.Warn("ignoring cache: %v", r.CacheErr)
	}
	if r.ConfigErr != nil {
		g.log.Warn("reading patcher config: %v", r.ConfigErr)
	}

	g.log.Info("status: %s, current=%s, target=%s",
		r.Status, FormatVersion(r.Versions.Current), FormatVersion(r.Versions.Target))
	for _, e := range r.Trace {
		g.log.Debug("decision %s", e)
	}
	g.log.Info("plan: %s", r.Plan)

	switch r.Plan.Kind {
	case PlanSkipFresh:
		g.log.Info("skip: already applied, versions match, recently ok")
		return r, nil
	case PlanRefresh, PlanSkipNoCommands:
		g.log.Info("skip: already applied and versions match (no commands needed)")
	}

	if err := g.execute(ctx, r); err != nil {
		return r, err
	}

	if r.Plan.UpdateCache {
		versions := r.Versions
		if len(r.Executed) > 0 {
			versions = g.rereadVersions(versions)
		}
		if err := SaveCache(g.settings.CachePath(), NewRecord(g.now(), versions)); err != nil {
			return r, err
		}
		r.CacheUpdated = true
	}

	g.log.Info("boot guard done")
	return r, nil
}

// execute runs the plan's steps in order. A failed soft step is logged and
// skipped past; a failed hard step aborts the rest.
func (g *Guard) execute(ctx context.Context, r *Report) error {
	for _, step := range r.Plan.Steps {
		cmd, err := g.commands.For(step)
		if err != nil {
			return err
		}

		g.log.Info("executing: %s (%s)", cmd, step)
		out := g.exec.Run(ctx, cmd)
		r.Executed = append(r.Executed, step)

		if !out.Success {
			if step.Hard() {
				return &StepError{Step: step, Command: cmd.String(), Err: out.Err}
			}
			g.log.Warn("command failed: %s: %v", cmd, out.Err)
		}
		g.log.Info("finished in %s (%s)", out.Elapsed.Round(time.Millisecond), step)
	}
	return nil
}

// rereadVersions picks up what the patcher recorded after running, keeping
// the pre-run pair if the file cannot be read.
func (g *Guard) rereadVersions(fallback VersionPair) VersionPair {
	v, err := ReadVersions(g.settings.MarkerPath())
	if err != nil {
		g.log.Warn("re-reading patcher config: %v", err)
		return fallback
	}
	return v
}
