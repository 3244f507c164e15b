package guard

import "fmt"

// Step is one abstract action in a corrective plan.
type Step int

const (
	StepStopApp Step = iota
	StepBackup
	StepApply
	StepRestoreBackup
	StepRestart
)

var stepLabels = map[Step]string{
	StepStopApp:       "stop app",
	StepBackup:        "backup",
	StepApply:         "apply",
	StepRestoreBackup: "restore backup",
	StepRestart:       "restart",
}

func (s Step) String() string {
	if l, ok := stepLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Hard reports whether a failure of this step aborts the plan. Stopping the
// app is soft because it may simply not be running.
func (s Step) Hard() bool {
	return s != StepStopApp
}

// PlanKind enumerates the closed set of plans.
type PlanKind int

const (
	PlanSkipNotInstalled PlanKind = iota
	PlanSkipFresh
	PlanRefresh
	PlanInitialApply
	PlanUpgrade
	PlanSkipNoCommands
)

var planNames = map[PlanKind]string{
	PlanSkipNotInstalled: "skip (not installed)",
	PlanSkipFresh:        "skip (fresh)",
	PlanRefresh:          "refresh",
	PlanInitialApply:     "initial apply",
	PlanUpgrade:          "upgrade",
	PlanSkipNoCommands:   "skip (no commands needed)",
}

func (k PlanKind) String() string {
	if n, ok := planNames[k]; ok {
		return n
	}
	return fmt.Sprintf("plan(%d)", int(k))
}

// Plan is what a run will do.
type Plan struct {
	Kind        PlanKind
	Reason      string // set for skip plans
	Steps       []Step // executed in order
	UpdateCache bool   // save a fresh record once the steps succeed
}

func (p Plan) String() string {
	if p.Reason != "" {
		return fmt.Sprintf("%s: %s", p.Kind, p.Reason)
	}
	return p.Kind.String()
}

var (
	initialApplySteps = []Step{StepStopApp, StepBackup, StepApply, StepRestart}
	upgradeSteps      = []Step{StepStopApp, StepRestoreBackup, StepBackup, StepApply, StepRestart}
)

// Evaluation records one decision rule that was checked.
type Evaluation struct {
	Rule      int
	Condition string
	Matched   bool
}

func (e Evaluation) String() string {
	return fmt.Sprintf("rule %d (%s): %t", e.Rule, e.Condition, e.Matched)
}

// Decide maps the installation state and status to a plan. Rules are checked
// in order and the first match wins; the returned trace lists every rule
// that was checked. hasTarget only annotates the trace.
func Decide(installed bool, st Status, hasTarget bool) (Plan, []Evaluation) {
	var trace []Evaluation
	check := func(rule int, cond string, matched bool) bool {
		trace = append(trace, Evaluation{Rule: rule, Condition: cond, Matched: matched})
		return matched
	}

	applied, match, recent := st.Applied, st.VersionsMatch, st.RecentlyOk

	switch {
	case check(1, "not installed", !installed):
		return Plan{Kind: PlanSkipNotInstalled, Reason: "not installed"}, trace

	case check(2, "applied, versions match, recently ok", applied && match && recent):
		return Plan{Kind: PlanSkipFresh, Reason: "fresh"}, trace

	case check(3, "applied, versions match, stale", applied && match && !recent):
		return Plan{Kind: PlanRefresh, UpdateCache: true}, trace

	case check(4, "not applied", !applied):
		return Plan{Kind: PlanInitialApply, Steps: clone(initialApplySteps), UpdateCache: true}, trace

	case check(5, fmt.Sprintf("applied, versions differ (target recorded=%t)", hasTarget), applied && !match):
		return Plan{Kind: PlanUpgrade, Steps: clone(upgradeSteps), UpdateCache: true}, trace
	}

	check(6, "fallback", true)
	return Plan{Kind: PlanSkipNoCommands, Reason: "no commands needed", UpdateCache: true}, trace
}

func clone(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
