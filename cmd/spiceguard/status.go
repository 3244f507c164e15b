package main

import (
	"fmt"
	"time"

	"github.com/obentoo/spiceguard/internal/common/config"
	"github.com/obentoo/spiceguard/internal/common/logger"
	"github.com/obentoo/spiceguard/internal/common/output"
	"github.com/obentoo/spiceguard/internal/common/runner"
	"github.com/obentoo/spiceguard/internal/guard"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the guard would do, without doing it",
	Long: `Report the installation check, the versions recorded in config-xpui.ini,
the cache record and the plan a guard run would choose. Only the patcher's
--version check is run; the cache and log are not written.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	g := guard.New(s, runner.NewProcessRunner(), logger.New(nil))
	r := g.Inspect(cmd.Context())
	output.Box(cmd.OutOrStdout(), "spiceguard status", renderReport(s, r, time.Now()))
	return nil
}

// planCategory maps a plan to its display color category
func planCategory(kind guard.PlanKind) string {
	switch kind {
	case guard.PlanRefresh:
		return output.PlanMaintain
	case guard.PlanInitialApply, guard.PlanUpgrade:
		return output.PlanCorrective
	default:
		return output.PlanIdle
	}
}

// renderReport formats an inspection report as box lines
func renderReport(s *config.Settings, r *guard.Report, now time.Time) []string {
	lines := []string{
		output.FormatField("patcher", s.Patcher),
		output.FormatField("config", s.MarkerPath()),
		output.FormatField("install",
			output.FormatFlag("has_config", r.HasConfig, true)+" "+
				output.FormatFlag("patcher_ok", r.PatcherOK, true)),
	}

	if r.Installed {
		lines = append(lines,
			output.FormatField("versions", fmt.Sprintf("current=%s target=%s",
				guard.FormatVersion(r.Versions.Current), guard.FormatVersion(r.Versions.Target))),
			output.FormatField("status",
				output.FormatFlag("applied", r.Status.Applied, true)+" "+
					output.FormatFlag("versions_match", r.Status.VersionsMatch, true)+" "+
					output.FormatFlag("recently_ok", r.Status.RecentlyOk, true)),
			output.FormatField("cache", cacheText(r.Cache, now)),
		)
		if r.CacheErr != nil {
			lines = append(lines, output.Warning.Sprintf("cache ignored: %v", r.CacheErr))
		}
		if r.ConfigErr != nil {
			lines = append(lines, output.Warning.Sprintf("config unreadable: %v", r.ConfigErr))
		}
	}

	lines = append(lines, output.FormatField("plan", output.FormatPlan(planCategory(r.Plan.Kind), r.Plan.String())))

	commands := guard.NewCommands(s)
	for _, step := range r.Plan.Steps {
		cmd, err := commands.For(step)
		if err != nil {
			continue
		}
		lines = append(lines, output.Dim.Sprintf("  → %s", cmd))
	}
	return lines
}

func cacheText(rec guard.Record, now time.Time) string {
	if rec.LastSuccess == nil {
		return "no successful run recorded"
	}
	age := now.Sub(*rec.LastSuccess).Round(time.Minute)
	v := rec.Versions()
	return fmt.Sprintf("last success %s (%s ago), current=%s target=%s",
		rec.LastSuccess.Local().Format("2006-01-02 15:04"), age, guard.FormatVersion(v.Current), guard.FormatVersion(v.Target))
}
