package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/obentoo/spiceguard/internal/common/config"
	"github.com/obentoo/spiceguard/internal/common/logger"
	"github.com/obentoo/spiceguard/internal/common/output"
	"github.com/obentoo/spiceguard/internal/common/runner"
	"github.com/obentoo/spiceguard/internal/common/version"
	"github.com/obentoo/spiceguard/internal/guard"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	noColor      bool
	settingsPath string
	timeoutSecs  int
	freshness    time.Duration
)

// reportedError marks an error already written to the guard log.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

var rootCmd = &cobra.Command{
	Use:   "spiceguard",
	Short: "Keep spicetify applied across Spotify updates",
	Long: `spiceguard runs once at login. It checks whether spicetify is installed,
compares the Spotify version spicetify last patched against the installed one
and, when they drift apart, restores the backup, re-applies spicetify and
restarts Spotify.

Everything the guard does is appended to spicetify_boot_guard.log next to its
cache in %APPDATA%\Spotify.

Environment:
  APPDATA                base directory for config, cache and log
  LOCALAPPDATA           prefer %LOCALAPPDATA%\spicetify\spicetify.exe over PATH
  SPICE_GUARD_TIMEOUT    per-command timeout in seconds (default 600)
  SPICE_GUARD_FRESHNESS  how long a successful run is trusted (default 12h)`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
	RunE: runGuard,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and log the decision trace")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error terminal output (the log file is unaffected)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "settings file (default: %APPDATA%\\Spotify\\spicetify_boot_guard.yaml)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "per-command timeout in seconds, overrides SPICE_GUARD_TIMEOUT")
	rootCmd.PersistentFlags().DurationVar(&freshness, "freshness", 0, "freshness window, overrides SPICE_GUARD_FRESHNESS")
}

// loadSettings resolves settings and applies command-line overrides
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load(settingsPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		if timeoutSecs <= 0 {
			return nil, fmt.Errorf("--timeout must be positive, got %d", timeoutSecs)
		}
		s.Timeout = time.Duration(timeoutSecs) * time.Second
	}
	if flags.Changed("freshness") {
		if freshness <= 0 {
			return nil, fmt.Errorf("--freshness must be positive, got %s", freshness)
		}
		s.Freshness = freshness
	}
	return s, nil
}

func runGuard(cmd *cobra.Command, args []string) error {
	// The log opens first so settings errors land in it too
	base, err := config.ResolveBaseDir(os.Getenv)
	if err != nil {
		return err
	}
	if err := logger.EnableFileLogging(config.LogPathIn(base)); err != nil {
		return err
	}
	defer logger.Close()

	s, err := loadSettings(cmd)
	if err != nil {
		logger.Error("fatal: %v", err)
		return reportedError{err}
	}

	g := guard.New(s, runner.NewProcessRunner(), logger.Default())
	if _, err := g.Run(cmd.Context()); err != nil {
		logger.Error("fatal: %v", err)
		return reportedError{err}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			output.PrintError("%v", err)
		}
		os.Exit(1)
	}
}
