package main

import (
	"fmt"

	"github.com/obentoo/spiceguard/internal/common/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and the resolved paths",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info(versionDetails(cmd)...))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionDetails lists the resolved patcher and guard files. Settings errors
// are ignored so version always prints.
func versionDetails(cmd *cobra.Command) []version.Detail {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil
	}
	return []version.Detail{
		{Key: "patcher", Value: s.Patcher},
		{Key: "settings", Value: s.SettingsFile},
		{Key: "cache", Value: s.CachePath()},
		{Key: "log", Value: s.LogPath()},
	}
}
