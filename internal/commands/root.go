package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/targetdigest/ietrack/internal/buildinfo"
)

const defaultConfigPath = "ietrack.yaml"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ietrack",
		Short:   "Independent-expenditure filing tracker",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "config file path")

	rootCmd.AddCommand(
		newInitCommand(),
		newTrackCommand(),
		newTotalsCommand(),
		newParseCommand(),
	)

	return rootCmd
}
