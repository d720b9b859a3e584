// Package cli wires the planner into cobra commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"momentum/internal/config"
)

const defaultConfigPath = "momentum.yaml"

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "momentum",
		Short: "Personal task tracker with streaks, achievements and daily challenges",
		Long: `momentum keeps a personal task list and turns finishing tasks into a habit.

Completing at least one task a day grows a streak, milestones unlock
achievements, and a rotating daily challenge gives every day a small goal.
The serve command runs the Telegram front end; insights prints a summary.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the yaml config file (environment variables take precedence)")

	loadConfig := func() (config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(newServeCommand(loadConfig))
	root.AddCommand(newInsightsCommand(loadConfig))
	root.AddCommand(newVersionCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
