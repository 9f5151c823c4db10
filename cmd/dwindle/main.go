// Package main implements dwindle, a command line runner for the dwindle
// tiling layout engine. It replays layout scripts against a headless
// window manager and prints the resulting window geometry.
package main

import (
	"context"
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/dwindle/internal/driver"
	"github.com/Gaurav-Gosain/dwindle/internal/layout"
	"github.com/Gaurav-Gosain/dwindle/internal/script"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var debugMode bool

// enableDebug switches every package logger to debug level.
func enableDebug() {
	log.SetLevel(log.DebugLevel)
	layout.SetLogLevel(log.DebugLevel)
	driver.SetLogLevel(log.DebugLevel)
	script.SetLogLevel(log.DebugLevel)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "dwindle",
		Short: "Dwindle tiling layout engine",
		Long: `dwindle - binary space partitioning window layouts

Replays layout scripts against a headless window manager using the dwindle
tiling engine and prints where every window ends up.`,
		Example: `  # Run a script and print the final layout
  dwindle run layout.dwindle

  # Override configuration for one run
  dwindle run layout.dwindle --set layout.insertion_point=right

  # Re-run whenever the script or config changes
  dwindle run layout.dwindle --watch --tree

  # Edit configuration
  dwindle config edit`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugMode {
				enableDebug()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	var opts runOptions

	runCmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a layout script",
		Long: `Run a layout script and print the resulting placements

Each screen defined by the script is printed as a table of window
geometry. Print commands in the script emit intermediate frames.`,
		Example: `  # Run with the user configuration
  dwindle run demo.dwindle

  # Use a specific config file and export the tree as SVG
  dwindle run demo.dwindle --config ./dwindle.toml --svg tree.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return watchScript(cmd.Context(), args[0], opts)
			}
			return runScript(cmd.Context(), args[0], opts)
		},
	}

	runCmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Override a config option (section.key=value)")
	runCmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a config file (defaults to the user config)")
	runCmd.Flags().StringVar(&opts.svg, "svg", "", "Write the final layout tree as SVG")
	runCmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run when the script or config file changes")
	runCmd.Flags().BoolVar(&opts.tree, "tree", false, "Print the partition tree of each screen")

	checkCmd := &cobra.Command{
		Use:   "check <script>",
		Short: "Check a layout script for syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkScript(args[0])
		},
	}

	// Config command group
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dwindle configuration",
		Long:  `Manage dwindle configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath()
		},
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the dwindle configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the dwindle configuration file to default settings

When run from a terminal this asks for confirmation before overwriting
an existing file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configShowCmd, configEditCmd, configResetCmd)

	rootCmd.AddCommand(runCmd, checkCmd, configCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
