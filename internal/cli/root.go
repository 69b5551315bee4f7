// Package cli wires the commands. The root command with no subcommand runs
// the full analysis and renders the figure.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"nanodomain-widths/internal/config"
	"nanodomain-widths/internal/logger"
)

// Execute runs the CLI and exits nonzero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	dir        string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "nanodomain-widths",
		Short: "Measure nanodomain widths from micrograph line profiles",
		Long: "Reads a calibrated micrograph and ImageJ line-profile CSV exports, " +
			"measures domain widths between intensity troughs, fits a Gaussian to " +
			"the width distribution per region, and renders a three-panel summary figure.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Setup(flags.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(flags, false)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML run configuration (defaults when omitted)")
	cmd.PersistentFlags().StringVarP(&flags.dir, "dir", "d", "", "working directory override")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "verbose logging")

	cmd.AddCommand(newRenderCmd(&flags))
	cmd.AddCommand(newExportHistCmd(&flags))

	return cmd
}

// loadConfig resolves the effective configuration for a command.
func loadConfig(flags rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, err
	}
	if flags.dir != "" {
		cfg.Dir = flags.dir
	}
	return cfg, nil
}
