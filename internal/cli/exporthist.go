package cli

import (
	"github.com/spf13/cobra"

	"nanodomain-widths/internal/analysis"
	"nanodomain-widths/internal/export"
)

func newExportHistCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export-hist",
		Short: "Run the analysis and write per-region histogram CSV files",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			regions, err := analysis.Run(cfg)
			if err != nil {
				return err
			}
			return export.HistCSV(cfg.Dir, regions)
		},
	}
}
