package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"nanodomain-widths/internal/analysis"
	"nanodomain-widths/internal/export"
	"nanodomain-widths/internal/figure"
	"nanodomain-widths/internal/preview"
	"nanodomain-widths/internal/profile"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var showPreview bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the analysis and write the summary figure",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRender(*flags, showPreview)
		},
	}
	cmd.Flags().BoolVar(&showPreview, "preview", false, "open gnuplot windows with the raw profiles first")

	return cmd
}

func runRender(flags rootFlags, showPreview bool) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	if showPreview {
		if err := showRawProfiles(cfg.Dir, cfg.ProfileGlob, cfg.Layout, cfg.NmPerPixel); err != nil {
			return err
		}
	}

	regions, err := analysis.Run(cfg)
	if err != nil {
		return err
	}
	for i, reg := range regions {
		slog.Info("region fit",
			"region", reg.Label,
			"amplitude", reg.Fit.Amp, "amplitude_err", reg.Fit.Stderr[0],
			"center", reg.Fit.Center, "center_err", reg.Fit.Stderr[1],
			"width", reg.Fit.Width, "width_err", reg.Fit.Stderr[2],
			"offset", reg.Fit.Offset, "offset_err", reg.Fit.Stderr[3],
			"widths", len(reg.Widths),
			"index", i,
		)
	}

	img, err := figure.LoadMicrograph(cfg.ImagePath(), cfg.MedianWindowPx)
	if err != nil {
		return err
	}

	if err := figure.Render(cfg, img, regions); err != nil {
		return err
	}

	if cfg.ExportHistCSV {
		return export.HistCSV(cfg.Dir, regions)
	}
	return nil
}

func showRawProfiles(dir, glob, layout string, nmPerPixel float64) error {
	paths, err := profile.Find(dir, glob)
	if err != nil {
		return err
	}
	regions := make([]profile.Region, 0, len(paths))
	for _, p := range paths {
		reg, err := profile.Load(p, layout, nmPerPixel)
		if err != nil {
			return err
		}
		regions = append(regions, reg)
	}
	return preview.Profiles(regions)
}
