// Package analysis runs the measurement pipeline: load each region's
// profiles, detect intensity troughs, collect domain widths, strip outliers,
// bin the distribution, and fit the offset Gaussian. Regions are independent
// and processed in file order.
package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"nanodomain-widths/internal/config"
	"nanodomain-widths/internal/fit"
	"nanodomain-widths/internal/peaks"
	"nanodomain-widths/internal/profile"
	"nanodomain-widths/internal/stats"
)

// Region is the fully processed result for one CSV file.
type Region struct {
	Name     string
	Label    string
	Profiles []profile.Profile
	// Troughs holds, per profile, the detected trough indices.
	Troughs [][]int
	// Widths is the outlier-filtered width collection, in sample units.
	Widths []float64
	Bounds stats.Bounds
	Edges  []float64
	Counts []float64
	Fit    fit.Result
}

// Run processes every profile CSV under the configured directory and
// returns one Region per file, in sorted file order. Any failure aborts the
// whole run; there is no partial-result path.
func Run(cfg config.Config) ([]Region, error) {
	paths, err := profile.Find(cfg.Dir, cfg.ProfileGlob)
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, len(paths))
	for i, path := range paths {
		reg, err := processRegion(cfg, path, i)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", path, err)
		}
		regions = append(regions, reg)
	}
	return regions, nil
}

func processRegion(cfg config.Config, path string, index int) (Region, error) {
	raw, err := profile.Load(path, cfg.Layout, cfg.NmPerPixel)
	if err != nil {
		return Region{}, err
	}

	reg := Region{
		Name:     raw.Name,
		Label:    cfg.Label(index),
		Profiles: raw.Profiles,
	}

	var widths []float64
	for _, p := range raw.Profiles {
		idx := peaks.Troughs(p.Intensity, peaks.Params{
			MinSeparation: separationSamples(cfg.MinSeparationNm, p.Spacing()),
			MinProminence: cfg.MinProminence,
		})
		reg.Troughs = append(reg.Troughs, idx)
		widths = append(widths, stats.Widths(idx)...)
	}

	filtered, bounds, err := stats.FilterOutliers(widths)
	if err != nil {
		return Region{}, err
	}
	reg.Widths = filtered
	reg.Bounds = bounds

	reg.Edges, reg.Counts = stats.Histogram(filtered, cfg.Hist.Min, cfg.Hist.Max, cfg.Hist.Edges)

	// Fit against bin left edges, as the reference analysis does.
	reg.Fit, err = fit.Gaussian(reg.Edges[:len(reg.Edges)-1], reg.Counts, cfg.Fit.Seed)
	if err != nil {
		return Region{}, err
	}

	slog.Debug("region processed",
		"file", path,
		"profiles", len(raw.Profiles),
		"widths_raw", len(widths),
		"widths_kept", len(filtered),
		"fit_center", reg.Fit.Center,
		"fit_width", reg.Fit.Width,
	)
	return reg, nil
}

// separationSamples converts the minimum trough separation from nm to index
// units using the profile's sample spacing. At least one sample.
func separationSamples(minSepNm, spacingNm float64) int {
	if spacingNm <= 0 {
		return 1
	}
	n := int(math.Round(minSepNm / spacingNm))
	if n < 1 {
		n = 1
	}
	return n
}
