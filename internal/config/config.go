// Package config holds the run configuration for the nanodomain width
// analysis. Every value that the original workflow hard-coded (scale
// calibration, detection thresholds, annotation coordinates, palette) lives
// here so a run can be retargeted at a different micrograph without touching
// code.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CSV column layouts produced by ImageJ multi-ROI profile exports.
const (
	LayoutPaired = "paired" // alternating distance/intensity column pairs
	LayoutShared = "shared" // one distance column shared by all intensity columns
)

// Arrow is a feature-marker arrow drawn on the micrograph. Coordinates are
// image pixels with the origin at the top-left corner, tail to head.
type Arrow struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// Label is a text annotation placed on the micrograph, pixel coordinates.
type Label struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Text string  `yaml:"text"`
}

// Histogram describes the fixed binning of the width distribution.
type Histogram struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Edges int     `yaml:"edges"` // number of bin edges, bins = edges-1
}

// Fit carries the Gaussian seed parameters and the x-range the fitted curve
// is drawn over.
type Fit struct {
	Seed  [4]float64 `yaml:"seed"` // amplitude, center, width, offset
	XMin  float64    `yaml:"x_min"`
	XMax  float64    `yaml:"x_max"`
	Steps int        `yaml:"steps"`
}

// ScaleBar is the solid bar drawn on the micrograph. The bar carries its own
// nm-per-pixel factor: the displayed image may be at a different
// magnification than the profile export.
type ScaleBar struct {
	LengthNm   float64 `yaml:"length_nm"`
	NmPerPixel float64 `yaml:"nm_per_pixel"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Height     float64 `yaml:"height"`
	LabelXOffs float64 `yaml:"label_x_offs"`
}

// Config is the full run configuration.
type Config struct {
	Dir         string `yaml:"dir"`
	Image       string `yaml:"image"`
	ProfileGlob string `yaml:"profile_glob"`
	Layout      string `yaml:"layout"`

	NmPerPixel      float64 `yaml:"nm_per_pixel"`
	MinSeparationNm float64 `yaml:"min_separation_nm"`
	// MinProminence is the minimum vertical drop for a trough to count.
	// The reference workflow runs with 0, i.e. disabled.
	MinProminence  float64 `yaml:"min_prominence"`
	MedianWindowPx int     `yaml:"median_window_px"` // 0 = display image as-is

	Hist Histogram `yaml:"hist"`
	Fit  Fit       `yaml:"fit"`

	ScaleBar     ScaleBar `yaml:"scale_bar"`
	BlackArrows  []Arrow  `yaml:"black_arrows"`
	RedArrows    []Arrow  `yaml:"red_arrows"`
	RegionLabels []Label  `yaml:"region_labels"`

	Colors []string `yaml:"colors"` // hex, index-aligned to the sorted CSV files
	Labels []string `yaml:"labels"`

	ProfileOffset float64 `yaml:"profile_offset"` // vertical separation in panel (b)
	MaxProfiles   int     `yaml:"max_profiles"`
	ProfileXMax   float64 `yaml:"profile_x_max"`
	HistXMax      float64 `yaml:"hist_x_max"`
	FigWidthInch  float64 `yaml:"fig_width_inch"`
	FigHeightInch float64 `yaml:"fig_height_inch"`
	DPI           int     `yaml:"dpi"`
	OutName       string  `yaml:"out_name"`
	ExportHistCSV bool    `yaml:"export_hist_csv"`
}

// Default returns the configuration matching the reference analysis of the
// published micrograph.
func Default() Config {
	return Config{
		Dir:         ".",
		Image:       "image.png",
		ProfileGlob: "profiledata*.csv",
		Layout:      LayoutPaired,

		NmPerPixel:      0.240688,
		MinSeparationNm: 1.2,
		MinProminence:   0,
		MedianWindowPx:  0,

		Hist: Histogram{Min: 0, Max: 160, Edges: 50},
		Fit: Fit{
			Seed:  [4]float64{20, 73, 40, 0},
			XMin:  0,
			XMax:  120,
			Steps: 50,
		},

		ScaleBar: ScaleBar{
			LengthNm:   250,
			NmPerPixel: 0.962752,
			X:          0,
			Y:          1040,
			Height:     25,
			LabelXOffs: 30,
		},
		BlackArrows: []Arrow{
			{X1: 770, Y1: 1080, X2: 745, Y2: 1030},
			{X1: 690, Y1: 1080, X2: 660, Y2: 1030},
		},
		RedArrows: []Arrow{
			{X1: 885, Y1: 1080, X2: 905, Y2: 1030},
			{X1: 855, Y1: 1080, X2: 875, Y2: 1030},
			{X1: 532, Y1: 1080, X2: 552, Y2: 1030},
			{X1: 510, Y1: 1080, X2: 530, Y2: 1030},
			{X1: 485, Y1: 1080, X2: 505, Y2: 1030},
			{X1: 455, Y1: 1080, X2: 475, Y2: 1030},
		},
		RegionLabels: []Label{
			{X: 305, Y: 80, Text: "Region 1"},
			{X: 705, Y: 80, Text: "Region 2"},
		},

		Colors: []string{
			"#1f77b4", // blue
			"#ff7f0e", // orange
			"#2ca02c", // green
			"#d62728", // red
			"#9467bd", // purple
			"#8c564b", // brown
		},
		Labels: []string{
			"Region 1",
			"Region 2",
			"Region 3",
			"Region 4",
			"Region 5",
			"Region 6",
		},

		ProfileOffset: 200,
		MaxProfiles:   4,
		ProfileXMax:   425,
		HistXMax:      125,
		FigWidthInch:  7.48,
		FigHeightInch: 4,
		DPI:           1200,
		OutName:       "RealSpaceMethod",
		ExportHistCSV: false,
	}
}

// Load reads a YAML configuration file on top of the defaults. An empty path
// yields the defaults; a path that names a missing or unreadable file is an
// error, so a typoed --config cannot silently run the default analysis.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields other packages rely on blindly.
func (c Config) Validate() error {
	switch c.Layout {
	case LayoutPaired, LayoutShared:
	default:
		return fmt.Errorf("layout must be %q or %q, got %q", LayoutPaired, LayoutShared, c.Layout)
	}
	if c.NmPerPixel <= 0 {
		return fmt.Errorf("nm_per_pixel must be positive, got %g", c.NmPerPixel)
	}
	if c.Hist.Edges < 2 {
		return fmt.Errorf("hist.edges must be at least 2, got %d", c.Hist.Edges)
	}
	if c.Hist.Max <= c.Hist.Min {
		return fmt.Errorf("hist range [%g, %g) is empty", c.Hist.Min, c.Hist.Max)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	return nil
}

// ImagePath returns the micrograph location under the working directory.
func (c Config) ImagePath() string {
	return filepath.Join(c.Dir, c.Image)
}

// Color returns the palette entry for region i, wrapping when more CSV files
// exist than configured colors.
func (c Config) Color(i int) color.RGBA {
	if len(c.Colors) == 0 {
		return color.RGBA{A: 255}
	}
	rgba, err := parseHex(c.Colors[i%len(c.Colors)])
	if err != nil {
		return color.RGBA{A: 255}
	}
	return rgba
}

// Label returns the legend label for region i.
func (c Config) Label(i int) string {
	if i < len(c.Labels) {
		return c.Labels[i]
	}
	return fmt.Sprintf("Region %d", i+1)
}

func parseHex(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
