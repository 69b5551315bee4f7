// Package preview opens quick-look gnuplot windows of the raw line profiles
// before the figure is composed. Purely interactive, nothing is written to
// disk; requires gnuplot on PATH.
package preview

import (
	"fmt"

	"github.com/Arafatk/glot"

	"nanodomain-widths/internal/profile"
)

// Profiles shows one window per region with every profile as a line group.
func Profiles(regions []profile.Region) error {
	for _, reg := range regions {
		dimensions := 2
		persist := true
		debug := false
		plt, err := glot.NewPlot(dimensions, persist, debug)
		if err != nil {
			return fmt.Errorf("preview %s: %w", reg.Name, err)
		}

		plt.SetTitle(reg.Name)
		plt.SetXLabel("Distance (nm)")
		plt.SetYLabel("Intensity")

		for i, p := range reg.Profiles {
			name := fmt.Sprintf("profile %d", i+1)
			set := [][]float64{p.Distance, p.Intensity}
			if err := plt.AddPointGroup(name, "lines", set); err != nil {
				return fmt.Errorf("preview %s: %w", reg.Name, err)
			}
		}
	}
	return nil
}
