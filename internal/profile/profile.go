// Package profile loads ImageJ line-profile exports. Each CSV file holds the
// profiles for one labeled region of the micrograph; distances arrive in
// pixels and are scaled to nanometers on load.
package profile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Profile is one line scan: parallel distance (nm) and intensity sequences.
type Profile struct {
	Distance  []float64
	Intensity []float64
}

// Spacing returns the sample spacing of the distance axis in nm. Profiles
// with fewer than two samples have no defined spacing and return 0.
func (p Profile) Spacing() float64 {
	if len(p.Distance) < 2 {
		return 0
	}
	return (p.Distance[len(p.Distance)-1] - p.Distance[0]) / float64(len(p.Distance)-1)
}

// Region is the set of profiles loaded from one CSV file.
type Region struct {
	Name     string
	Profiles []Profile
}

// Find lists the profile CSV files under dir matching the glob, sorted so
// the region order (and with it color/label assignment) is stable.
func Find(dir, glob string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", glob, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no profile files match %s in %s", glob, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads one region's profiles. layout selects how columns map to
// profiles: "paired" expects alternating distance/intensity pairs and
// rejects an odd data-column count; "shared" expects one leading distance
// column followed by intensity columns. The first row is a header and is
// skipped. nmPerPixel scales the raw pixel distances to nm.
func Load(path, layout string, nmPerPixel float64) (Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return Region{}, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ImageJ pads ragged columns
	rows, err := reader.ReadAll()
	if err != nil {
		return Region{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return Region{}, fmt.Errorf("%s: no data rows below the header", path)
	}

	cols := len(rows[0])
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var profiles []Profile
	switch layout {
	case "paired":
		if cols%2 != 0 {
			return Region{}, fmt.Errorf("%s: paired layout needs an even column count, got %d", path, cols)
		}
		for c := 0; c < cols; c += 2 {
			p := readPair(rows[1:], c, c+1, nmPerPixel)
			profiles = append(profiles, p)
		}
	case "shared":
		if cols < 2 {
			return Region{}, fmt.Errorf("%s: shared layout needs a distance column plus intensities, got %d columns", path, cols)
		}
		for c := 1; c < cols; c++ {
			p := readPair(rows[1:], 0, c, nmPerPixel)
			profiles = append(profiles, p)
		}
	default:
		return Region{}, fmt.Errorf("unknown CSV layout %q", layout)
	}

	for i, p := range profiles {
		if len(p.Distance) == 0 {
			return Region{}, fmt.Errorf("%s: profile %d is empty", path, i)
		}
	}

	return Region{Name: name, Profiles: profiles}, nil
}

// readPair collects the (distance, intensity) sequence from two columns.
// Rows where either cell is blank or unparseable are dropped as a pair, so
// the two sequences stay the same length when columns run short.
func readPair(rows [][]string, xcol, ycol int, nmPerPixel float64) Profile {
	var p Profile
	for _, row := range rows {
		if xcol >= len(row) || ycol >= len(row) {
			continue
		}
		xs := strings.TrimSpace(row[xcol])
		ys := strings.TrimSpace(row[ycol])
		if xs == "" || ys == "" {
			continue
		}
		x, errX := strconv.ParseFloat(xs, 64)
		y, errY := strconv.ParseFloat(ys, 64)
		if errX != nil || errY != nil {
			continue
		}
		p.Distance = append(p.Distance, x*nmPerPixel)
		p.Intensity = append(p.Intensity, y)
	}
	return p
}
