// Package export writes per-region histogram data to CSV for downstream
// replotting. Off by default; enabled via config or the export-hist command.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"nanodomain-widths/internal/analysis"
)

// HistCSV writes one file per region, RealSpaceMethodHist_<i>.csv, holding
// bin left edges and counts under a "Bins, counts" header.
func HistCSV(dir string, regions []analysis.Region) error {
	for i, reg := range regions {
		path := filepath.Join(dir, fmt.Sprintf("RealSpaceMethodHist_%d.csv", i))
		if err := writeOne(path, reg); err != nil {
			return fmt.Errorf("export %s: %w", path, err)
		}
	}
	return nil
}

func writeOne(path string, reg analysis.Region) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	rows := [][]string{{"Bins", "counts"}}
	for i, c := range reg.Counts {
		rows = append(rows, []string{
			fmt.Sprintf("%9f", reg.Edges[i]),
			fmt.Sprintf("%9f", c),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
