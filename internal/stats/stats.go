// Package stats derives the width distribution: domain widths from trough
// positions, interquartile-range outlier fences, and fixed-range histogram
// binning.
package stats

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewWidths is returned when a region yields fewer than the four
// samples the quartile fences need.
var ErrTooFewWidths = errors.New("fewer than 4 widths, cannot compute quartile fences")

// Widths converts a profile's trough indices into consecutive domain widths
// in sample units (one sample per exported pixel). The histogram range and
// fit seed are calibrated to these units, so the widths are deliberately not
// rescaled by the distance axis. Fewer than two troughs produce no widths.
// Trough indices must be strictly increasing, as the detector emits them.
func Widths(troughs []int) []float64 {
	if len(troughs) < 2 {
		return nil
	}
	w := make([]float64, 0, len(troughs)-1)
	for i := 1; i < len(troughs); i++ {
		w = append(w, float64(troughs[i]-troughs[i-1]))
	}
	return w
}

// Bounds are the closed outlier fences for one region.
type Bounds struct {
	Lower float64
	Upper float64
}

// FilterOutliers applies the 1.5×IQR rule: values outside
// [Q1−1.5·IQR, Q3+1.5·IQR] are dropped. The fences are computed per call,
// i.e. per region. Fewer than 4 samples is an error; a zero IQR collapses
// the fences onto the common value and passes identical inputs through.
func FilterOutliers(widths []float64) ([]float64, Bounds, error) {
	if len(widths) < 4 {
		return nil, Bounds{}, fmt.Errorf("%w (got %d)", ErrTooFewWidths, len(widths))
	}

	sorted := make([]float64, len(widths))
	copy(sorted, widths)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1
	b := Bounds{Lower: q1 - 1.5*iqr, Upper: q3 + 1.5*iqr}

	kept := make([]float64, 0, len(widths))
	for _, w := range widths {
		if w >= b.Lower && w <= b.Upper {
			kept = append(kept, w)
		}
	}
	return kept, b, nil
}

// Histogram bins values over [min, max) into edges-1 equal-width bins and
// returns the edge positions (length edges) and per-bin counts (length
// edges-1). The final bin is closed on the right so a value equal to max is
// counted, matching the usual linspace-edge convention. Binning is
// deterministic: identical input yields identical counts.
func Histogram(values []float64, min, max float64, edges int) ([]float64, []float64) {
	e := floats.Span(make([]float64, edges), min, max)
	counts := make([]float64, edges-1)
	width := (max - min) / float64(edges-1)

	for _, v := range values {
		if v < min || v > max {
			continue
		}
		i := int((v - min) / width)
		if i >= len(counts) { // v == max lands in the last bin
			i = len(counts) - 1
		}
		counts[i]++
	}
	return e, counts
}
