// Package peaks finds intensity troughs in line profiles. A trough is a
// local maximum of the negated sequence; detection enforces a minimum
// horizontal separation and an optional minimum prominence, matching the
// usual signal-processing conventions for peak picking.
package peaks

import "sort"

// Params controls trough detection.
type Params struct {
	// MinSeparation is the smallest allowed index distance between two
	// detected troughs. When two candidates sit closer than this, the
	// deeper one wins. Values below 1 are treated as 1.
	MinSeparation int
	// MinProminence is the smallest vertical drop (in intensity units) a
	// trough needs relative to its surroundings. 0 disables the check.
	MinProminence float64
}

// Troughs returns the indices of detected local minima of intensity, in
// increasing order. Plateaus count once, at their first sample. Sequences
// shorter than 3 samples have no interior extrema and return nil.
func Troughs(intensity []float64, p Params) []int {
	if len(intensity) < 3 {
		return nil
	}
	if p.MinSeparation < 1 {
		p.MinSeparation = 1
	}

	// Work on the negated signal so troughs become peaks.
	y := make([]float64, len(intensity))
	for i, v := range intensity {
		y[i] = -v
	}

	cand := localMaxima(y)

	if p.MinProminence > 0 {
		kept := cand[:0]
		for _, i := range cand {
			if prominence(y, i) >= p.MinProminence {
				kept = append(kept, i)
			}
		}
		cand = kept
	}

	return enforceSeparation(y, cand, p.MinSeparation)
}

// localMaxima scans for strict rises followed by strict falls. A flat run
// after a rise is one plateau peak anchored at its first sample.
func localMaxima(y []float64) []int {
	var idx []int
	for i := 1; i < len(y)-1; {
		if y[i] <= y[i-1] {
			i++
			continue
		}
		// y[i] > y[i-1]: walk the plateau, if any.
		j := i
		for j < len(y)-1 && y[j+1] == y[i] {
			j++
		}
		if j < len(y)-1 && y[j+1] < y[i] {
			idx = append(idx, i)
		}
		i = j + 1
	}
	return idx
}

// prominence is the height of peak i above the higher of the two reference
// levels found by walking outward to the next higher terrain (or the signal
// edge), taking the minimum sample seen on each side.
func prominence(y []float64, i int) float64 {
	left := y[i]
	for j := i - 1; j >= 0; j-- {
		if y[j] > y[i] {
			break
		}
		if y[j] < left {
			left = y[j]
		}
	}
	right := y[i]
	for j := i + 1; j < len(y); j++ {
		if y[j] > y[i] {
			break
		}
		if y[j] < right {
			right = y[j]
		}
	}
	base := left
	if right > base {
		base = right
	}
	return y[i] - base
}

// enforceSeparation keeps the highest peaks first and discards any candidate
// within minSep samples of an already kept one.
func enforceSeparation(y []float64, cand []int, minSep int) []int {
	if len(cand) == 0 {
		return nil
	}

	order := make([]int, len(cand))
	copy(order, cand)
	sort.SliceStable(order, func(a, b int) bool { return y[order[a]] > y[order[b]] })

	keep := make([]bool, len(y))
	var kept []int
	for _, i := range order {
		ok := true
		for _, k := range kept {
			d := i - k
			if d < 0 {
				d = -d
			}
			if d < minSep {
				ok = false
				break
			}
		}
		if ok {
			keep[i] = true
			kept = append(kept, i)
		}
	}

	var out []int
	for _, i := range cand {
		if keep[i] {
			out = append(out, i)
		}
	}
	return out
}
