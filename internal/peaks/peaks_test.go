package peaks

import (
	"reflect"
	"testing"
)

// flat builds a constant-intensity sequence of length n.
func flat(n int, level float64) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = level
	}
	return y
}

// dip carves a V-shaped trough of the given depth centered at c.
func dip(y []float64, c int, depth float64) {
	y[c-1] -= depth / 2
	y[c] -= depth
	y[c+1] -= depth / 2
}

func TestTroughsFindsKnownPositions(t *testing.T) {
	y := flat(61, 200)
	dip(y, 10, 100)
	dip(y, 30, 100)
	dip(y, 50, 100)

	got := Troughs(y, Params{MinSeparation: 5})
	want := []int{10, 30, 50}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Troughs = %v, want %v", got, want)
	}
}

func TestTroughsMinSeparationKeepsDeeper(t *testing.T) {
	y := flat(40, 200)
	dip(y, 10, 80)
	dip(y, 13, 120) // deeper and within the exclusion distance

	got := Troughs(y, Params{MinSeparation: 5})
	want := []int{13}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Troughs = %v, want %v", got, want)
	}
}

func TestTroughsSeparationBoundary(t *testing.T) {
	// Exactly MinSeparation apart: both survive.
	y := flat(40, 200)
	dip(y, 10, 100)
	dip(y, 15, 100)

	got := Troughs(y, Params{MinSeparation: 5})
	want := []int{10, 15}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Troughs = %v, want %v", got, want)
	}
}

func TestTroughsPlateauFirstSample(t *testing.T) {
	y := flat(30, 200)
	y[9] = 150
	y[10] = 100
	y[11] = 100
	y[12] = 100
	y[13] = 150

	got := Troughs(y, Params{MinSeparation: 1})
	want := []int{10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Troughs = %v, want %v", got, want)
	}
}

func TestTroughsProminenceFilter(t *testing.T) {
	y := flat(40, 200)
	dip(y, 10, 100) // prominent
	dip(y, 25, 6)   // shallow ripple

	got := Troughs(y, Params{MinSeparation: 3, MinProminence: 10})
	want := []int{10}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Troughs = %v, want %v", got, want)
	}

	// Prominence 0 disables the check and keeps the ripple.
	got = Troughs(y, Params{MinSeparation: 3})
	want = []int{10, 25}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Troughs (prominence off) = %v, want %v", got, want)
	}
}

func TestTroughsDegenerateInputs(t *testing.T) {
	if got := Troughs(nil, Params{}); got != nil {
		t.Fatalf("Troughs(nil) = %v, want nil", got)
	}
	if got := Troughs([]float64{1, 2}, Params{}); got != nil {
		t.Fatalf("Troughs(short) = %v, want nil", got)
	}
	if got := Troughs(flat(20, 100), Params{}); got != nil {
		t.Fatalf("Troughs(flat) = %v, want nil", got)
	}
}
