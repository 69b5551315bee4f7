package profile

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPaired(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "profiledata1.csv",
		"X0,Y0,X1,Y1\n"+
			"0,100,0,110\n"+
			"1,90,1,95\n"+
			"2,100,2,112\n")

	reg, err := Load(path, "paired", 0.25)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg.Name != "profiledata1" {
		t.Errorf("Name = %q, want profiledata1", reg.Name)
	}
	if len(reg.Profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(reg.Profiles))
	}

	for i, p := range reg.Profiles {
		if len(p.Distance) != len(p.Intensity) {
			t.Fatalf("profile %d: distance %d vs intensity %d samples", i, len(p.Distance), len(p.Intensity))
		}
		if len(p.Distance) != 3 {
			t.Fatalf("profile %d: got %d samples, want 3", i, len(p.Distance))
		}
	}

	// Distances are raw pixels times the scale constant.
	want := []float64{0, 0.25, 0.5}
	for i, d := range reg.Profiles[0].Distance {
		if math.Abs(d-want[i]) > 1e-12 {
			t.Fatalf("Distance[%d] = %v, want %v", i, d, want[i])
		}
	}
	if reg.Profiles[1].Intensity[2] != 112 {
		t.Fatalf("Intensity = %v, want 112", reg.Profiles[1].Intensity[2])
	}
}

func TestLoadPairedRejectsOddColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "bad.csv", "X0,Y0,X1\n0,1,2\n")

	if _, err := Load(path, "paired", 1); err == nil {
		t.Fatal("expected error on odd column count")
	}
}

func TestLoadShared(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "shared.csv",
		"X,Y0,Y1\n"+
			"0,100,200\n"+
			"2,90,210\n")

	reg, err := Load(path, "shared", 0.5)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reg.Profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(reg.Profiles))
	}
	for _, p := range reg.Profiles {
		if p.Distance[1] != 1.0 { // 2 px * 0.5 nm/px
			t.Fatalf("Distance[1] = %v, want 1.0", p.Distance[1])
		}
	}
	if reg.Profiles[1].Intensity[1] != 210 {
		t.Fatalf("Intensity = %v, want 210", reg.Profiles[1].Intensity[1])
	}
}

func TestLoadRaggedColumnsStayPaired(t *testing.T) {
	// Shorter profiles are padded with blanks by ImageJ; the pair is
	// dropped together so the sequences stay equal length.
	dir := t.TempDir()
	path := writeCSV(t, dir, "ragged.csv",
		"X0,Y0,X1,Y1\n"+
			"0,100,0,100\n"+
			"1,90,1,95\n"+
			"2,100,,\n")

	reg, err := Load(path, "paired", 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reg.Profiles[0].Distance) != 3 {
		t.Fatalf("profile 0: %d samples, want 3", len(reg.Profiles[0].Distance))
	}
	if len(reg.Profiles[1].Distance) != 2 {
		t.Fatalf("profile 1: %d samples, want 2", len(reg.Profiles[1].Distance))
	}
	if len(reg.Profiles[1].Distance) != len(reg.Profiles[1].Intensity) {
		t.Fatal("ragged profile has unequal sequences")
	}
}

func TestLoadUnknownLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "x.csv", "X,Y\n0,1\n")
	if _, err := Load(path, "interleaved", 1); err == nil {
		t.Fatal("expected error on unknown layout")
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "profiledata2.csv", "X,Y\n0,1\n")
	writeCSV(t, dir, "profiledata1.csv", "X,Y\n0,1\n")
	writeCSV(t, dir, "other.csv", "X,Y\n0,1\n")

	paths, err := Find(dir, "profiledata*.csv")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	if filepath.Base(paths[0]) != "profiledata1.csv" {
		t.Fatalf("paths not sorted: %v", paths)
	}

	if _, err := Find(dir, "missing*.csv"); err == nil {
		t.Fatal("expected error when nothing matches")
	}
}

func TestSpacing(t *testing.T) {
	p := Profile{Distance: []float64{0, 0.5, 1.0, 1.5}}
	if got := p.Spacing(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("Spacing = %v, want 0.5", got)
	}
	if got := (Profile{}).Spacing(); got != 0 {
		t.Fatalf("empty Spacing = %v, want 0", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "paired", 1)
	if err == nil {
		t.Fatal("expected error on missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want wrapped fs.ErrNotExist", err)
	}
}
