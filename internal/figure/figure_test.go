package figure

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"nanodomain-widths/internal/analysis"
	"nanodomain-widths/internal/config"
	"nanodomain-widths/internal/fit"
	"nanodomain-widths/internal/profile"
	"nanodomain-widths/internal/stats"
)

func testRegion(label string) analysis.Region {
	prof := profile.Profile{
		Distance:  []float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
		Intensity: []float64{200, 150, 100, 150, 200, 150, 100, 150, 200},
	}
	widths := []float64{60, 70, 73, 76, 80, 73}
	edges, counts := stats.Histogram(widths, 0, 160, 50)

	return analysis.Region{
		Name:     label,
		Label:    label,
		Profiles: []profile.Profile{prof, prof},
		Troughs:  [][]int{{2, 6}, {2, 6}},
		Widths:   widths,
		Edges:    edges,
		Counts:   counts,
		Fit:      fit.Result{Amp: 3, Center: 73, Width: 15, Offset: 0},
	}
}

func testMicrograph() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 120, 110))
	for y := 0; y < 110; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	return img
}

func testConfig(dir string) config.Config {
	cfg := config.Default()
	cfg.Dir = dir
	cfg.DPI = 96
	cfg.FigWidthInch = 4
	cfg.FigHeightInch = 2.2
	// Annotation coordinates scaled to the small test image.
	cfg.ScaleBar = config.ScaleBar{
		LengthNm: 25, NmPerPixel: 1, X: 5, Y: 100, Height: 4, LabelXOffs: 4,
	}
	cfg.BlackArrows = []config.Arrow{{X1: 60, Y1: 108, X2: 55, Y2: 95}}
	cfg.RedArrows = []config.Arrow{{X1: 80, Y1: 108, X2: 85, Y2: 95}}
	cfg.RegionLabels = []config.Label{{X: 30, Y: 10, Text: "Region 1"}, {X: 90, Y: 10, Text: "Region 2"}}
	return cfg
}

func TestRenderWritesBothFormats(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	regions := []analysis.Region{testRegion("Region 1"), testRegion("Region 2")}
	if err := Render(cfg, testMicrograph(), regions); err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, ext := range []string{".png", ".pdf"} {
		path := filepath.Join(dir, cfg.OutName+ext)
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing output %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}

	// The PNG must decode and honor the configured pixel dimensions.
	f, err := os.Open(filepath.Join(dir, cfg.OutName+".png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode rendered png: %v", err)
	}
	wantW := int(cfg.FigWidthInch * float64(cfg.DPI))
	if img.Bounds().Dx() != wantW {
		t.Fatalf("png width = %d, want %d", img.Bounds().Dx(), wantW)
	}
}

func TestLegendEntries(t *testing.T) {
	regions := []analysis.Region{testRegion("Region 1"), testRegion("Region 2")}

	got := legendEntries(regions)
	want := []string{"Region 1", "Region 2", "Fit"}
	if len(got) != len(want) {
		t.Fatalf("%d legend entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("legend entries = %v, want %v", got, want)
		}
	}
}

func TestRenderNoRegions(t *testing.T) {
	if err := Render(testConfig(t.TempDir()), testMicrograph(), nil); err == nil {
		t.Fatal("expected error with no regions")
	}
}

func TestLoadMicrograph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testMicrograph()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := LoadMicrograph(path, 0)
	if err != nil {
		t.Fatalf("LoadMicrograph: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 110 {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	// Median filtering keeps the geometry.
	filtered, err := LoadMicrograph(path, 3)
	if err != nil {
		t.Fatalf("LoadMicrograph median: %v", err)
	}
	if filtered.Bounds() != img.Bounds() {
		t.Fatalf("filtered bounds = %v, want %v", filtered.Bounds(), img.Bounds())
	}

	if _, err := LoadMicrograph(filepath.Join(dir, "missing.png"), 0); err == nil {
		t.Fatal("expected error on missing image")
	}
}
