package figure

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// LoadMicrograph reads the calibration image. medianWindowPx > 0 applies a
// median filter of that window before display, reproducing the filtered
// image the line profiles were originally drawn on.
func LoadMicrograph(path string, medianWindowPx int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load micrograph %s: %w", path, err)
	}
	if medianWindowPx > 0 {
		img = effect.Median(img, float64(medianWindowPx))
	}
	return img, nil
}
