package seamcarver

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/disintegration/imaging"
)

// SeamTracker keeps, for every row of the source image, the source column of each
// pixel still present in the carved image. It translates the seams removed from
// the successively narrower images back to source image coordinates.
type SeamTracker struct {
	columns [][]int
	removed []Seam
}

// NewSeamTracker returns a tracker for a source image of the given size.
func NewSeamTracker(width, height int) *SeamTracker {
	columns := make([][]int, height)
	for y := range columns {
		columns[y] = make([]int, width)
		for x := range columns[y] {
			columns[y][x] = x
		}
	}
	return &SeamTracker{columns: columns}
}

// Track records a seam removed from the current image and returns it
// expressed in source image coordinates.
func (t *SeamTracker) Track(seam Seam) (Seam, error) {
	if len(seam) != len(t.columns) {
		return nil, fmt.Errorf("%w: seam has %d pixels, tracker has %d rows",
			ErrSeamRowMismatch, len(seam), len(t.columns),
		)
	}

	for y, p := range seam {
		if p.X < 0 || p.X >= len(t.columns[y]) {
			return nil, fmt.Errorf("%w: column %d on row %d", ErrSeamOutOfBounds, p.X, y)
		}
	}

	orig := make(Seam, len(seam))
	for y, p := range seam {
		row := t.columns[y]
		orig[y] = Point{X: row[p.X], Y: y}
		t.columns[y] = slices.Delete(row, p.X, p.X+1)
	}
	t.removed = append(t.removed, orig)

	return orig, nil
}

// Seams returns the removed seams in source image coordinates, in removal order.
func (t *SeamTracker) Seams() []Seam {
	return t.removed
}

// Overlay returns a copy of the source image with every removed pixel painted in col.
func (t *SeamTracker) Overlay(src *image.NRGBA, col color.NRGBA) *image.NRGBA {
	dst := imaging.Clone(src)
	for _, seam := range t.removed {
		for _, p := range seam {
			dst.SetNRGBA(p.X, p.Y, col)
		}
	}
	return dst
}
