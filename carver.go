package seamcarver

import (
	"fmt"
	"image"
	"math"

	"github.com/esimov/seamcarver/utils"
)

// Point is the (x, y) location of a pixel.
type Point struct {
	X int
	Y int
}

// Seam is a vertically connected path of pixels, one per image row.
// The entry at index y holds the pixel removed from row y.
type Seam []Point

// Connected reports whether the seam has exactly one pixel per row
// and moves at most one column between consecutive rows.
func (s Seam) Connected() bool {
	for y, p := range s {
		if p.Y != y {
			return false
		}
		if y > 0 && utils.Abs(p.X-s[y-1].X) > 1 {
			return false
		}
	}
	return true
}

// SeamCell is an entry of the dynamic programming table. It holds the minimum
// cumulative energy of a path reaching Location from the top row and the
// location it was reached from.
type SeamCell struct {
	Energy   float64
	Location Point
	Prev     Point
	HasPrev  bool
}

// Carver holds the dynamic programming table used to find the lowest energy seam.
type Carver struct {
	Width  int
	Height int
	Cells  []SeamCell
}

// NewCarver returns an initialized Carver structure.
func NewCarver(width, height int) *Carver {
	return &Carver{
		Width:  width,
		Height: height,
		Cells:  make([]SeamCell, width*height),
	}
}

// get returns the cell at (x, y).
func (c *Carver) get(x, y int) SeamCell {
	return c.Cells[x+y*c.Width]
}

// set stores the cell at (x, y).
func (c *Carver) set(x, y int, cell SeamCell) {
	c.Cells[x+y*c.Width] = cell
}

// ComputeSeams fills up the cumulative energy table based on the following logic:
//   - the first row takes over the pixel energies;
//   - every other cell adds its own energy to the smallest cumulative energy
//     found among its upper neighbors, and remembers which one it was.
//
// A row is computed only after the row above it is complete.
func (c *Carver) ComputeSeams(em EnergyMap) error {
	if em.Height() == 0 || em.Width() == 0 {
		return ErrEmptyEnergyMap
	}
	if em.Width() != c.Width || em.Height() != c.Height {
		return fmt.Errorf("%w: energy map is %dx%d, carver is %dx%d",
			ErrInvalidDimensions, em.Width(), em.Height(), c.Width, c.Height,
		)
	}

	for x := 0; x < c.Width; x++ {
		c.set(x, 0, SeamCell{
			Energy:   em[0][x],
			Location: Point{X: x, Y: 0},
		})
	}

	for y := 1; y < c.Height; y++ {
		if len(em[y]) != c.Width {
			return fmt.Errorf("%w: row %d has %d columns, expected %d",
				ErrInvalidDimensions, y, len(em[y]), c.Width,
			)
		}
		for x := 0; x < c.Width; x++ {
			px, min := c.lowestPredecessor(x, y)
			c.set(x, y, SeamCell{
				Energy:   min + em[y][x],
				Location: Point{X: x, Y: y},
				Prev:     Point{X: px, Y: y - 1},
				HasPrev:  true,
			})
		}
	}
	return nil
}

// lowestPredecessor scans the upper neighbors of (x, y) from left to right and
// returns the column with the strictly smallest cumulative energy, so that the
// leftmost one wins on ties. The leftmost column only looks straight up.
func (c *Carver) lowestPredecessor(x, y int) (int, float64) {
	var (
		min = math.Inf(1)
		px  = x
	)

	lo, hi := 0, 0
	if x > 0 {
		lo, hi = x-1, utils.Min(x+1, c.Width-1)
	}
	for i := lo; i <= hi; i++ {
		if e := c.get(i, y-1).Energy; e < min {
			min, px = e, i
		}
	}
	return px, min
}

// FindLowestEnergySeam returns the vertical seam with the lowest cumulative energy.
// ComputeSeams must be called first.
func (c *Carver) FindLowestEnergySeam() Seam {
	var (
		min = math.Inf(1)
		px  int
	)

	// Find the tail of the lowest seam on the bottom row.
	for x := 0; x < c.Width; x++ {
		if e := c.get(x, c.Height-1).Energy; e < min {
			min, px = e, x
		}
	}

	// Walk up in the table following the predecessors.
	seam := make(Seam, c.Height)
	cell := c.get(px, c.Height-1)
	for {
		seam[cell.Location.Y] = cell.Location
		if !cell.HasPrev {
			break
		}
		cell = c.get(cell.Prev.X, cell.Prev.Y)
	}
	return seam
}

// FindLowEnergySeam runs the seam search over the energy map
// and returns the lowest energy vertical seam.
func FindLowEnergySeam(em EnergyMap) (Seam, error) {
	c := NewCarver(em.Width(), em.Height())
	if err := c.ComputeSeams(em); err != nil {
		return nil, err
	}
	return c.FindLowestEnergySeam(), nil
}

// RemoveSeam returns a new image, one column narrower than the source,
// holding every pixel except the ones covered by the seam.
// The source image is left untouched.
func RemoveSeam(img *image.NRGBA, seam Seam) (*image.NRGBA, error) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	if len(seam) != height {
		return nil, fmt.Errorf("%w: seam has %d pixels, image has %d rows",
			ErrSeamRowMismatch, len(seam), height,
		)
	}
	for y, p := range seam {
		if p.Y != y {
			return nil, fmt.Errorf("%w: seam entry %d points to row %d", ErrSeamRowMismatch, y, p.Y)
		}
		if p.X < 0 || p.X >= width {
			return nil, fmt.Errorf("%w: column %d on row %d, image width %d",
				ErrSeamOutOfBounds, p.X, y, width,
			)
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width-1, height))
	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width*4]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+(width-1)*4]

		sx := seam[y].X * 4
		copy(row[:sx], src[:sx])
		copy(row[sx:], src[sx+4:])
	}
	return dst, nil
}
