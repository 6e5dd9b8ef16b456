package seamcarver

import (
	"fmt"
	"image"
	"math"
)

// EnergyMap holds the energy value of every image pixel, indexed as [y][x].
type EnergyMap [][]float64

// Width returns the number of columns of the energy map.
func (em EnergyMap) Width() int {
	if len(em) == 0 {
		return 0
	}
	return len(em[0])
}

// Height returns the number of rows of the energy map.
func (em EnergyMap) Height() int {
	return len(em)
}

// BuildEnergyMap computes the energy of every pixel of the image
// from the color gradient between the pixel and its horizontal neighbors.
//
// The energy of a pixel is the square root of the summed squared RGB differences
// against its left and right neighbors. The last column has no right neighbor,
// and the first column of each row is never visited, so its energy stays zero.
func BuildEnergyMap(img *image.NRGBA) (EnergyMap, error) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	em := make(EnergyMap, height)
	for y := 0; y < height; y++ {
		em[y] = make([]float64, width)

		for x := 1; x < width; x++ {
			middle := pixelOffset(img, x, y)
			sum := colorDistance(img.Pix, pixelOffset(img, x-1, y), middle)
			if x < width-1 {
				sum += colorDistance(img.Pix, pixelOffset(img, x+1, y), middle)
			}
			em[y][x] = math.Sqrt(float64(sum))
		}
	}
	return em, nil
}

// colorDistance returns the sum of the squared differences of the R, G, B channels
// of the two pixels found at offsets i and j in the pixel buffer.
func colorDistance(pix []uint8, i, j int) int32 {
	dr := int32(pix[i]) - int32(pix[j])
	dg := int32(pix[i+1]) - int32(pix[j+1])
	db := int32(pix[i+2]) - int32(pix[j+2])

	return dr*dr + dg*dg + db*db
}

// pixelOffset returns the index of the first byte of the (x, y) pixel,
// relative to the image origin.
func pixelOffset(img *image.NRGBA, x, y int) int {
	return y*img.Stride + x*4
}
