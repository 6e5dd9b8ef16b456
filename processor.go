package seamcarver

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/esimov/seamcarver/utils"
)

// DefaultSeamColor is the color used to mark the removed seams in debug mode.
const DefaultSeamColor = "#ff0000"

// SeamCarver is the interface implemented by the types able to narrow an image.
type SeamCarver interface {
	Resize(*image.NRGBA) (*image.NRGBA, error)
}

var _ SeamCarver = (*Processor)(nil)

// Processor options
type Processor struct {
	// TrimWidth is the number of columns to remove,
	// or a percentage of the image width when Percentage is set.
	TrimWidth  int
	SeamColor  string
	Percentage bool
	Debug      bool

	source  *image.NRGBA
	tracker *SeamTracker
}

// Resize narrows the image by removing p.TrimWidth low energy vertical seams.
// The energy map and the seam are recomputed from the current image on every iteration.
func (p *Processor) Resize(img *image.NRGBA) (*image.NRGBA, error) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	trimWidth := p.TrimWidth
	if p.Percentage {
		trimWidth = int(float64(width) * float64(p.TrimWidth) / 100)
	}
	if trimWidth < 0 || trimWidth >= width {
		return nil, fmt.Errorf("%w: cannot remove %d columns from a %dpx wide image",
			ErrInvalidTrimWidth, trimWidth, width,
		)
	}

	p.source, p.tracker = nil, nil
	if p.Debug {
		p.source = img
		p.tracker = NewSeamTracker(width, height)
	}

	res := imaging.Clone(img)
	for i := 0; i < trimWidth; i++ {
		em, err := BuildEnergyMap(res)
		if err != nil {
			return nil, fmt.Errorf("seam %d: %w", i, err)
		}
		seam, err := FindLowEnergySeam(em)
		if err != nil {
			return nil, fmt.Errorf("seam %d: %w", i, err)
		}
		if p.tracker != nil {
			if _, err := p.tracker.Track(seam); err != nil {
				return nil, fmt.Errorf("seam %d: %w", i, err)
			}
		}
		if res, err = RemoveSeam(res, seam); err != nil {
			return nil, fmt.Errorf("seam %d: %w", i, err)
		}
	}
	return res, nil
}

// RemovedSeams returns the seams removed by the last Resize call, in source image
// coordinates. It returns nil unless the Debug option was enabled.
func (p *Processor) RemovedSeams() []Seam {
	if p.tracker == nil {
		return nil
	}
	return p.tracker.Seams()
}

// DebugImage returns the source image of the last Resize call
// with the removed seams painted in p.SeamColor.
func (p *Processor) DebugImage() (*image.NRGBA, error) {
	if p.tracker == nil {
		return nil, errors.New("the debug option should be enabled before resizing the image")
	}

	hex := p.SeamColor
	if hex == "" {
		hex = DefaultSeamColor
	}
	col, err := utils.HexToRGBA(hex)
	if err != nil {
		return nil, err
	}
	return p.tracker.Overlay(p.source, col), nil
}

// Process decodes the source image, narrows it and encodes the result into w.
// Files are encoded according to their extension, any other writer receives a JPEG.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	img, err := decodeImg(r)
	if err != nil {
		return err
	}

	res, err := Carve(p, img)
	if err != nil {
		return err
	}
	return encodeImg(w, res)
}

// Carve converts the image to *image.NRGBA and narrows it with the provided carver.
func Carve(s SeamCarver, img image.Image) (*image.NRGBA, error) {
	return s.Resize(imgToNRGBA(img))
}

// Resize removes trimWidth vertical seams from the image.
// It fails with ErrInvalidTrimWidth unless 0 <= trimWidth < image width.
func Resize(img *image.NRGBA, trimWidth int) (*image.NRGBA, error) {
	p := &Processor{TrimWidth: trimWidth}
	return p.Resize(img)
}
