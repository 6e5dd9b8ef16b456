package seamcarver

import "errors"

// Errors returned by the seam carving core.
var (
	ErrInvalidDimensions = errors.New("image has zero width or height")
	ErrEmptyEnergyMap    = errors.New("energy map is empty")
	ErrSeamRowMismatch   = errors.New("seam does not cover every image row exactly once")
	ErrSeamOutOfBounds   = errors.New("seam column is out of the image bounds")
	ErrInvalidTrimWidth  = errors.New("trim width should be less than the image width")
)

// Errors returned by the image codec and file handling layer.
var (
	ErrOpenSource        = errors.New("unable to open the source image")
	ErrCreateDestination = errors.New("unable to create the destination file")
	ErrDecode            = errors.New("unable to decode the source image")
	ErrEncode            = errors.New("unable to encode the resized image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
