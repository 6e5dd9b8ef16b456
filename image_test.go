package seamcarver

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/seamcarver/utils"
	"github.com/stretchr/testify/assert"
)

func TestImage_ImgToNRGBA(t *testing.T) {
	rect := image.Rect(-1, -1, 15, 15)
	colors := palette.Plan9
	testCases := []struct {
		name string
		img  image.Image
	}{
		{
			name: "NRGBA",
			img:  makeNRGBAImage(rect, colors),
		},
		{
			name: "YCbCr-444",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio444),
		},
		{
			name: "YCbCr-422",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio422),
		},
		{
			name: "YCbCr-420",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio420),
		},
		{
			name: "YCbCr-440",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio440),
		},
		{
			name: "YCbCr-410",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio410),
		},
		{
			name: "YCbCr-411",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio411),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.img.Bounds()
			dst := imgToNRGBA(tc.img)
			if dst.Bounds() != image.Rect(0, 0, r.Dx(), r.Dy()) {
				t.Fatalf("converted image bounds: got %v want %v", dst.Bounds(), r.Sub(r.Min))
			}
			for y := r.Min.Y; y < r.Max.Y; y++ {
				off := (y - r.Min.Y) * dst.Stride
				buf := dst.Pix[off : off+r.Dx()*4]
				wantBuf := readRow(tc.img, y)
				if !compareBytes(buf, wantBuf, 1) {
					t.Errorf("convert horizontal line (y=%d): got %v want %v", y, buf, wantBuf)
				}
			}
		})
	}

	img := makeNRGBAImage(image.Rect(0, 0, 4, 4), colors)
	if imgToNRGBA(img) != img {
		t.Errorf("an NRGBA image with zero min-point should be returned as is")
	}
}

func TestImage_EncodeDecode(t *testing.T) {
	src := randomImage(7, 5, 12)

	for _, ext := range []string{".png", ".bmp", ".gif", ".jpg", ".jpeg", ""} {
		t.Run("ext"+ext, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, encodeWithExt(&buf, ext, src))

			img, err := decodeImg(&buf)
			assert.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}

	// Lossless formats keep the pixels unchanged.
	for _, ext := range []string{".png", ".bmp"} {
		var buf bytes.Buffer
		assert.NoError(t, encodeWithExt(&buf, ext, src))

		img, err := decodeImg(&buf)
		assert.NoError(t, err)
		assert.Equal(t, src.Pix, img.Pix, ext)
	}
}

func TestImage_EncodeFileByExtension(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.PNG")
	f, err := os.Create(name)
	if err != nil {
		t.Fatalf("could not create the output file: %v", err)
	}
	assert.NoError(t, encodeImg(f, randomImage(3, 3, 13)))
	assert.NoError(t, f.Close())

	ctype, err := utils.DetectContentType(name)
	assert.NoError(t, err)
	assert.Equal(t, "image/png", ctype)
}

func TestImage_ShouldRejectUnsupportedFormat(t *testing.T) {
	err := encodeWithExt(&bytes.Buffer{}, ".webp", randomImage(2, 2, 14))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = decodeImg(bytes.NewReader([]byte("GIF89a but truncated")))
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestImage_IsValidExtension(t *testing.T) {
	for _, ext := range []string{".jpg", ".JPEG", ".png", ".bmp", ".gif"} {
		assert.True(t, isValidExtension(ext), ext)
	}
	for _, ext := range []string{"", ".webp", ".txt", "png"} {
		assert.False(t, isValidExtension(ext), ext)
	}
}

func makeYCbCrImage(rect image.Rectangle, colors []color.Color, sr image.YCbCrSubsampleRatio) *image.YCbCr {
	img := image.NewYCbCr(rect, sr)
	j := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			iy := img.YOffset(x, y)
			ic := img.COffset(x, y)
			c := color.NRGBAModel.Convert(colors[j]).(color.NRGBA)
			img.Y[iy], img.Cb[ic], img.Cr[ic] = color.RGBToYCbCr(c.R, c.G, c.B)
			j++
		}
	}
	return img
}

func makeNRGBAImage(rect image.Rectangle, colors []color.Color) *image.NRGBA {
	img := image.NewNRGBA(rect)
	fillDrawImage(img, colors)
	return img
}

func fillDrawImage(img draw.Image, colors []color.Color) {
	colorsNRGBA := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		nrgba.A = uint8(i % 256)
		colorsNRGBA[i] = nrgba
	}
	rect := img.Bounds()
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, colorsNRGBA[i])
			i++
		}
	}
}

func readRow(img image.Image, y int) []uint8 {
	row := make([]byte, img.Bounds().Dx()*4)
	i := 0
	for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		row[i+0] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
		i += 4
	}
	return row
}

func compareBytes(a, b []uint8, delta int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if utils.Abs(int(a[i])-int(b[i])) > delta {
			return false
		}
	}
	return true
}
