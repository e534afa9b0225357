// Package colormap samples tint colors from a 256x256 reference image.
package colormap

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/tileatlas/internal/texture"
)

// Size is the required side length of a color map image.
const Size = 256

// SizeError reports a color map source with the wrong dimensions.
type SizeError struct {
	Source string
	Width  int
	Height int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("color map expected %dx%d, found %dx%d in '%s'",
		Size, Size, e.Width, e.Height, e.Source)
}

// ColorMap is an immutable 256x256 color lookup table.
type ColorMap struct {
	image *image.NRGBA
}

// Load decodes the color map at path with dec, or with the file decoder
// when dec is nil.
func Load(path string, dec texture.Decoder) (*ColorMap, error) {
	if dec == nil {
		dec = texture.FileDecoder{}
	}
	img, err := dec.Decode(path)
	if err != nil {
		return nil, err
	}
	return New(img, path)
}

// New wraps an already decoded image. source labels errors.
func New(img *image.NRGBA, source string) (*ColorMap, error) {
	b := img.Rect
	if b.Dx() != Size || b.Dy() != Size {
		return nil, &SizeError{Source: source, Width: b.Dx(), Height: b.Dy()}
	}
	if b.Min != (image.Point{}) {
		rebased := image.NewNRGBA(image.Rect(0, 0, Size, Size))
		texture.Blit(rebased, image.Point{}, img, b)
		img = rebased
	}
	return &ColorMap{image: img}, nil
}

// Sample returns the RGB color for (u, v). Both inputs are clamped to
// [0, 1] and v is scaled by u, so only the triangle below the diagonal is
// reachable. The origin is the bottom-right corner of the image.
func (m *ColorMap) Sample(u, v float32) [3]uint8 {
	u = clamp01(u)
	v = clamp01(v)
	v *= u

	px := int((1 - u) * (Size - 1))
	py := int((1 - v) * (Size - 1))

	i := m.image.PixOffset(px, py)
	p := m.image.Pix[i : i+3 : i+3]
	return [3]uint8{p[0], p[1], p[2]}
}

// SampleColor is Sample returning an opaque color.
func (m *ColorMap) SampleColor(u, v float32) color.NRGBA {
	c := m.Sample(u, v)
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

func clamp01(x float32) float32 {
	// NaN compares false everywhere and falls through to 0.
	if x >= 1 {
		return 1
	}
	if x > 0 {
		return x
	}
	return 0
}
