/*
Package enhance implements the perceptual color transform applied to every
frame before it is sent to the LED matrix.

Each pixel passes through four stages in a fixed order:

	gamma correction -> contrast -> saturation -> minimum brightness

Arithmetic is done in floating point and every stage rounds to the nearest
integer and clamps to [0, 255] before handing the pixel to the next stage.
Applying the transform twice compounds the gamma and contrast stages, so it
is not idempotent.
*/
package enhance

import (
	"errors"
	"fmt"
	"math"

	"github.com/bodgit/ledframe/frame"
)

var errBadParams = errors.New("enhance: invalid parameters")

// Params holds the enhancement settings. It is a value type and is not
// modified by the enhancer.
type Params struct {
	// Gamma is the display gamma compensated for; channels are raised to
	// the power 1/Gamma.
	Gamma float64
	// Contrast scales each channel's distance from mid-gray.
	Contrast float64
	// Saturation scales each channel's distance from the pixel average.
	Saturation float64
	// SaturationThreshold is the saturation a pixel must exceed before
	// it is boosted, so near-gray pixels are left alone.
	SaturationThreshold float64
	// MinBrightness is the level the brightest channel of a very dark
	// pixel is raised to.
	MinBrightness int
}

// DefaultParams are tuned for a typical RGB LED matrix.
var DefaultParams = Params{
	Gamma:               2.2,
	Contrast:            1.3,
	Saturation:          1.3,
	SaturationThreshold: 0.1,
	MinBrightness:       8,
}

// Validate checks the parameters are usable.
func (p Params) Validate() error {
	switch {
	case !(p.Gamma > 0) || math.IsInf(p.Gamma, 0):
		return fmt.Errorf("%w: gamma %v", errBadParams, p.Gamma)
	case p.Contrast < 0 || math.IsNaN(p.Contrast) || math.IsInf(p.Contrast, 0):
		return fmt.Errorf("%w: contrast %v", errBadParams, p.Contrast)
	case p.Saturation < 0 || math.IsNaN(p.Saturation) || math.IsInf(p.Saturation, 0):
		return fmt.Errorf("%w: saturation %v", errBadParams, p.Saturation)
	case math.IsNaN(p.SaturationThreshold):
		return fmt.Errorf("%w: saturation threshold %v", errBadParams, p.SaturationThreshold)
	case p.MinBrightness < 0 || p.MinBrightness > 0xff:
		return fmt.Errorf("%w: minimum brightness %d", errBadParams, p.MinBrightness)
	}
	return nil
}

// Enhancer applies a fixed set of Params. It is safe for concurrent use.
type Enhancer struct {
	params Params
	gamma  [256]uint8
}

// New returns an Enhancer for p.
func New(p Params) (*Enhancer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e := &Enhancer{params: p}
	for i := range e.gamma {
		e.gamma[i] = clamp(255 * math.Pow(float64(i)/255, 1/p.Gamma))
	}

	return e, nil
}

// Params returns the parameters the Enhancer was created with.
func (e *Enhancer) Params() Params {
	return e.params
}

// Pixel runs a single pixel through all four stages.
func (e *Enhancer) Pixel(r, g, b uint8) (uint8, uint8, uint8) {
	r, g, b = e.gamma[r], e.gamma[g], e.gamma[b]
	r, g, b = contrast(r, g, b, e.params.Contrast)
	r, g, b = saturate(r, g, b, e.params.Saturation, e.params.SaturationThreshold)
	return floor(r, g, b, e.params.MinBrightness)
}

// Apply returns a new enhanced copy of a full LED matrix frame.
func (e *Enhancer) Apply(pix []byte) ([]byte, error) {
	if err := frame.Validate(pix, frame.Width, frame.Height); err != nil {
		return nil, err
	}
	out := make([]byte, len(pix))
	e.apply(out, pix)
	return out, nil
}

// ApplyRGB returns a new enhanced copy of m, which may be any size.
func (e *Enhancer) ApplyRGB(m *frame.RGB) *frame.RGB {
	b := m.Bounds()
	dst := frame.NewRGB(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := m.PixOffset(b.Min.X, y)
		j := dst.PixOffset(0, y-b.Min.Y)
		e.apply(dst.Pix[j:j+b.Dx()*frame.Channels], m.Pix[i:i+b.Dx()*frame.Channels])
	}
	return dst
}

func (e *Enhancer) apply(dst, src []byte) {
	for i := 0; i+2 < len(src); i += frame.Channels {
		dst[i+0], dst[i+1], dst[i+2] = e.Pixel(src[i+0], src[i+1], src[i+2])
	}
}

// Enhance is a convenience wrapper around New and Apply.
func Enhance(pix []byte, p Params) ([]byte, error) {
	e, err := New(p)
	if err != nil {
		return nil, err
	}
	return e.Apply(pix)
}
