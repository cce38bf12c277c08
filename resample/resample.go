/*
Package resample reduces a decoded image to the LED matrix grid.

Scaling is nearest neighbour with stretch-to-fill: every target pixel copies
exactly one source pixel and the aspect ratio of the source is not
preserved. No interpolation is applied so hard edges in small pixel-art
images survive the reduction.
*/
package resample

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/ledframe/frame"
)

// ErrInvalidPixels is wrapped by every error describing a raw pixel buffer
// that cannot be resampled.
var ErrInvalidPixels = errors.New("resample: invalid pixel buffer")

var (
	errBadDimensions = fmt.Errorf("%w: invalid dimensions", ErrInvalidPixels)
	errBadChannels   = fmt.Errorf("%w: unsupported channel count", ErrInvalidPixels)
	errNotEnough     = fmt.Errorf("%w: not enough pixel data", ErrInvalidPixels)
)

// source maps target coordinate t in [0, dst) onto [0, src).
func source(t, src, dst int) int {
	return t * src / dst
}

// Resample scales src to a w by h RGB image. Colors are composited over
// black, so transparent areas become unlit LEDs.
func Resample(src image.Image, w, h int) *frame.RGB {
	dst := frame.NewRGB(w, h)
	b := src.Bounds()
	if b.Empty() {
		return dst
	}

	for ty := 0; ty < h; ty++ {
		sy := b.Min.Y + source(ty, b.Dy(), h)
		for tx := 0; tx < w; tx++ {
			sx := b.Min.X + source(tx, b.Dx(), w)

			c := color.RGBAModel.Convert(src.At(sx, sy)).(color.RGBA)

			i := dst.PixOffset(tx, ty)
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
		}
	}

	return dst
}

// ResampleRaw scales an interleaved, row-major buffer of srcW by srcH pixels
// to a w by h RGB image. Three and four channel buffers are supported; any
// fourth channel is ignored.
func ResampleRaw(pix []byte, srcW, srcH, channels, w, h int) (*frame.RGB, error) {
	if srcW <= 0 || srcH <= 0 || w <= 0 || h <= 0 {
		return nil, errBadDimensions
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: %d", errBadChannels, channels)
	}
	if srcW > len(pix)/channels/srcH {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%dx%d", errNotEnough, len(pix), srcW, srcH, channels)
	}

	dst := frame.NewRGB(w, h)
	for ty := 0; ty < h; ty++ {
		sy := source(ty, srcH, h)
		for tx := 0; tx < w; tx++ {
			sx := source(tx, srcW, w)

			si := (sy*srcW + sx) * channels
			copy(dst.Pix[dst.PixOffset(tx, ty):], pix[si:si+frame.Channels])
		}
	}

	return dst, nil
}
