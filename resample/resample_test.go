package resample

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/bodgit/ledframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// gradient returns an image where each pixel encodes its own coordinates.
func gradient(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 0xff})
		}
	}
	return m
}

func TestResampleDownscale(t *testing.T) {
	m := Resample(gradient(64, 32), frame.Width, frame.Height)
	require.Len(t, m.Pix, frame.Size)

	for ty := 0; ty < frame.Height; ty++ {
		for tx := 0; tx < frame.Width; tx++ {
			sx, sy := tx*64/frame.Width, ty*32/frame.Height
			assert.Equal(t, color.RGBA{uint8(sx), uint8(sy), uint8(sx ^ sy), 0xff}, m.At(tx, ty), "pixel (%d,%d)", tx, ty)
		}
	}
}

func TestResampleUpscale(t *testing.T) {
	m := Resample(gradient(4, 4), frame.Width, frame.Height)

	// Every source pixel becomes a hard-edged 4x4 block
	for ty := 0; ty < frame.Height; ty++ {
		for tx := 0; tx < frame.Width; tx++ {
			sx, sy := tx/4, ty/4
			assert.Equal(t, color.RGBA{uint8(sx), uint8(sy), uint8(sx ^ sy), 0xff}, m.At(tx, ty))
		}
	}
}

func TestResampleOffsetBounds(t *testing.T) {
	src := gradient(48, 48).SubImage(image.Rect(16, 16, 48, 48))
	m := Resample(src, frame.Width, frame.Height)

	assert.Equal(t, color.RGBA{16, 16, 0, 0xff}, m.At(0, 0))
	assert.Equal(t, color.RGBA{46, 46, 0, 0xff}, m.At(15, 15))
}

func TestResampleTransparent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 0})
	src.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 0xff})

	m := Resample(src, 2, 2)
	assert.Equal(t, []byte{0, 0, 0, 200, 100, 50}, m.Pix[:6])
}

func TestResampleEmpty(t *testing.T) {
	m := Resample(image.NewRGBA(image.Rectangle{}), frame.Width, frame.Height)
	assert.Len(t, m.Pix, frame.Size)
}

func TestResampleLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(1, 200).Draw(t, "w")
		h := rapid.IntRange(1, 200).Draw(t, "h")

		m := Resample(image.NewRGBA(image.Rect(0, 0, w, h)), frame.Width, frame.Height)
		if len(m.Pix) != frame.Size {
			t.Fatalf("got %d bytes, want %d", len(m.Pix), frame.Size)
		}
	})
}

func TestResampleRaw(t *testing.T) {
	src := gradient(40, 24)

	rgb := make([]byte, 0, 40*24*3)
	for i := 0; i < len(src.Pix); i += 4 {
		rgb = append(rgb, src.Pix[i:i+3]...)
	}

	want := Resample(src, frame.Width, frame.Height)

	got, err := ResampleRaw(rgb, 40, 24, 3, frame.Width, frame.Height)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, got.Pix)

	got, err = ResampleRaw(src.Pix, 40, 24, 4, frame.Width, frame.Height)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, got.Pix)
}

func TestResampleRawErrors(t *testing.T) {
	_, err := ResampleRaw(make([]byte, 12), 2, 2, 2, frame.Width, frame.Height)
	assert.ErrorIs(t, err, errBadChannels)

	_, err = ResampleRaw(make([]byte, 11), 2, 2, 3, frame.Width, frame.Height)
	assert.ErrorIs(t, err, errNotEnough)

	_, err = ResampleRaw(nil, 0, 2, 3, frame.Width, frame.Height)
	assert.ErrorIs(t, err, errBadDimensions)

	// The product of these dimensions wraps to zero
	_, err = ResampleRaw(make([]byte, 3), 1<<32, 1<<32, 3, frame.Width, frame.Height)
	assert.ErrorIs(t, err, errNotEnough)
	assert.ErrorIs(t, err, ErrInvalidPixels)
}

func TestDecode(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, gradient(32, 32)))

	m, format, err := DecodeBytes(b.Bytes(), frame.Width, frame.Height)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, color.RGBA{2, 2, 0, 0xff}, m.At(1, 1))

	_, _, err = DecodeBytes([]byte("definitely not an image"), frame.Width, frame.Height)
	assert.ErrorIs(t, err, ErrDecodeUnavailable)
}

func TestDeterministic(t *testing.T) {
	src := gradient(37, 19)
	a := Resample(src, frame.Width, frame.Height)
	b := Resample(src, frame.Width, frame.Height)
	assert.Equal(t, a.Pix, b.Pix)
}
