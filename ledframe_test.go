package ledframe

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bodgit/ledframe/enhance"
	"github.com/bodgit/ledframe/frame"
	"github.com/bodgit/ledframe/resample"
	"github.com/bodgit/ledframe/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = log.New(ioutil.Discard, "", 0)

func testPNG(t *testing.T, c color.Color) []byte {
	t.Helper()

	m := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			m.Set(x, y, c)
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	return b.Bytes()
}

func newConverter(t *testing.T, db *FrameDB, options ...Option) *Converter {
	t.Helper()
	c, err := New(db, discard, options...)
	require.NoError(t, err)
	return c
}

func TestConvertDecodedImage(t *testing.T) {
	c := newConverter(t, nil)

	r, err := c.Convert(DecodedImage{
		Width:    32,
		Height:   24,
		Channels: 3,
		Pix:      bytes.Repeat([]byte{128}, 32*24*3),
	})
	require.NoError(t, err)

	assert.Equal(t, SourceDecoded, r.Source)
	assert.Equal(t, frame.Width, r.Width)
	assert.Equal(t, frame.Height, r.Height)
	assert.Equal(t, bytes.Repeat([]byte{203}, frame.Size), r.Pixels)
	assert.Equal(t, 32*24*3, r.OriginalSize)
	assert.Equal(t, 203, r.Stats.Brightness.Min)
	assert.Equal(t, 203, r.Stats.Brightness.Max)
	assert.Empty(t, r.ID)
}

func TestConvertImage(t *testing.T) {
	c := newConverter(t, nil, WithParams(enhance.Params{Gamma: 2.2, Contrast: 1, Saturation: 1.3, SaturationThreshold: 0.1, MinBrightness: 8}))

	m := image.NewGray(image.Rect(0, 0, 5, 7))
	for i := range m.Pix {
		m.Pix[i] = 128
	}

	r, err := c.Convert(Image{m})
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{186}, frame.Size), r.Pixels)
}

func TestConvertEncoded(t *testing.T) {
	c := newConverter(t, nil)

	r, err := c.Convert(RawByteStream(testPNG(t, color.RGBA{0xff, 0, 0, 0xff})))
	require.NoError(t, err)
	assert.Equal(t, SourceDecoded, r.Source)
	assert.Equal(t, "png", r.Format)
	assert.Equal(t, bytes.Repeat([]byte{0xff, 0, 0}, frame.Pixels), r.Pixels)
}

func TestConvertFallback(t *testing.T) {
	data := make([]byte, frame.Size*2)
	data[100] = 150

	c := newConverter(t, nil)

	r, err := c.Convert(RawByteStream(data))
	require.NoError(t, err)
	assert.Equal(t, SourceSampled, r.Source)
	assert.Empty(t, r.Format)
	assert.Equal(t, frame.Size*2, r.OriginalSize)

	// Sampled 150 becomes 200 after gamma, then 222 after contrast
	assert.Equal(t, bytes.Repeat([]byte{222}, frame.Size), r.Pixels)
}

func TestConvertWithoutDecoder(t *testing.T) {
	c := newConverter(t, nil, WithoutDecoder())

	r, err := c.Convert(RawByteStream(testPNG(t, color.White)))
	require.NoError(t, err)
	assert.Equal(t, SourceSampled, r.Source)
	assert.Len(t, r.Pixels, frame.Size)
}

func TestConvertErrors(t *testing.T) {
	c := newConverter(t, nil)

	_, err := c.Convert(RawByteStream(nil))
	assert.ErrorIs(t, err, sample.ErrEmptyInput)

	_, err = c.Convert(nil)
	assert.ErrorIs(t, err, errUnknownInput)

	_, err = c.Convert(Image{})
	assert.ErrorIs(t, err, errUnknownInput)

	_, err = c.Convert(DecodedImage{Width: 2, Height: 2, Channels: 3, Pix: make([]byte, 5)})
	assert.ErrorIs(t, err, resample.ErrInvalidPixels)

	_, err = c.Convert(DecodedImage{Width: 1 << 32, Height: 1 << 32, Channels: 3, Pix: make([]byte, 3)})
	assert.ErrorIs(t, err, resample.ErrInvalidPixels)
}

func TestNewInvalidOptions(t *testing.T) {
	_, err := New(nil, nil, WithParams(enhance.Params{}))
	assert.Error(t, err)

	opts := sample.DefaultOptions
	opts.Headroom = 0
	_, err = New(nil, nil, WithSampleOptions(opts))
	assert.Error(t, err)

	opts = sample.DefaultOptions
	opts.Skip = -1
	_, err = New(nil, nil, WithSampleOptions(opts), WithoutDecoder())
	assert.Error(t, err)
}

func TestConvertConcurrent(t *testing.T) {
	c := newConverter(t, nil)
	data := testPNG(t, color.RGBA{10, 200, 30, 0xff})

	want, err := c.Convert(RawByteStream(data))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Convert(RawByteStream(data))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, want.Pixels, r.Pixels)
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "red.png")
	require.NoError(t, ioutil.WriteFile(file, testPNG(t, color.RGBA{0xff, 0, 0, 0xff}), 0o644))

	r, err := newConverter(t, nil).ConvertFile(file)
	require.NoError(t, err)
	assert.Equal(t, "png", r.Format)

	_, err = newConverter(t, nil).ConvertFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestResultJSON(t *testing.T) {
	r, err := newConverter(t, nil).Convert(DecodedImage{Width: 1, Height: 1, Channels: 3, Pix: []byte{128, 128, 128}})
	require.NoError(t, err)

	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"pixels":[203,203,203,`)
	assert.Contains(t, string(b), `"width":16`)
	assert.Contains(t, string(b), `"source":"decoded"`)
}
