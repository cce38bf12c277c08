package stats

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bodgit/ledframe/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	pix := bytes.Repeat([]byte{10, 20, 30}, frame.Pixels)
	pix[0] = 0
	pix[frame.Size-1] = 255

	s, err := Collect(pix)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Brightness.Min)
	assert.Equal(t, 255, s.Brightness.Max)
	assert.InDelta(t, float64(60*frame.Pixels-10+225)/frame.Size, s.Brightness.Avg, 1e-9)
	assert.InDelta(t, float64(10*frame.Pixels-10)/frame.Pixels, s.Color.Red, 1e-9)
	assert.InDelta(t, 20.0, s.Color.Green, 1e-9)
	assert.InDelta(t, float64(30*frame.Pixels+225)/frame.Pixels, s.Color.Blue, 1e-9)
}

func TestCollectUniform(t *testing.T) {
	s, err := Collect(bytes.Repeat([]byte{186}, frame.Size))
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Brightness: Range{Min: 186, Max: 186, Avg: 186},
		Color:      Channels{Red: 186, Green: 186, Blue: 186},
	}, s)
}

func TestCollectInvalidLength(t *testing.T) {
	_, err := Collect(make([]byte, frame.Size-3))
	assert.ErrorIs(t, err, frame.ErrInvalidBufferLength)
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(Stats{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"brightnessRange":{"min":0,"max":0,"avg":0},"colorStats":{"avgRed":0,"avgGreen":0,"avgBlue":0}}`, string(b))
}
