/*
Package frame implements the RGB pixel buffer sent to a 16 by 16 LED matrix.

A frame is Width * Height pixels, each stored as three bytes in R, G, B
order. Rows are stored top to bottom with no padding, so the buffer for the
fixed grid is exactly Size bytes.
*/
package frame

import (
	"errors"
	"fmt"
)

const (
	// Width of the LED matrix in pixels
	Width = 16
	// Height of the LED matrix in pixels
	Height = 16
	// Channels is the number of bytes per pixel
	Channels = 3
	// Pixels is the number of pixels in a frame
	Pixels = Width * Height
	// Size is the length in bytes of a frame buffer
	Size = Pixels * Channels
)

// ErrInvalidBufferLength is returned when a buffer does not hold exactly
// the expected number of pixels.
var ErrInvalidBufferLength = errors.New("frame: invalid buffer length")

// Validate checks pix is a w by h RGB buffer.
func Validate(pix []byte, w, h int) error {
	if w <= 0 || h <= 0 || len(pix) != w*h*Channels {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBufferLength, len(pix), w*h*Channels)
	}
	return nil
}
