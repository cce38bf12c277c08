package resample

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/bodgit/ledframe/frame"
	_ "github.com/bodgit/ledframe/palette" // register LEDP decoder
	_ "golang.org/x/image/bmp"             // register BMP decoder
	_ "golang.org/x/image/webp"            // register WebP decoder
)

// ErrDecodeUnavailable is returned when the input cannot be decoded as an
// image. Callers are expected to fall back to byte-stream sampling.
var ErrDecodeUnavailable = errors.New("resample: decode unavailable")

// Decode reads an encoded image from r and scales it to a w by h RGB image.
// It also returns the name of the format that was decoded.
func Decode(r io.Reader, w, h int) (*frame.RGB, string, error) {
	m, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecodeUnavailable, err)
	}
	return Resample(m, w, h), format, nil
}

// DecodeBytes is Decode for an in-memory buffer.
func DecodeBytes(b []byte, w, h int) (*frame.RGB, string, error) {
	return Decode(bytes.NewReader(b), w, h)
}
