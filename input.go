package ledframe

import "image"

// Input is one of DecodedImage, Image or RawByteStream.
type Input interface {
	size() int
}

// DecodedImage is a raw, interleaved, row-major pixel buffer of known
// dimensions. Channels must be 3 (RGB) or 4 (RGBA, alpha ignored).
type DecodedImage struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

func (d DecodedImage) size() int { return len(d.Pix) }

// Image wraps an already decoded image.Image.
type Image struct {
	image.Image
}

func (i Image) size() int {
	b := i.Bounds()
	return b.Dx() * b.Dy()
}

// RawByteStream is encoded image data of unknown structure.
type RawByteStream []byte

func (r RawByteStream) size() int { return len(r) }

// Source records which path produced a frame.
type Source string

// Sources.
const (
	SourceDecoded Source = "decoded"
	SourceSampled Source = "sampled"
)
