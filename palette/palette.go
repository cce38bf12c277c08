/*
Package palette implements an indexed frame decoder and encoder for LED
controllers that store a color table plus one index per pixel.

The file is written as the four byte signature "LEDP", one byte each for the
width and height, one byte holding the number of colors minus one, the
palette as three bytes (R, G, B) per color and finally one palette index per
pixel in row-major order. There is no compression so a 16 by 16 frame using
n colors is 263 + 3n bytes.
*/
package palette

import "image"

const (
	// Magic is the signature at the start of every file.
	Magic = "LEDP"

	// MaxColors is the largest palette the format can hold.
	MaxColors = 256

	maxDimension = 0xff
	headerSize   = len(Magic) + 3
)

func init() {
	image.RegisterFormat("ledp", Magic, Decode, DecodeConfig)
}
