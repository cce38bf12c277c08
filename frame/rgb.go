package frame

import (
	"image"
	"image/color"
	"image/draw"
)

// RGB is an in-memory image of 24-bit RGB pixels with no alpha channel.
type RGB struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels, R, G, B for each pixel.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

// NewRGB returns a new black RGB image with the given width and height.
func NewRGB(w, h int) *RGB {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &RGB{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, w*h*Channels),
		Stride: w * Channels,
	}
}

// New returns a black frame sized for the LED matrix.
func New() *RGB {
	return NewRGB(Width, Height)
}

// FromBytes wraps pix as a w by h image without copying it.
func FromBytes(pix []byte, w, h int) (*RGB, error) {
	if err := Validate(pix, w, h); err != nil {
		return nil, err
	}
	return &RGB{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    pix,
		Stride: w * Channels,
	}, nil
}

func (p *RGB) Bounds() image.Rectangle {
	return p.Rect
}

func (p *RGB) ColorModel() color.Model {
	return color.RGBAModel
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (p *RGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*Channels
}

func (p *RGB) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return p.RGBAAt(x, y)
}

// RGBAAt returns the opaque color of the pixel at (x, y).
func (p *RGB) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{s[0], s[1], s[2], 0xff}
}

func (p *RGB) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	c1 := color.RGBAModel.Convert(c).(color.RGBA)
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0] = c1.R
	s[1] = c1.G
	s[2] = c1.B
}

// Fill the image with a single color.
func (p *RGB) Fill(c color.Color) {
	c1 := color.RGBAModel.Convert(c).(color.RGBA)
	for i := 0; i+2 < len(p.Pix); i += Channels {
		p.Pix[i+0] = c1.R
		p.Pix[i+1] = c1.G
		p.Pix[i+2] = c1.B
	}
}

// Clear the image to black.
func (p *RGB) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// Interface checks.
var _ draw.Image = (*RGB)(nil)
