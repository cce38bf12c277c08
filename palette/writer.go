package palette

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

var errBadColors = errors.New("palette: invalid number of colors")

type encoder struct {
	w io.Writer
}

func packRGB(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// uniqueColors returns every opaque color used in r, sorted so the result
// does not depend on map ordering.
func uniqueColors(m image.Image, r image.Rectangle) color.Palette {
	seen := make(map[color.RGBA]struct{})
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.RGBAModel.Convert(m.At(x, y)).(color.RGBA)
			c.A = 0xff
			seen[c] = struct{}{}
		}
	}

	keys := make([]color.RGBA, 0, len(seen))
	for c := range seen {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return packRGB(keys[i]) < packRGB(keys[j]) })

	p := make(color.Palette, len(keys))
	for i, c := range keys {
		p[i] = c
	}
	return p
}

func (e *encoder) encode(m *image.Paletted) error {
	b := m.Bounds()

	header := append([]byte(Magic), byte(b.Dx()), byte(b.Dy()), byte(len(m.Palette)-1))
	if _, err := e.w.Write(header); err != nil {
		return err
	}

	// Write out palette, colors are stored without alpha
	tmp := make([]byte, 0, len(m.Palette)*3)
	for _, c := range m.Palette {
		c := color.RGBAModel.Convert(c).(color.RGBA)
		tmp = append(tmp, c.R, c.G, c.B)
	}
	if _, err := e.w.Write(tmp); err != nil {
		return err
	}

	// Write out pixel indices
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := make([]byte, 0, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			row = append(row, m.ColorIndexAt(x, y))
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w in indexed format using no more than
// maxColors colors. If m has more colors than that the palette is reduced
// with median cut quantization.
func Encode(w io.Writer, m image.Image, maxColors int) error {
	b := m.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 || b.Dx() > maxDimension || b.Dy() > maxDimension {
		return errBadSize
	}
	if maxColors < 1 || maxColors > MaxColors {
		return errBadColors
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > maxColors || len(pm.Palette) == 0 {
		p := uniqueColors(m, b)
		if len(p) > maxColors {
			q := quantize.MedianCutQuantizer{}
			p = q.Quantize(make(color.Palette, 0, maxColors), m)
		}
		pm = image.NewPaletted(b, p)
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	e := encoder{w: w}

	return e.encode(pm)
}
