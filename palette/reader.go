package palette

import (
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough = errors.New("palette: not enough image data")
	errTooMuch   = errors.New("palette: too much image data")
	errBadMagic  = errors.New("palette: invalid signature")
	errBadSize   = errors.New("palette: invalid dimensions")
	errBadIndex  = errors.New("palette: invalid palette index")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	width, height int

	image   *image.Paletted
	palette color.Palette

	tmp [headerSize]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return err
	}
	if string(d.tmp[:len(Magic)]) != Magic {
		return errBadMagic
	}

	d.width, d.height = int(d.tmp[len(Magic)]), int(d.tmp[len(Magic)+1])
	if d.width == 0 || d.height == 0 {
		return errBadSize
	}

	d.palette = make(color.Palette, int(d.tmp[len(Magic)+2])+1)
	return nil
}

func (d *decoder) readPalette() error {
	b := make([]byte, len(d.palette)*3)
	if err := readFull(d.r, b); err != nil {
		return err
	}
	for i := range d.palette {
		d.palette[i] = color.RGBA{b[i*3+0], b[i*3+1], b[i*3+2], 0xff}
	}
	return nil
}

func (d *decoder) readPixels() error {
	d.image = image.NewPaletted(image.Rect(0, 0, d.width, d.height), d.palette)
	if err := readFull(d.r, d.image.Pix); err != nil {
		return err
	}
	for _, i := range d.image.Pix {
		if int(i) >= len(d.palette) {
			return errBadIndex
		}
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if err := d.readPalette(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if configOnly {
		return nil
	}

	if err := d.readPixels(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if n, err := r.Read(d.tmp[:1]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return errTooMuch
	}

	return nil
}

// Decode reads an indexed frame from r and returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of an indexed frame
// without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
