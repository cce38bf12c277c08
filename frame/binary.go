package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"math"
)

// Magic is the signature at the start of a binary encoded frame.
const Magic = "LEDF"

// Extension is the filename extension used when writing frames to disk.
const Extension = ".frame"

var (
	errBadMagic    = errors.New("frame: bad magic")
	errNotEnough   = errors.New("frame: not enough data")
	errTooMuch     = errors.New("frame: too much data")
	errBadChecksum = errors.New("frame: checksum mismatch")
	errTooBig      = errors.New("frame: image too big")
)

type header struct {
	Width  uint16
	Height uint16
}

// MarshalBinary encodes the image as the magic, the dimensions as big-endian
// 16-bit values, the pixels row by row and finally a CRC-32 of everything
// before it.
func (p *RGB) MarshalBinary() ([]byte, error) {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	if w > math.MaxUint16 || h > math.MaxUint16 {
		return nil, errTooBig
	}

	b := new(bytes.Buffer)
	b.WriteString(Magic)

	if err := binary.Write(b, binary.BigEndian, header{uint16(w), uint16(h)}); err != nil {
		return nil, err
	}

	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		i := p.PixOffset(p.Rect.Min.X, y)
		if _, err := b.Write(p.Pix[i : i+w*Channels]); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(b, binary.BigEndian, crc32.ChecksumIEEE(b.Bytes())); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes an image previously encoded with MarshalBinary.
func (p *RGB) UnmarshalBinary(b []byte) error {
	const headerSize = len(Magic) + 4

	if len(b) < headerSize+crc32.Size {
		return errNotEnough
	}
	if string(b[:len(Magic)]) != Magic {
		return errBadMagic
	}

	var hdr header
	if err := binary.Read(bytes.NewReader(b[len(Magic):headerSize]), binary.BigEndian, &hdr); err != nil {
		return err
	}

	size := int(hdr.Width) * int(hdr.Height) * Channels
	switch n := len(b) - headerSize - crc32.Size; {
	case n < size:
		return errNotEnough
	case n > size:
		return errTooMuch
	}

	body := b[:headerSize+size]
	if sum := binary.BigEndian.Uint32(b[headerSize+size:]); sum != crc32.ChecksumIEEE(body) {
		return fmt.Errorf("%w: %08X", errBadChecksum, sum)
	}

	p.Rect = image.Rect(0, 0, int(hdr.Width), int(hdr.Height))
	p.Stride = int(hdr.Width) * Channels
	p.Pix = make([]byte, size)
	copy(p.Pix, b[headerSize:])

	return nil
}
