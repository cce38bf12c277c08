package ledframe

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/bodgit/ledframe/frame"
	"github.com/bodgit/ledframe/resample"
	"github.com/bodgit/ledframe/sample"
	"github.com/bodgit/ledframe/stats"
)

// Ignore any file greater than 16 MB
const maxFileSize = 16 << (10 * 2)

var errTooBig = errors.New("ledframe: file too big")

// key identifies an input together with every setting that affects the
// output, so cached frames are never served for different settings.
func (c *Converter) key(kind string, data []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%+v|%+v|%t|", kind, c.params, c.sample, c.decode)
	h.Write(data)
	return fmt.Sprintf("%X", h.Sum(nil))
}

// Convert runs in through the full pipeline.
func (c *Converter) Convert(in Input) (*Result, error) {
	var (
		key    string
		pix    []byte
		source = SourceDecoded
		format string
	)

	switch in := in.(type) {
	case DecodedImage:
		key = c.key(fmt.Sprintf("raw%dx%dx%d", in.Width, in.Height, in.Channels), in.Pix)
		if r, err := c.cached(key); r != nil || err != nil {
			return r, err
		}
		m, err := resample.ResampleRaw(in.Pix, in.Width, in.Height, in.Channels, frame.Width, frame.Height)
		if err != nil {
			return nil, err
		}
		pix = m.Pix
	case Image:
		if in.Image == nil {
			return nil, errUnknownInput
		}
		pix = resample.Resample(in.Image, frame.Width, frame.Height).Pix
	case RawByteStream:
		if len(in) == 0 {
			return nil, sample.ErrEmptyInput
		}
		key = c.key("stream", in)
		if r, err := c.cached(key); r != nil || err != nil {
			return r, err
		}
		var err error
		if pix, format, err = c.decodeStream(in); err != nil {
			return nil, err
		}
		if format == "" {
			source = SourceSampled
		}
	default:
		return nil, errUnknownInput
	}

	enhanced, err := c.enhancer.Apply(pix)
	if err != nil {
		return nil, err
	}

	s, err := stats.Collect(enhanced)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Pixels:       enhanced,
		Width:        frame.Width,
		Height:       frame.Height,
		Source:       source,
		Format:       format,
		OriginalSize: in.size(),
		Stats:        s,
	}

	if c.db != nil {
		if err := c.db.Add(key, r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// decodeStream tries the image decoders first and falls back to sampling
// the raw bytes. The returned format is empty when the bytes were sampled.
func (c *Converter) decodeStream(data []byte) ([]byte, string, error) {
	if c.decode {
		m, format, err := resample.DecodeBytes(data, frame.Width, frame.Height)
		switch {
		case err == nil:
			return m.Pix, format, nil
		case errors.Is(err, resample.ErrDecodeUnavailable):
			c.logger.Printf("Falling back to byte sampling: %v\n", err)
		default:
			return nil, "", err
		}
	}

	pix, err := sample.Sample(data, frame.Size, c.sample)
	if err != nil {
		return nil, "", err
	}
	return pix, "", nil
}

func (c *Converter) cached(key string) (*Result, error) {
	if c.db == nil {
		return nil, nil
	}
	r, err := c.db.FindBySHA1(key)
	if err != nil {
		return nil, err
	}
	if r != nil {
		c.logger.Printf("Using cached frame \"%s\"\n", r.ID)
	}
	return r, nil
}

// ConvertFile reads an encoded image from file and converts it.
func (c *Converter) ConvertFile(file string) (*Result, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: %s", errTooBig, file)
	}

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return c.Convert(RawByteStream(b))
}
