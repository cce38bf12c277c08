/*
Package ledframe converts images into frames for a 16 by 16 RGB LED matrix.

An input is either an already decoded image or an opaque stream of encoded
image bytes. Decoded images are reduced with nearest neighbour resampling.
Encoded bytes are decoded when a codec recognises them, otherwise they are
passed through a best-effort byte sampler. Either way the resulting 768
byte frame is run through the LED color enhancer and summarised.
*/
package ledframe

import (
	"errors"
	"io/ioutil"
	"log"

	"github.com/bodgit/ledframe/enhance"
	"github.com/bodgit/ledframe/sample"
)

var errUnknownInput = errors.New("ledframe: unknown input")

// Converter turns inputs into enhanced LED matrix frames. It holds no
// mutable state and is safe for concurrent use.
type Converter struct {
	db       *FrameDB
	logger   *log.Logger
	enhancer *enhance.Enhancer
	params   enhance.Params
	sample   sample.Options
	decode   bool
}

// Option configures a Converter.
type Option func(*Converter) error

// WithParams overrides the enhancement parameters.
func WithParams(p enhance.Params) Option {
	return func(c *Converter) error {
		if err := p.Validate(); err != nil {
			return err
		}
		c.params = p
		return nil
	}
}

// WithSampleOptions overrides the byte-stream sampler options.
func WithSampleOptions(o sample.Options) Option {
	return func(c *Converter) error {
		if err := o.Validate(); err != nil {
			return err
		}
		c.sample = o
		return nil
	}
}

// WithoutDecoder disables image decoding so every byte stream is sampled.
func WithoutDecoder() Option {
	return func(c *Converter) error {
		c.decode = false
		return nil
	}
}

// New returns a Converter. The database is optional; when present every
// result is stored and byte streams that have been seen before are
// answered from it.
func New(db *FrameDB, logger *log.Logger, options ...Option) (*Converter, error) {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	c := &Converter{
		db:     db,
		logger: logger,
		params: enhance.DefaultParams,
		sample: sample.DefaultOptions,
		decode: true,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	var err error
	if c.enhancer, err = enhance.New(c.params); err != nil {
		return nil, err
	}

	return c, nil
}

// Params returns the enhancement parameters in use.
func (c *Converter) Params() enhance.Params {
	return c.params
}
