/*
Package sample implements the degraded byte-stream fallback used when no
image decoder can handle the input.

The encoded bytes are treated as an approximate intensity source: a fixed
number of leading bytes are skipped to get past a typical image header, the
remainder is walked at a fixed stride and only bytes within a plausible
intensity band are kept. Any shortfall is padded by cycling through the
accepted values. This is a best-effort approximation and makes no attempt
to parse the encoded format.
*/
package sample

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when there are no bytes to sample.
var ErrEmptyInput = errors.New("sample: empty input")

var (
	errBadCount    = errors.New("sample: invalid sample count")
	errBadHeadroom = errors.New("sample: invalid headroom")
	errBadBand     = errors.New("sample: invalid band")
	errBadSkip     = errors.New("sample: invalid skip")
)

// Options controls the sampler.
type Options struct {
	// Skip is the number of leading bytes ignored unconditionally.
	Skip int
	// Low and High bound the accepted byte values, inclusive.
	Low, High int
	// Headroom scales the stride down to allow for rejected bytes.
	Headroom int
	// Fill is used for every value when nothing was accepted.
	Fill byte
}

// DefaultOptions are the options used unless overridden.
var DefaultOptions = Options{
	Skip:     100,
	Low:      20,
	High:     235,
	Headroom: 2,
	Fill:     100,
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	switch {
	case o.Skip < 0:
		return fmt.Errorf("%w: %d", errBadSkip, o.Skip)
	case o.Headroom < 1:
		return fmt.Errorf("%w: %d", errBadHeadroom, o.Headroom)
	case o.Low < 0 || o.High > 0xff || o.Low > o.High:
		return fmt.Errorf("%w: [%d, %d]", errBadBand, o.Low, o.High)
	}
	return nil
}

// Step returns the stride used to walk an input of length n when
// collecting count samples. It is never less than one.
func (o Options) Step(n, count int) int {
	if count < 1 || o.Headroom < 1 {
		return 1
	}
	if step := n / count / o.Headroom; step > 0 {
		return step
	}
	return 1
}

// Sample returns exactly count values taken from data. The result is a pure
// function of its arguments.
func Sample(data []byte, count int, opts Options) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", errBadCount, count)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, count)
	step := opts.Step(len(data), count)
	for i := opts.Skip; i < len(data) && len(out) < count; i += step {
		if v := int(data[i]); v >= opts.Low && v <= opts.High {
			out = append(out, data[i])
		}
	}

	accepted := len(out)
	if accepted == 0 {
		for len(out) < count {
			out = append(out, opts.Fill)
		}
		return out, nil
	}

	for len(out) < count {
		out = append(out, out[len(out)%accepted])
	}

	return out, nil
}
