package enhance

import "math"

func clamp(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func max3(r, g, b uint8) uint8 {
	m := r
	if g > m {
		m = g
	}
	if b > m {
		m = b
	}
	return m
}

func min3(r, g, b uint8) uint8 {
	m := r
	if g < m {
		m = g
	}
	if b < m {
		m = b
	}
	return m
}

// contrast pushes every channel away from mid-gray.
func contrast(r, g, b uint8, factor float64) (uint8, uint8, uint8) {
	f := func(c uint8) uint8 {
		return clamp(128 + factor*(float64(c)-128))
	}
	return f(r), f(g), f(b)
}

// saturation is the spread between the brightest and darkest channel
// relative to the brightest.
func saturation(r, g, b uint8) float64 {
	hi := max3(r, g, b)
	if hi == 0 {
		return 0
	}
	return float64(hi-min3(r, g, b)) / float64(hi)
}

// saturate pushes every channel away from the pixel average, unless the
// pixel is close to gray.
func saturate(r, g, b uint8, boost, threshold float64) (uint8, uint8, uint8) {
	if saturation(r, g, b) <= threshold {
		return r, g, b
	}
	avg := (float64(r) + float64(g) + float64(b)) / 3
	f := func(c uint8) uint8 {
		return clamp(avg + boost*(float64(c)-avg))
	}
	return f(r), f(g), f(b)
}

// floor scales a pixel whose channels are all below level so that its
// brightest channel reaches level. A fully black pixel stays black.
func floor(r, g, b uint8, level int) (uint8, uint8, uint8) {
	l := uint8(level)
	if level <= 0 || r >= l || g >= l || b >= l {
		return r, g, b
	}
	hi := max3(r, g, b)
	if hi == 0 {
		hi = 1
	}
	scale := float64(level) / float64(hi)
	return clamp(float64(r) * scale), clamp(float64(g) * scale), clamp(float64(b) * scale)
}
