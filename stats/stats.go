// Package stats summarises a finished LED matrix frame.
package stats

import "github.com/bodgit/ledframe/frame"

// Range is the spread of every byte in a frame.
type Range struct {
	Min int     `json:"min"`
	Max int     `json:"max"`
	Avg float64 `json:"avg"`
}

// Channels holds the average of each color channel.
type Channels struct {
	Red   float64 `json:"avgRed"`
	Green float64 `json:"avgGreen"`
	Blue  float64 `json:"avgBlue"`
}

// Stats is a read-only summary of a frame.
type Stats struct {
	Brightness Range    `json:"brightnessRange"`
	Color      Channels `json:"colorStats"`
}

// Collect computes the statistics for a full LED matrix frame.
func Collect(pix []byte) (Stats, error) {
	if err := frame.Validate(pix, frame.Width, frame.Height); err != nil {
		return Stats{}, err
	}

	var (
		s      = Stats{Brightness: Range{Min: 0xff}}
		total  int
		totals [frame.Channels]int
	)
	for i, v := range pix {
		if int(v) < s.Brightness.Min {
			s.Brightness.Min = int(v)
		}
		if int(v) > s.Brightness.Max {
			s.Brightness.Max = int(v)
		}
		total += int(v)
		totals[i%frame.Channels] += int(v)
	}

	s.Brightness.Avg = float64(total) / float64(len(pix))
	s.Color.Red = float64(totals[0]) / frame.Pixels
	s.Color.Green = float64(totals[1]) / frame.Pixels
	s.Color.Blue = float64(totals[2]) / frame.Pixels

	return s, nil
}
