package ledframe

import (
	"encoding/json"

	"github.com/bodgit/ledframe/frame"
	"github.com/bodgit/ledframe/stats"
)

// Result is a finished frame and its metadata. It is created per
// conversion and handed to the caller; nothing retains it except the
// optional FrameDB.
type Result struct {
	ID           string
	Pixels       []byte
	Width        int
	Height       int
	Source       Source
	Format       string
	OriginalSize int
	Stats        stats.Stats
}

// Frame returns the pixels as an image.
func (r *Result) Frame() (*frame.RGB, error) {
	return frame.FromBytes(r.Pixels, r.Width, r.Height)
}

type jsonResult struct {
	ID           string      `json:"id,omitempty"`
	Pixels       []int       `json:"pixels"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
	Source       Source      `json:"source"`
	Format       string      `json:"format,omitempty"`
	OriginalSize int         `json:"originalSize"`
	Stats        stats.Stats `json:"stats"`
}

// MarshalJSON encodes the pixels as a flat array of numbers rather than
// base64.
func (r *Result) MarshalJSON() ([]byte, error) {
	pixels := make([]int, len(r.Pixels))
	for i, v := range r.Pixels {
		pixels[i] = int(v)
	}
	return json.Marshal(jsonResult{
		ID:           r.ID,
		Pixels:       pixels,
		Width:        r.Width,
		Height:       r.Height,
		Source:       r.Source,
		Format:       r.Format,
		OriginalSize: r.OriginalSize,
		Stats:        r.Stats,
	})
}
