package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/bodgit/ledframe"
	"github.com/go-chi/chi/v5"
)

// RawImage is a decoded pixel buffer sent by the client.
type RawImage struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
	Data     []byte `json:"data"`
}

// ResizeRequest carries exactly one of an encoded image or a raw buffer.
// Both byte fields are base64 encoded in JSON.
type ResizeRequest struct {
	ImageData []byte    `json:"imageData"`
	Raw       *RawImage `json:"raw"`
}

// Input maps the request onto the matching converter input.
func (req *ResizeRequest) Input() (ledframe.Input, bool) {
	switch {
	case req.Raw != nil && len(req.ImageData) == 0:
		channels := req.Raw.Channels
		if channels == 0 {
			channels = 3
		}
		return ledframe.DecodedImage{
			Width:    req.Raw.Width,
			Height:   req.Raw.Height,
			Channels: channels,
			Pix:      req.Raw.Data,
		}, true
	case req.Raw == nil && len(req.ImageData) > 0:
		return ledframe.RawByteStream(req.ImageData), true
	}
	return nil, false
}

// GenerateRequest asks for an image to be generated from a prompt.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// ResizeImage converts an uploaded image. The body is either JSON or the
// encoded image itself as application/octet-stream.
func (h *Handler) ResizeImage(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)

	var in ledframe.Input
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/octet-stream":
		b, err := io.ReadAll(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}
		in = ledframe.RawByteStream(b)
	default:
		var req ResizeRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "Invalid JSON body")
			return
		}
		var ok bool
		if in, ok = req.Input(); !ok {
			writeError(w, http.StatusBadRequest, "No image data provided", "exactly one of imageData or raw is required")
			return
		}
	}

	result, err := h.converter.Convert(in)
	if err != nil {
		h.writeConvertError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// AIImage generates an image from a prompt and converts it.
func (h *Handler) AIImage(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeError(w, http.StatusNotFound, "Image generation is not configured", "")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "Invalid JSON body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "No prompt provided", "")
		return
	}

	h.logger.Printf("Processing prompt: %s\n", req.Prompt)

	b, err := h.generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.writeConvertError(w, err)
		return
	}

	h.logger.Printf("Image size: %d bytes\n", len(b))

	result, err := h.converter.Convert(ledframe.RawByteStream(b))
	if err != nil {
		h.writeConvertError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeFrame(w http.ResponseWriter, result *ledframe.Result, err error) {
	switch {
	case err != nil:
		h.writeConvertError(w, err)
	case result == nil:
		writeError(w, http.StatusNotFound, "Frame not found", "")
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

// LatestFrame returns the most recently converted frame.
func (h *Handler) LatestFrame(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeError(w, http.StatusNotFound, "Frame storage is not configured", "")
		return
	}
	result, err := h.db.Latest()
	h.writeFrame(w, result, err)
}

// GetFrame returns a frame by ID.
func (h *Handler) GetFrame(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeError(w, http.StatusNotFound, "Frame storage is not configured", "")
		return
	}
	result, err := h.db.Find(chi.URLParam(r, "id"))
	h.writeFrame(w, result, err)
}
