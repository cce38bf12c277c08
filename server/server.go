/*
Package server exposes the converter over HTTP for LED matrix clients.

Every response carrying a frame uses the same JSON shape: a flat "pixels"
array of 768 numbers plus the width, height, source and statistics.
*/
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/bodgit/ledframe"
	"github.com/bodgit/ledframe/frame"
	"github.com/bodgit/ledframe/generate"
	"github.com/bodgit/ledframe/resample"
	"github.com/bodgit/ledframe/sample"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodySize = 10 << (10 * 2)

// Handler serves the HTTP API.
type Handler struct {
	converter *ledframe.Converter
	generator generate.Generator
	db        *ledframe.FrameDB
	logger    *log.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// New returns the router. The generator and database are optional; the
// endpoints that need them answer 404 when they are missing.
func New(c *ledframe.Converter, g generate.Generator, db *ledframe.FrameDB, logger *log.Logger) http.Handler {
	h := &Handler{
		converter: c,
		generator: g,
		db:        db,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/", h.Home)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Post("/resize-image", h.ResizeImage)
		r.Post("/ai-image", h.AIImage)
		r.Get("/frames/latest", h.LatestFrame)
		r.Get("/frames/{id}", h.GetFrame)
	})

	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err string, details string) {
	writeJSON(w, status, ErrorResponse{Error: err, Details: details})
}

// writeConvertError maps pipeline errors onto status codes.
func (h *Handler) writeConvertError(w http.ResponseWriter, err error) {
	h.logger.Printf("Processing error: %v\n", err)
	switch {
	case errors.Is(err, generate.ErrUpstreamAcquisition):
		writeError(w, http.StatusBadGateway, "Image generation failed", err.Error())
	case errors.Is(err, sample.ErrEmptyInput), errors.Is(err, frame.ErrInvalidBufferLength), errors.Is(err, resample.ErrInvalidPixels):
		writeError(w, http.StatusBadRequest, "Invalid image data", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Image processing failed", err.Error())
	}
}

const home = `<html>
  <body>
    <h1>LED Frame API</h1>
    <p>This service converts images for 16x16 LED matrix picture frames.</p>
    <p><strong>API Endpoints:</strong> <code>/api/resize-image</code>, <code>/api/ai-image</code></p>
  </body>
</html>
`

// Home serves a short description of the service.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(home))
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health reports the service is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK", Timestamp: time.Now().UTC()})
}
