/*
Package generate fetches images from an external text-to-image service.

The service is treated as an opaque collaborator: a prompt goes in and the
encoded image bytes come back. Nothing here retries; any failure is
reported as ErrUpstreamAcquisition and the caller decides what to do.
*/
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrUpstreamAcquisition is returned when an image could not be obtained
// from the external service.
var ErrUpstreamAcquisition = errors.New("generate: upstream acquisition failure")

// DefaultURL is the Stability AI core generation endpoint.
const DefaultURL = "https://api.stability.ai/v2beta/stable-image/generate/core"

// RequestSize is the width and height asked of the service. The result is
// resampled to the LED grid afterwards.
const RequestSize = 32

// maxImageSize bounds how much of a response body is read.
const maxImageSize = 10 << (10 * 2)

// Generator turns a prompt into encoded image bytes.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Client is a Generator backed by a Stability AI style HTTP API.
type Client struct {
	// URL of the generation endpoint, DefaultURL if empty.
	URL string
	// Key is sent as a bearer token.
	Key string
	// HTTP is the client used for requests, a client with a one minute
	// timeout is used if nil.
	HTTP *http.Client
}

// NewClient returns a Client for the default endpoint.
func NewClient(key string) *Client {
	return &Client{
		URL:  DefaultURL,
		Key:  key,
		HTTP: &http.Client{Timeout: time.Minute},
	}
}

func (c *Client) body(prompt string) (*bytes.Buffer, string, error) {
	b := new(bytes.Buffer)
	w := multipart.NewWriter(b)

	for _, field := range [][2]string{
		{"prompt", prompt},
		{"aspect_ratio", "1:1"},
		{"output_format", "jpeg"},
		{"width", strconv.Itoa(RequestSize)},
		{"height", strconv.Itoa(RequestSize)},
	} {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return b, w.FormDataContentType(), nil
}

// Generate requests a single image for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: empty prompt", ErrUpstreamAcquisition)
	}

	body, contentType, err := c.body(prompt)
	if err != nil {
		return nil, err
	}

	url := c.URL
	if url == "" {
		url = DefaultURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "image/*")
	if c.Key != "" {
		req.Header.Set("Authorization", "Bearer "+c.Key)
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAcquisition, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamAcquisition, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAcquisition, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrUpstreamAcquisition)
	}

	return b, nil
}

// Interface checks.
var _ Generator = (*Client)(nil)
