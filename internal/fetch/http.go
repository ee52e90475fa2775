package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/eykd/imgdrop-go/internal/urilist"
)

// ErrHTTPStatus is returned when a remote resource answers with an error status.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// HTTPOptions configures HTTPReader.
type HTTPOptions struct {
	// Timeout bounds a single download. Zero means no timeout.
	Timeout time.Duration
	// MaxBytes caps the accepted response size. Zero means no cap.
	MaxBytes int64
}

// HTTPReader downloads http and https resources.
type HTTPReader struct {
	client *resty.Client
}

// NewHTTPReader returns an HTTPReader using a fresh resty client.
func NewHTTPReader(opts HTTPOptions) *HTTPReader {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.MaxBytes > 0 {
		client.SetResponseBodyLimit(opts.MaxBytes)
	}
	return &HTTPReader{client: client}
}

// ReadResource fetches res and returns the response body.
func (h *HTTPReader) ReadResource(ctx context.Context, res urilist.Resource) ([]byte, error) {
	switch res.Scheme() {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, res.Scheme())
	}

	resp, err := h.client.R().
		SetContext(ctx).
		Get(res.String())
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w %d: %s", ErrHTTPStatus, resp.StatusCode(), res.String())
	}
	return resp.Bytes(), nil
}

// Close releases the underlying client.
func (h *HTTPReader) Close() error {
	return h.client.Close()
}
