// Package fetch reads the bytes of dropped resources by URI scheme.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/eykd/imgdrop-go/internal/urilist"
)

// ErrUnsupportedScheme is returned when no reader is registered for a scheme.
var ErrUnsupportedScheme = errors.New("unsupported URI scheme")

// Reader reads the full content of one resource.
type Reader interface {
	ReadResource(ctx context.Context, res urilist.Resource) ([]byte, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(ctx context.Context, res urilist.Resource) ([]byte, error)

// ReadResource calls f.
func (f ReaderFunc) ReadResource(ctx context.Context, res urilist.Resource) ([]byte, error) {
	return f(ctx, res)
}

// Mux dispatches reads to the reader registered for the resource's scheme.
type Mux struct {
	mu      sync.RWMutex
	readers map[string]Reader
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{readers: make(map[string]Reader)}
}

// NewDefault returns a Mux serving file, http, and https resources.
func NewDefault(opts HTTPOptions) *Mux {
	m := NewMux()
	m.Register("file", FileReader{})
	h := NewHTTPReader(opts)
	m.Register("http", h)
	m.Register("https", h)
	return m
}

// Register installs r for scheme, replacing any previous reader.
func (m *Mux) Register(scheme string, r Reader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readers[scheme] = r
}

// ReadResource reads res with the reader registered for its scheme.
func (m *Mux) ReadResource(ctx context.Context, res urilist.Resource) ([]byte, error) {
	m.mu.RLock()
	r, ok := m.readers[res.Scheme()]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, res.Scheme())
	}
	return r.ReadResource(ctx, res)
}

// Close closes every registered reader that holds resources.
func (m *Mux) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[Reader]bool)
	var errs []error
	for _, r := range m.readers {
		c, ok := r.(io.Closer)
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// FileReader reads file URIs from the local filesystem.
type FileReader struct{}

// ReadResource reads the file addressed by res.
func (FileReader) ReadResource(_ context.Context, res urilist.Resource) ([]byte, error) {
	if !res.IsFile() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, res.Scheme())
	}
	return os.ReadFile(res.FilePath())
}
