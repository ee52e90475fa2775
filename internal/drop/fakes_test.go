package drop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eykd/imgdrop-go/internal/urilist"
)

// fakeReader serves resource bytes from memory, keyed by URI.
type fakeReader struct {
	mu    sync.Mutex
	data  map[string][]byte
	errs  map[string]error
	delay map[string]time.Duration
	reads []string
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		data:  make(map[string][]byte),
		errs:  make(map[string]error),
		delay: make(map[string]time.Duration),
	}
}

func (f *fakeReader) ReadResource(_ context.Context, res urilist.Resource) ([]byte, error) {
	uri := res.String()
	f.mu.Lock()
	f.reads = append(f.reads, uri)
	d := f.delay[uri]
	data, ok := f.data[uri]
	err := f.errs[uri]
	f.mu.Unlock()

	time.Sleep(d)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no such resource %s", uri)
	}
	return data, nil
}

func (f *fakeReader) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reads)
}

// memFS records written files in memory.
type memFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	failOn map[string]error // keyed by extension
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string][]byte), failOn: make(map[string]error)}
}

func (m *memFS) CreateAndWrite(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ext, err := range m.failOn {
		if strings.HasSuffix(path, ext) {
			return err
		}
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

// fakeWorkspace records applied edits.
type fakeWorkspace struct {
	folders  []string
	applyErr error
	decline  bool
	applied  []*WorkspaceEdit
}

func (w *fakeWorkspace) Folders() []string { return w.folders }

func (w *fakeWorkspace) ApplyEdit(_ context.Context, e *WorkspaceEdit) (bool, error) {
	if w.applyErr != nil {
		return false, w.applyErr
	}
	if w.decline {
		return false, nil
	}
	w.applied = append(w.applied, e)
	return true, nil
}

// failingTransfer returns an item whose read fails.
type failingTransfer struct{}

func (failingTransfer) Get(string) (DataTransferItem, bool) { return failingItem{}, true }

type failingItem struct{}

func (failingItem) AsString(context.Context) (string, error) {
	return "", errors.New("transfer gone")
}

// counterNames returns deterministic names n1, n2, ... safe for concurrent use.
func counterNames() NameGenerator {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("n%d", n), nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
