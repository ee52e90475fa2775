package drop

import (
	"encoding/json"
	"sync"

	"github.com/eykd/imgdrop-go/internal/snippet"
)

// FileOperation is one resource operation staged in a WorkspaceEdit.
type FileOperation struct {
	// Kind is always "create" for now.
	Kind string `json:"kind"`
	// Path is the absolute path of the resource.
	Path string `json:"path"`
	// IgnoreIfExists makes the creation a no-op when Path already exists.
	IgnoreIfExists bool `json:"ignoreIfExists"`
}

// WorkspaceEdit accumulates file operations from concurrent resolver tasks
// so the host can apply them as one unit. Appends are safe for concurrent use.
type WorkspaceEdit struct {
	mu  sync.Mutex
	ops []FileOperation
}

// NewWorkspaceEdit returns an empty edit.
func NewWorkspaceEdit() *WorkspaceEdit {
	return &WorkspaceEdit{}
}

// CreateFile stages creation of path.
func (e *WorkspaceEdit) CreateFile(path string, ignoreIfExists bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ops = append(e.ops, FileOperation{Kind: "create", Path: path, IgnoreIfExists: ignoreIfExists})
}

// Operations returns a snapshot of the staged operations in append order.
func (e *WorkspaceEdit) Operations() []FileOperation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]FileOperation(nil), e.ops...)
}

// Len returns the number of staged operations.
func (e *WorkspaceEdit) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ops)
}

// MarshalJSON encodes the staged operations.
func (e *WorkspaceEdit) MarshalJSON() ([]byte, error) {
	ops := e.Operations()
	if ops == nil {
		ops = []FileOperation{}
	}
	return json.Marshal(struct {
		Operations []FileOperation `json:"operations"`
	}{ops})
}

// DropEdit is the result of a drop: the snippet to insert at Position and
// the resource edit that accompanies it.
type DropEdit struct {
	Position       Position        `json:"position"`
	InsertText     *snippet.String `json:"insertText"`
	AdditionalEdit *WorkspaceEdit  `json:"additionalEdit"`
	Outcomes       []Outcome       `json:"outcomes"`
	Diagnostics    []Diagnostic    `json:"diagnostics"`
}
