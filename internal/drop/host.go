package drop

import "context"

// Document identifies the document receiving the drop.
type Document struct {
	// Path is the document's filesystem path.
	Path string `json:"path"`
	// LanguageID is the editor language of the document, e.g. "markdown".
	LanguageID string `json:"languageId"`
}

// Position is a zero-based line/character location in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Workspace is the host's view of open project folders and its edit
// application primitive.
type Workspace interface {
	// Folders returns the open workspace roots; empty when none is open.
	Folders() []string
	// ApplyEdit applies edit as a unit and reports whether it was applied.
	ApplyEdit(ctx context.Context, edit *WorkspaceEdit) (bool, error)
}

// DataTransfer holds the items of one drag-and-drop gesture keyed by MIME type.
type DataTransfer interface {
	Get(mime string) (DataTransferItem, bool)
}

// DataTransferItem is a single transferred value.
type DataTransferItem interface {
	AsString(ctx context.Context) (string, error)
}

// FileSystem writes copied resources.
type FileSystem interface {
	// CreateAndWrite creates path if it does not exist and writes data to it.
	CreateAndWrite(ctx context.Context, path string, data []byte) error
}

// MapTransfer is a DataTransfer backed by a map of MIME type to string value.
type MapTransfer map[string]string

// Get returns the item stored under mime.
func (m MapTransfer) Get(mime string) (DataTransferItem, bool) {
	v, ok := m[mime]
	if !ok {
		return nil, false
	}
	return stringItem(v), true
}

type stringItem string

func (s stringItem) AsString(_ context.Context) (string, error) {
	return string(s), nil
}
