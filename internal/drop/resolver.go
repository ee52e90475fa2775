package drop

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/eykd/imgdrop-go/internal/fetch"
	"github.com/eykd/imgdrop-go/internal/urilist"
)

// OutcomeKind classifies how a dropped resource was resolved.
type OutcomeKind int

const (
	// OutcomeFailed means the resource could not be resolved and is left out of the snippet.
	OutcomeFailed OutcomeKind = iota
	// OutcomeReferenced means the resource already lives beside the document.
	OutcomeReferenced
	// OutcomeCopied means the resource was copied next to the document.
	OutcomeCopied
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeReferenced:
		return "referenced"
	case OutcomeCopied:
		return "copied"
	default:
		return "failed"
	}
}

// MarshalText encodes the kind by name.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the resolution of one resource.
type Outcome struct {
	Resource urilist.Resource
	Kind     OutcomeKind
	// Path is the absolute path the snippet refers to; empty when Failed.
	Path string
	// Err is the failure reason when Failed.
	Err error
	// Code classifies Err.
	Code Code
}

// OK reports whether the outcome contributes to the snippet.
func (o Outcome) OK() bool {
	return o.Kind != OutcomeFailed
}

// MarshalJSON encodes the outcome with its URI and error text.
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := struct {
		URI   string      `json:"uri"`
		Kind  OutcomeKind `json:"kind"`
		Path  string      `json:"path,omitempty"`
		Error string      `json:"error,omitempty"`
		Code  Code        `json:"code,omitempty"`
	}{URI: o.Resource.String(), Kind: o.Kind, Path: o.Path, Code: o.Code}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

func failed(res urilist.Resource, code Code, err error) Outcome {
	return Outcome{Resource: res, Kind: OutcomeFailed, Err: err, Code: code}
}

// CopyMode selects which resources are copied.
type CopyMode string

const (
	// CopyConditional copies only resources outside the document's directory.
	CopyConditional CopyMode = "conditional"
	// CopyAlways copies every resource, even those already beside the document.
	CopyAlways CopyMode = "always"
)

// NameGenerator returns a fresh base name for a copied resource, without extension.
type NameGenerator func() (string, error)

// UUIDNames generates random (version 4) UUID names.
func UUIDNames() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Resolver classifies dropped resources and copies foreign ones next to the
// target document.
type Resolver struct {
	reader fetch.Reader
	fs     FileSystem
	names  NameGenerator
	mode   CopyMode
}

// NewResolver returns a Resolver that reads sources with reader and writes
// copies with fs. A nil names uses UUIDNames; an empty mode is conditional.
func NewResolver(reader fetch.Reader, fs FileSystem, names NameGenerator, mode CopyMode) *Resolver {
	if names == nil {
		names = UUIDNames
	}
	if mode == "" {
		mode = CopyConditional
	}
	return &Resolver{reader: reader, fs: fs, names: names, mode: mode}
}

// dropContext is the state shared by the resolver tasks of one drop.
type dropContext struct {
	// dir is the document's canonical directory, fixed for the whole drop.
	dir  string
	edit *WorkspaceEdit
}

// canonicalDir returns the absolute, cleaned directory containing path.
func canonicalDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}

// isLocal reports whether res is a file directly inside dir.
func isLocal(res urilist.Resource, dir string) (string, bool) {
	if !res.IsFile() || res.Path() == "" {
		return "", false
	}
	src, err := filepath.Abs(res.FilePath())
	if err != nil {
		return "", false
	}
	return src, filepath.Dir(src) == dir
}

// resolve resolves one resource. Failures are reported in the Outcome,
// never returned.
func (r *Resolver) resolve(ctx context.Context, dc *dropContext, res urilist.Resource) Outcome {
	if src, ok := isLocal(res, dc.dir); ok && r.mode != CopyAlways {
		return Outcome{Resource: res, Kind: OutcomeReferenced, Path: src}
	}

	data, err := r.reader.ReadResource(ctx, res)
	if err != nil {
		return failed(res, DRP001, fmt.Errorf("reading %s: %w", res, err))
	}

	name, err := r.names()
	if err != nil {
		return failed(res, DRP002, fmt.Errorf("generating name: %w", err))
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return failed(res, DRP002, fmt.Errorf("generated name %q is not a plain file name", name))
	}
	dest := filepath.Join(dc.dir, name+res.Ext())

	if err := r.fs.CreateAndWrite(ctx, dest, data); err != nil {
		return failed(res, DRP003, fmt.Errorf("writing %s: %w", dest, err))
	}
	dc.edit.CreateFile(dest, true)

	return Outcome{Resource: res, Kind: OutcomeCopied, Path: dest}
}
