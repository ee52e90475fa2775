package drop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/imgdrop-go/internal/urilist"
)

func res(t *testing.T, uri string) urilist.Resource {
	t.Helper()
	rs := urilist.Parse(uri)
	require.Len(t, rs, 1)
	return rs[0]
}

func TestResolve_SameDirectoryIsReferencedWithoutIO(t *testing.T) {
	reader := newFakeReader()
	fs := newMemFS()
	r := NewResolver(reader, fs, counterNames(), CopyConditional)
	dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

	out := r.resolve(context.Background(), dc, res(t, "file:///proj/./pic.png"))

	assert.Equal(t, OutcomeReferenced, out.Kind)
	assert.Equal(t, "/proj/pic.png", out.Path)
	assert.Zero(t, reader.readCount())
	assert.Empty(t, fs.files)
	assert.Zero(t, dc.edit.Len())
}

func TestResolve_SubdirectoryIsCopied(t *testing.T) {
	reader := newFakeReader()
	reader.data["file:///proj/img/pic.png"] = []byte("px")
	fs := newMemFS()
	r := NewResolver(reader, fs, counterNames(), CopyConditional)
	dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

	out := r.resolve(context.Background(), dc, res(t, "file:///proj/img/pic.png"))

	require.Equal(t, OutcomeCopied, out.Kind, "err: %v", out.Err)
	assert.Equal(t, "/proj/n1.png", out.Path)
	assert.Equal(t, []byte("px"), fs.files["/proj/n1.png"])
}

func TestResolve_ForeignFileIsCopiedWithUUIDName(t *testing.T) {
	reader := newFakeReader()
	reader.data["file:///tmp/x.png"] = []byte("PNG")
	fs := newMemFS()
	r := NewResolver(reader, fs, nil, "")
	dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

	out := r.resolve(context.Background(), dc, res(t, "file:///tmp/x.png"))

	require.Equal(t, OutcomeCopied, out.Kind, "err: %v", out.Err)
	assert.Equal(t, "/proj", filepath.Dir(out.Path))
	base := filepath.Base(out.Path)
	require.True(t, strings.HasSuffix(base, ".png"))
	id, err := uuid.Parse(strings.TrimSuffix(base, ".png"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
	assert.Equal(t, []byte("PNG"), fs.files[out.Path])

	ops := dc.edit.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, FileOperation{Kind: "create", Path: out.Path, IgnoreIfExists: true}, ops[0])
}

func TestResolve_NoExtensionKeepsBareName(t *testing.T) {
	reader := newFakeReader()
	reader.data["file:///tmp/LICENSE"] = []byte("text")
	r := NewResolver(reader, newMemFS(), counterNames(), CopyConditional)
	dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

	out := r.resolve(context.Background(), dc, res(t, "file:///tmp/LICENSE"))

	require.Equal(t, OutcomeCopied, out.Kind)
	assert.Equal(t, "/proj/n1", out.Path)
}

func TestResolve_HiddenFileHasNoExtension(t *testing.T) {
	reader := newFakeReader()
	reader.data["file:///tmp/.gitignore"] = []byte("*.tmp\n")
	reader.data["file:///tmp/.config.yml"] = []byte("a: 1\n")
	r := NewResolver(reader, newMemFS(), counterNames(), CopyConditional)
	dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

	out := r.resolve(context.Background(), dc, res(t, "file:///tmp/.gitignore"))
	require.Equal(t, OutcomeCopied, out.Kind, "err: %v", out.Err)
	assert.Equal(t, "/proj/n1", out.Path)

	out = r.resolve(context.Background(), dc, res(t, "file:///tmp/.config.yml"))
	require.Equal(t, OutcomeCopied, out.Kind, "err: %v", out.Err)
	assert.Equal(t, "/proj/n2.yml", out.Path)
}

func TestResolve_CopyAlwaysCopiesLocalFiles(t *testing.T) {
	reader := newFakeReader()
	reader.data["file:///proj/pic.png"] = []byte("px")
	r := NewResolver(reader, newMemFS(), counterNames(), CopyAlways)
	dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

	out := r.resolve(context.Background(), dc, res(t, "file:///proj/pic.png"))

	assert.Equal(t, OutcomeCopied, out.Kind)
	assert.Equal(t, "/proj/n1.png", out.Path)
}

func TestResolve_RemoteResourceInSamePathIsStillCopied(t *testing.T) {
	reader := newFakeReader()
	reader.data["https://cdn.example/proj/pic.png"] = []byte("px")
	r := NewResolver(reader, newMemFS(), counterNames(), CopyConditional)
	dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

	out := r.resolve(context.Background(), dc, res(t, "https://cdn.example/proj/pic.png"))

	assert.Equal(t, OutcomeCopied, out.Kind)
}

func TestResolve_Failures(t *testing.T) {
	errDisk := errors.New("disk full")
	tests := []struct {
		name     string
		setup    func(*fakeReader, *memFS)
		names    NameGenerator
		wantCode Code
		wantErr  error
	}{
		{
			name:     "read error",
			setup:    func(r *fakeReader, _ *memFS) { r.errs["file:///tmp/x.png"] = os.ErrPermission },
			wantCode: DRP001,
			wantErr:  os.ErrPermission,
		},
		{
			name:     "name generator error",
			setup:    func(r *fakeReader, _ *memFS) { r.data["file:///tmp/x.png"] = []byte("x") },
			names:    func() (string, error) { return "", errDisk },
			wantCode: DRP002,
			wantErr:  errDisk,
		},
		{
			name:     "name with separator",
			setup:    func(r *fakeReader, _ *memFS) { r.data["file:///tmp/x.png"] = []byte("x") },
			names:    func() (string, error) { return "../escape", nil },
			wantCode: DRP002,
		},
		{
			name: "write error",
			setup: func(r *fakeReader, fs *memFS) {
				r.data["file:///tmp/x.png"] = []byte("x")
				fs.failOn[".png"] = errDisk
			},
			wantCode: DRP003,
			wantErr:  errDisk,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := newFakeReader()
			fs := newMemFS()
			tt.setup(reader, fs)
			names := tt.names
			if names == nil {
				names = counterNames()
			}
			r := NewResolver(reader, fs, names, CopyConditional)
			dc := &dropContext{dir: "/proj", edit: NewWorkspaceEdit()}

			out := r.resolve(context.Background(), dc, res(t, "file:///tmp/x.png"))

			assert.Equal(t, OutcomeFailed, out.Kind)
			assert.False(t, out.OK())
			assert.Equal(t, tt.wantCode, out.Code)
			require.Error(t, out.Err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, out.Err, tt.wantErr)
			}
			assert.Empty(t, out.Path)
			assert.Zero(t, dc.edit.Len(), "failed copies must not be staged")
		})
	}
}

func TestOutcome_MarshalJSON(t *testing.T) {
	o := failed(res(t, "file:///tmp/x.png"), DRP001, errors.New("boom"))
	b, err := o.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"uri":"file:///tmp/x.png","kind":"failed","error":"boom","code":"DRP001"}`, string(b))
}

func TestCanonicalDir(t *testing.T) {
	got, err := canonicalDir("/proj/sub/../doc.md")
	require.NoError(t, err)
	assert.Equal(t, "/proj", got)
}
