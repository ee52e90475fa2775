package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/imgdrop-go/internal/config"
	"github.com/eykd/imgdrop-go/internal/drop"
	"github.com/eykd/imgdrop-go/internal/fetch"
	"github.com/eykd/imgdrop-go/internal/logging"
	"github.com/eykd/imgdrop-go/internal/snippet"
	"github.com/eykd/imgdrop-go/internal/urilist"
)

// DropIO handles I/O for the drop command.
type DropIO interface {
	LoadConfig(workspace string) (config.Config, error)
	NewReader(opts fetch.HTTPOptions) fetch.Reader
	CreateAndWrite(ctx context.Context, path string, data []byte) error
	CreateFile(ctx context.Context, path string, ignoreIfExists bool) error
	ReadDocument(path string) ([]byte, error)
	WriteDocumentAtomic(path string, content []byte) error
}

// dropOutput is the JSON output schema for the drop command.
type dropOutput struct {
	Version string         `json:"version"`
	Changed bool           `json:"changed"`
	Edit    *drop.DropEdit `json:"edit"`
}

// NewDropCmd creates the drop subcommand.
func NewDropCmd(io DropIO) *cobra.Command {
	return newDropCmdWithGetCWD(io, os.Getwd)
}

func newDropCmdWithGetCWD(dio DropIO, getwd func() (string, error)) *cobra.Command {
	var (
		workspace string
		payload   string
		line      int
		character int
		insert    bool
		jsonMode  bool
		style     string
		caption   string
		copyMode  string
	)

	cmd := &cobra.Command{
		Use:   "drop <document>",
		Short: "Drop a uri-list onto a document and print the resulting snippet",
		Long: "Reads a text/uri-list payload (from --payload or stdin), copies resources\n" +
			"that do not live beside the document into its directory, and prints the\n" +
			"Markdown snippet referencing them.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace(workspace, getwd)
			if err != nil {
				return err
			}

			cfg, err := dio.LoadConfig(ws)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("style") {
				cfg.Style = style
			}
			if cmd.Flags().Changed("caption") {
				cfg.Caption = caption
			}
			if cmd.Flags().Changed("copy-mode") {
				cfg.CopyMode = copyMode
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closer, err := logging.New(cmd.ErrOrStderr(), cfg.Level(), cfg.Log.File)
			if err != nil {
				return fmt.Errorf("opening log: %w", err)
			}
			defer closer.Close()

			if !cmd.Flags().Changed("payload") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading payload: %w", err)
				}
				payload = string(data)
			}

			docPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving document path: %w", err)
			}
			doc := drop.Document{Path: docPath, LanguageID: drop.LanguageForPath(docPath)}
			pos := drop.Position{Line: line, Character: character}

			reader := dio.NewReader(fetch.HTTPOptions{Timeout: cfg.HTTP.Timeout, MaxBytes: cfg.HTTP.MaxBytes})
			if c, ok := reader.(io.Closer); ok {
				defer c.Close()
			}
			provider := drop.NewProvider(
				&dirWorkspace{root: ws, io: dio},
				drop.NewResolver(reader, dio, nil, cfg.Mode()),
				drop.WithMarkup(cfg.Markup()),
				drop.WithLogger(logger),
			)

			edit := provider.ProvideDropEdit(cmd.Context(), doc, pos, drop.MapTransfer{urilist.MIME: payload})

			changed := false
			if edit != nil && insert && edit.InsertText.Placeholders() > 0 {
				content, err := dio.ReadDocument(docPath)
				if err != nil {
					return fmt.Errorf("reading document: %w", err)
				}
				updated := insertAt(content, pos, snippet.Render(edit.InsertText.Value()))
				if err := dio.WriteDocumentAtomic(docPath, updated); err != nil {
					return fmt.Errorf("writing document: %w", err)
				}
				changed = true
			}

			if jsonMode {
				out := dropOutput{Version: "1", Changed: changed, Edit: edit}
				if encErr := json.NewEncoder(cmd.OutOrStdout()).Encode(out); encErr != nil {
					return fmt.Errorf("encoding output: %w", encErr)
				}
				return nil
			}

			if edit == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "nothing to drop")
				return nil
			}
			printDiagnostics(cmd, edit.Diagnostics)
			if !insert {
				fmt.Fprint(cmd.OutOrStdout(), edit.InsertText.Value())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "workspace root (default: current directory)")
	cmd.Flags().StringVar(&payload, "payload", "", "uri-list payload (default: read stdin)")
	cmd.Flags().IntVar(&line, "line", 0, "zero-based drop line")
	cmd.Flags().IntVar(&character, "character", 0, "zero-based drop character")
	cmd.Flags().BoolVar(&insert, "insert", false, "insert the rendered snippet into the document")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output result as JSON")
	cmd.Flags().StringVar(&style, "style", "", "markup style: auto, image, or link")
	cmd.Flags().StringVar(&caption, "caption", "", "placeholder default: none, name, or stem")
	cmd.Flags().StringVar(&copyMode, "copy-mode", "", "conditional or always")

	return cmd
}

// dirWorkspace is a drop.Workspace rooted at a local directory.
type dirWorkspace struct {
	root string
	io   DropIO
}

// Folders returns the workspace root, or nothing when no root is set.
func (w *dirWorkspace) Folders() []string {
	if w.root == "" {
		return nil
	}
	return []string{w.root}
}

// ApplyEdit performs the staged file creations in order.
func (w *dirWorkspace) ApplyEdit(ctx context.Context, edit *drop.WorkspaceEdit) (bool, error) {
	for _, op := range edit.Operations() {
		if op.Kind != "create" {
			return false, fmt.Errorf("unsupported operation %q", op.Kind)
		}
		if err := w.io.CreateFile(ctx, op.Path, op.IgnoreIfExists); err != nil {
			return false, fmt.Errorf("creating %s: %w", op.Path, err)
		}
	}
	return true, nil
}

// fileDropIO implements DropIO using OS file I/O.
type fileDropIO struct{}

func newDefaultDropIO() *fileDropIO {
	return &fileDropIO{}
}

// LoadConfig reads the workspace configuration and environment overrides.
func (f *fileDropIO) LoadConfig(workspace string) (config.Config, error) {
	return config.Load(workspace, os.Getenv)
}

// NewReader returns a reader for file, http, and https resources.
func (f *fileDropIO) NewReader(opts fetch.HTTPOptions) fetch.Reader {
	return fetch.NewDefault(opts)
}

// CreateAndWrite writes data to path atomically, creating it if needed.
func (f *fileDropIO) CreateAndWrite(_ context.Context, path string, data []byte) error {
	return writeFileAtomicImpl(path, ".imgdrop", data, 0o644)
}

// CreateFile creates an empty file at path. An existing file is an error
// unless ignoreIfExists is set.
func (f *fileDropIO) CreateFile(_ context.Context, path string, ignoreIfExists bool) error {
	return createFileImpl(path, 0o644, ignoreIfExists)
}

// ReadDocument reads the document at path.
func (f *fileDropIO) ReadDocument(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteDocumentAtomic replaces the document at path, keeping its permissions.
func (f *fileDropIO) WriteDocumentAtomic(path string, content []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return writeFileAtomicImpl(path, ".doc", content, perm)
}
