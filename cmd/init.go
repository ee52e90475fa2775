package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/imgdrop-go/internal/config"
)

// InitIO handles I/O for the init command.
type InitIO interface {
	StatFile(path string) (bool, error)
	WriteFileAtomic(path string, content []byte) error
}

// NewInitCmd creates the init subcommand.
func NewInitCmd(io InitIO) *cobra.Command {
	return newInitCmdWithGetCWD(io, os.Getwd)
}

func newInitCmdWithGetCWD(io InitIO, getwd func() (string, error)) *cobra.Command {
	var (
		workspace string
		force     bool
	)

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Write a default " + config.FileName + " into the workspace",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := resolveWorkspace(workspace, getwd)
			if err != nil {
				return err
			}
			configPath := filepath.Join(ws, config.FileName)

			exists, err := io.StatFile(configPath)
			if err != nil {
				return fmt.Errorf("checking %s: %w", configPath, err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.FileName, ws)
			}

			content, err := config.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			if err := io.WriteFileAtomic(configPath, content); err != nil {
				return fmt.Errorf("writing %s: %w", config.FileName, err)
			}

			if exists {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: overwriting existing "+config.FileName)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Initialized "+sanitizeText(ws))
			return nil
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "workspace root (default: current directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

// fileInitIO implements InitIO using OS file I/O.
type fileInitIO struct{}

func newDefaultInitIO() *fileInitIO {
	return &fileInitIO{}
}

// StatFile returns true if the file at path exists, false if it does not.
// Returns an error only for unexpected OS errors.
func (f *fileInitIO) StatFile(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomic writes content to path atomically with 0644 permissions.
func (f *fileInitIO) WriteFileAtomic(path string, content []byte) error {
	return writeFileAtomicImpl(path, ".init", content, 0o644)
}
