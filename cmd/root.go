// Package cmd implements the imgdrop CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eykd/imgdrop-go/internal/drop"
)

// NewRootCmd creates the root imgdrop command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "imgdrop",
		Short:         "imgdrop - drop images and files into Markdown documents",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.AddCommand(NewDropCmd(newDefaultDropIO()))
	root.AddCommand(NewInitCmd(newDefaultInitIO()))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// resolveWorkspace returns workspace, or the current directory when it is empty.
func resolveWorkspace(workspace string, getwd func() (string, error)) (string, error) {
	if workspace != "" {
		return workspace, nil
	}
	if getwd == nil {
		getwd = os.Getwd
	}
	cwd, err := getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// printDiagnostics writes each diagnostic to stderr in human-readable form.
func printDiagnostics(cmd *cobra.Command, diags []drop.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%s)\n", d.Severity, sanitizeText(d.Message), d.Code)
	}
}
