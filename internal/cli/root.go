package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Import restaurant catalogs and manage the catalog database.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(newImportCommand(deps))
	root.AddCommand(newSchemaCommand(deps))
	return root
}
