package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-catalog/internal/database"
)

func newSchemaCommand(deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the catalog tables if they do not exist.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := deps.OpenDB(ctx)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			if err := database.EnsureSchema(ctx, db); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
