package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-catalog/internal/importer"
	"github.com/iliyamo/restaurant-catalog/internal/repository"
	"github.com/iliyamo/restaurant-catalog/internal/service"
)

func newImportCommand(deps Dependencies) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a catalog document into the database.",
		Long: "Reads a JSON catalog document from a file, or from stdin when the argument is -, " +
			"and reconciles it against the database.  Exits 2 when the import reports failure.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ParseFormat(format)
			if err != nil {
				return err
			}
			raw, err := readDocument(args[0], deps.Stdin)
			if err != nil {
				return err
			}
			if strings.TrimSpace(string(raw)) == "" {
				return errors.New("empty JSON data")
			}
			var doc json.RawMessage
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("invalid JSON format: %w", err)
			}

			ctx := cmd.Context()
			db, err := deps.OpenDB(ctx)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			store := repository.NewCatalogStore(db)
			svc := service.NewImportService(importer.New(store, deps.logger()), deps.logger())

			out, err := svc.Run(ctx, "cli", doc)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			if err := render(cmd.OutOrStdout(), out.Result, f); err != nil {
				return err
			}
			if !out.Result.Success {
				return &exitError{code: 2}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml.")
	return cmd
}

func readDocument(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
