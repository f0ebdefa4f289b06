package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/spreadsheet"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and the spreadsheet it points at",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "✓ Configuration is valid")

			loader, closeLoader, err := newCatalogLoader(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeLoader()
			}()

			result, err := loader.Load(cmd.Context(), "")
			if err != nil {
				displayLoadError(out, err)
				return fmt.Errorf("validation failed: %w", err)
			}
			displayValidationResults(out, result.Catalog)
			return nil
		},
	}
}

func displayLoadError(out io.Writer, err error) {
	var schemaErr *catalog.SchemaError
	var fetchErr *spreadsheet.FetchError
	switch {
	case errors.As(err, &schemaErr):
		_, _ = fmt.Fprintf(out, "✗ Spreadsheet is missing required columns (%d):\n", len(schemaErr.Missing))
		for _, column := range schemaErr.Missing {
			_, _ = fmt.Fprintf(out, "  - %s\n", column)
		}
	case errors.As(err, &fetchErr):
		_, _ = fmt.Fprintf(out, "✗ Spreadsheet could not be downloaded after %d attempt(s)\n", fetchErr.Attempts)
		if fetchErr.StatusCode != 0 {
			_, _ = fmt.Fprintf(out, "  HTTP status: %d\n", fetchErr.StatusCode)
		}
	default:
		_, _ = fmt.Fprintf(out, "✗ %v\n", err)
	}
}

func displayValidationResults(out io.Writer, courseCatalog *catalog.Catalog) {
	lessons := len(courseCatalog.Lessons())
	_, _ = fmt.Fprintf(out, "✓ %d module(s), %d lesson(s)\n", len(courseCatalog.Modules), lessons)

	if len(courseCatalog.Defects) == 0 {
		_, _ = fmt.Fprintln(out, "✓ All rows passed!")
		return
	}
	_, _ = fmt.Fprintf(out, "⚠ Skipped rows (%d):\n", len(courseCatalog.Defects))
	for _, defect := range courseCatalog.Defects {
		_, _ = fmt.Fprintf(out, "  - %s\n", defect)
	}
}
