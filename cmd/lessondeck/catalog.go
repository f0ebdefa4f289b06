package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/lessondeck/internal/cli"
	"github.com/at-ishikawa/lessondeck/internal/guide"
	"github.com/at-ishikawa/lessondeck/internal/pdf"
	"github.com/at-ishikawa/lessondeck/internal/progress"
)

type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportPDF      ExportFormat = "pdf"
)

// Set implements pflag.Value.
func (f *ExportFormat) Set(v string) error {
	switch v {
	case string(ExportMarkdown), "md":
		*f = ExportMarkdown
	case string(ExportPDF):
		*f = ExportPDF
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, ExportMarkdown, ExportPDF)
	}
	return nil
}

// String implements pflag.Value.
func (f *ExportFormat) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *ExportFormat) Type() string {
	return "ExportFormat"
}

var (
	_ pflag.Value = (*ExportFormat)(nil)
)

func newCatalogCommand() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Read the course catalog from the spreadsheet",
	}
	catalogCmd.AddCommand(newCatalogListCommand())
	catalogCmd.AddCommand(newCatalogExportCommand())
	return catalogCmd
}

func newCatalogListCommand() *cobra.Command {
	var module string

	command := &cobra.Command{
		Use:   "list",
		Short: "List modules and lessons in course order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loader, closeLoader, err := newCatalogLoader(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeLoader()
			}()

			result, err := loader.Load(cmd.Context(), module)
			if err != nil {
				return fmt.Errorf("loader.Load > %w", err)
			}
			cli.NewCatalogPrinter(cmd.OutOrStdout()).PrintCatalog(*result, nil)
			return nil
		},
	}
	command.Flags().StringVar(&module, "module", "", "only list lessons of this module")
	return command
}

func newCatalogExportCommand() *cobra.Command {
	var module string
	var userID string
	var title string
	var landscape bool
	format := ExportMarkdown

	command := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as a study guide",
		Long:  "Export the catalog as a markdown study guide, optionally converted to PDF. With --user, completed lessons are checked off.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loader, closeLoader, err := newCatalogLoader(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeLoader()
			}()

			result, err := loader.Load(ctx, module)
			if err != nil {
				return fmt.Errorf("loader.Load > %w", err)
			}

			record := progress.Record{UserID: userID}
			if userID != "" {
				store, closeStore, err := newProgressStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() {
					_ = closeStore()
				}()
				if record, err = store.Record(ctx, userID); err != nil {
					return fmt.Errorf("store.Record(%s) > %w", userID, err)
				}
			}

			name := "course"
			if module != "" {
				name = module
			}
			if title == "" {
				title = "Course guide"
				if module != "" {
					title = module
				}
			}
			data := guide.NewTemplateData(title, result.Catalog, record, time.Now())
			writer := guide.NewWriter(cfg.Templates.CourseGuideTemplate, cfg.Outputs.GuideDirectory, pdf.Options{Landscape: landscape})
			path, err := writer.Write(name, data, format == ExportPDF)
			if err != nil {
				return fmt.Errorf("writer.Write > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Study guide written to %s\n", path)
			return nil
		},
	}
	command.Flags().StringVar(&module, "module", "", "only export this module")
	command.Flags().StringVar(&userID, "user", "", "check off lessons completed by this user")
	command.Flags().StringVar(&title, "title", "", "guide title")
	command.Flags().BoolVar(&landscape, "landscape", false, "landscape pages for PDF output")
	command.Flags().Var(&format, "format", "output format: markdown or pdf")
	return command
}
