package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/cli"
	"github.com/at-ishikawa/lessondeck/internal/database"
	"github.com/at-ishikawa/lessondeck/internal/datasync"
	"github.com/at-ishikawa/lessondeck/internal/progress"
)

type userLister interface {
	Users(ctx context.Context) ([]string, error)
}

func newProgressCommand() *cobra.Command {
	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Show and update lesson completion",
	}
	progressCmd.AddCommand(
		newProgressShowCommand(),
		newProgressToggleCommand(),
		newProgressExportCommand(),
		newProgressImportDBCommand(),
	)
	return progressCmd
}

func newProgressShowCommand() *cobra.Command {
	var userID string
	var module string

	command := &cobra.Command{
		Use:   "show",
		Short: "Show the catalog with the lessons a user has completed",
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
			store, closeStore, err := newProgressStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			result, err := loader.Load(ctx, module)
			if err != nil {
				return fmt.Errorf("loader.Load > %w", err)
			}
			record, err := store.Record(ctx, userID)
			if err != nil {
				return fmt.Errorf("store.Record(%s) > %w", userID, err)
			}
			cli.NewCatalogPrinter(cmd.OutOrStdout()).PrintCatalog(*result, &record)
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id")
	command.Flags().StringVar(&module, "module", "", "only show this module")
	_ = command.MarkFlagRequired("user")
	return command
}

func newProgressToggleCommand() *cobra.Command {
	var userID string

	command := &cobra.Command{
		Use:   "toggle <module> <lesson id>",
		Short: "Flip the completion of a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := newProgressStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			moduleID := catalog.ModuleID(args[0])
			lessonID := args[1]
			completed, err := store.ToggleComplete(ctx, userID, moduleID, lessonID)
			if err != nil {
				return fmt.Errorf("store.ToggleComplete(%s, %s) > %w", moduleID, lessonID, err)
			}
			cli.NewCatalogPrinter(cmd.OutOrStdout()).PrintToggle(moduleID, lessonID, completed)
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id")
	_ = command.MarkFlagRequired("user")
	return command
}

func newProgressExportCommand() *cobra.Command {
	var userID string
	var outputDir string

	command := &cobra.Command{
		Use:   "export",
		Short: "Export progress to progress.yml",
		Long:  "Export the progress of one user, or of every user of the file backend when --user is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := newProgressStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			records, err := loadRecords(ctx, store, userID)
			if err != nil {
				return err
			}
			if err := datasync.NewYAMLProgressSink(outputDir).WriteAll(records); err != nil {
				return fmt.Errorf("sink.WriteAll > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d user(s) to %s\n", len(records), outputDir)
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "user id")
	command.Flags().StringVar(&outputDir, "output-dir", "outputs", "directory to write progress.yml into")
	return command
}

func newProgressImportDBCommand() *cobra.Command {
	var userID string
	var dryRun bool
	var updateExisting bool

	command := &cobra.Command{
		Use:   "import-db",
		Short: "Import progress files into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Connect(ctx, cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			source := progress.NewFileStore(cfg.Progress.Directory)
			records, err := loadRecords(ctx, source, userID)
			if err != nil {
				return err
			}

			importer := datasync.NewImporter(progress.NewDBStore(db), cmd.OutOrStdout())
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.ImportProgress(ctx, records, opts)
			if err != nil {
				return fmt.Errorf("import progress: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, _ = fmt.Fprintf(out, "  Lessons:  %d new, %d skipped, %d updated\n", result.LessonsNew, result.LessonsSkipped, result.LessonsUpdated)
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "only import this user")
	command.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing")
	command.Flags().BoolVar(&updateExisting, "update-existing", false, "overwrite flags that differ in the database")
	return command
}

// loadRecords returns the record of userID, or every record when userID is
// blank and the store can list its users.
func loadRecords(ctx context.Context, store progress.Store, userID string) ([]progress.Record, error) {
	if userID != "" {
		record, err := store.Record(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("store.Record(%s) > %w", userID, err)
		}
		return []progress.Record{record}, nil
	}

	lister, ok := store.(userLister)
	if !ok {
		return nil, errors.New("--user is required for this progress backend")
	}
	users, err := lister.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("Users > %w", err)
	}
	records := make([]progress.Record, 0, len(users))
	for _, user := range users {
		record, err := store.Record(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("store.Record(%s) > %w", user, err)
		}
		records = append(records, record)
	}
	return records, nil
}
