// Package datasync provides import/export orchestration between progress stores and YAML files.
package datasync

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/at-ishikawa/lessondeck/internal/progress"
)

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	LessonsNew     int
	LessonsUpdated int
	LessonsSkipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer copies progress records into a target store.
type Importer struct {
	target progress.Store
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(target progress.Store, writer io.Writer) *Importer {
	return &Importer{
		target: target,
		writer: writer,
	}
}

// ImportProgress writes every lesson flag of records into the target store.
// Flags the target already holds are skipped unless UpdateExisting is set and
// the value differs.
func (imp *Importer) ImportProgress(ctx context.Context, records []progress.Record, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	sorted := make([]progress.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UserID < sorted[j].UserID
	})

	for _, record := range sorted {
		existing, err := imp.target.Record(ctx, record.UserID)
		if err != nil {
			return nil, fmt.Errorf("load existing progress of %s: %w", record.UserID, err)
		}

		for _, moduleID := range sortedKeys(record.Modules) {
			lessons := record.Modules[moduleID]
			for _, lessonID := range sortedKeys(lessons) {
				completed := lessons[lessonID]
				current, found := existing.Modules[moduleID][lessonID]
				switch {
				case !found:
					_, _ = fmt.Fprintf(imp.writer, "  [NEW]  %s %s/%s = %t\n", record.UserID, moduleID, lessonID, completed)
					result.LessonsNew++
				case current != completed && opts.UpdateExisting:
					_, _ = fmt.Fprintf(imp.writer, "  [UPDATE]  %s %s/%s = %t\n", record.UserID, moduleID, lessonID, completed)
					result.LessonsUpdated++
				default:
					_, _ = fmt.Fprintf(imp.writer, "  [SKIP]  %s %s/%s\n", record.UserID, moduleID, lessonID)
					result.LessonsSkipped++
					continue
				}

				if opts.DryRun {
					continue
				}
				if err := imp.target.SetComplete(ctx, record.UserID, moduleID, lessonID, completed); err != nil {
					return nil, fmt.Errorf("set progress of %s %s/%s: %w", record.UserID, moduleID, lessonID, err)
				}
			}
		}
	}

	return &result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
