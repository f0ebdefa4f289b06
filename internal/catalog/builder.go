package catalog

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/at-ishikawa/lessondeck/internal/embed"
)

// Builder parses spreadsheet rows into a Catalog.
type Builder struct {
	columns Columns
}

func NewBuilder(columns Columns) *Builder {
	return &Builder{columns: columns}
}

// moduleGroup collects the lessons of one module before they are sorted.
type moduleGroup struct {
	name    string
	lessons []Lesson
}

// Build parses rows into modules, checking the schema against the labels the
// rows carry. See BuildSheet.
func (b *Builder) Build(rows []Row, moduleFilter string) (*Catalog, error) {
	return b.BuildSheet(Sheet{Rows: rows}, moduleFilter)
}

// BuildSheet parses a sheet into modules. When moduleFilter is not blank only
// that module is kept. A sheet missing required columns yields a *SchemaError
// and no catalog; a row that cannot be read is skipped and recorded as a
// defect. The header row is checked even when no data rows follow it.
func (b *Builder) BuildSheet(sheet Sheet, moduleFilter string) (*Catalog, error) {
	rows := sheet.Rows
	if len(rows) == 0 && len(sheet.Columns) == 0 {
		return &Catalog{}, nil
	}

	present := make(map[string]bool, len(sheet.Columns))
	for _, label := range sheet.Columns {
		present[normalizeLabel(label)] = true
	}
	normalized := make([]map[string]any, len(rows))
	for i, row := range rows {
		labels := make([]string, 0, len(row))
		for label := range row {
			labels = append(labels, label)
		}
		// Labels differing only in case or spacing collapse; sorting keeps
		// the winner stable across runs.
		sort.Strings(labels)
		normalized[i] = make(map[string]any, len(row))
		for _, label := range labels {
			key := normalizeLabel(label)
			normalized[i][key] = row[label]
			present[key] = true
		}
	}
	var missing []string
	for _, label := range b.columns.Required() {
		if !present[normalizeLabel(label)] {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	filterID := ModuleID(moduleFilter)
	result := &Catalog{}
	groups := make(map[string]*moduleGroup)
	var moduleOrder []string

	for i, row := range normalized {
		module, err := cellText(row[normalizeLabel(b.columns.Module)])
		if err != nil {
			result.Defects = append(result.Defects, RowDefect{
				Index:  i,
				Reason: fmt.Sprintf("column %q: %v", b.columns.Module, err),
			})
			continue
		}
		if optional(module) == nil {
			continue
		}
		moduleID := ModuleID(module)
		if filterID != "" && moduleID != filterID {
			continue
		}

		lesson, err := b.parseRow(i, row, module)
		if err != nil {
			result.Defects = append(result.Defects, RowDefect{Index: i, Reason: err.Error()})
			continue
		}

		group, ok := groups[moduleID]
		if !ok {
			group = &moduleGroup{name: lesson.Module}
			groups[moduleID] = group
			moduleOrder = append(moduleOrder, moduleID)
		}
		group.lessons = append(group.lessons, lesson)
	}

	for _, id := range moduleOrder {
		group := groups[id]
		sort.SliceStable(group.lessons, func(i, j int) bool {
			return group.lessons[i].Order < group.lessons[j].Order
		})
		assignIDs(id, group.name, group.lessons)
		result.Modules = append(result.Modules, Module{
			ID:      id,
			Name:    group.name,
			Lessons: group.lessons,
		})
	}

	if len(result.Defects) > 0 {
		slog.Default().Debug("skipped spreadsheet rows",
			slog.Int("defects", len(result.Defects)),
			slog.Int("rows", len(rows)),
		)
	}
	return result, nil
}

// parseRow reads the lesson of a row whose module is already known. Only an
// unreadable order fails the row; any other unreadable cell is treated as blank.
func (b *Builder) parseRow(index int, row map[string]any, module string) (Lesson, error) {
	cols := b.columns
	text := func(label string) string {
		if label == "" {
			return ""
		}
		value, err := cellText(row[normalizeLabel(label)])
		if err != nil {
			slog.Default().Debug("treating unreadable cell as blank",
				slog.Int("row", index),
				slog.String("column", label),
				slog.Any("error", err),
			)
			return ""
		}
		return value
	}

	orderText, err := cellText(row[normalizeLabel(cols.Order)])
	if err != nil {
		return Lesson{}, fmt.Errorf("column %q: %w", cols.Order, err)
	}
	order, err := parseOrder(orderText)
	if err != nil {
		return Lesson{}, fmt.Errorf("column %q: %w", cols.Order, err)
	}

	lesson := Lesson{
		Title:      textOr(text(cols.Title), "Lesson "+strconv.Itoa(order)),
		Module:     module,
		ModuleID:   ModuleID(module),
		VideoURL:   optional(text(cols.Video)),
		DocURL:     optional(text(cols.Document)),
		YouTubeURL: optional(text(cols.YouTube)),
		Duration:   textOr(text(cols.Duration), defaultDuration),
		Order:      order,
		Level:      textOr(text(cols.Level), defaultLevel),
	}
	if lesson.VideoURL != nil {
		lesson.VideoKind = embed.Classify(*lesson.VideoURL)
	}
	return lesson, nil
}

// assignIDs derives "<module>_<order>" ids from sorted lessons. Lessons that
// share an order get a "-<n>" suffix in input order so ids stay unique.
func assignIDs(moduleID, moduleName string, lessons []Lesson) {
	seen := make(map[int]int, len(lessons))
	for i := range lessons {
		order := lessons[i].Order
		seen[order]++
		id := moduleID + "_" + strconv.Itoa(order)
		if n := seen[order]; n > 1 {
			id += "-" + strconv.Itoa(n)
		}
		lessons[i].ID = id
		lessons[i].Module = moduleName
	}
}
