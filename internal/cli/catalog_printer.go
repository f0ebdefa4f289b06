package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/embed"
	"github.com/at-ishikawa/lessondeck/internal/progress"
)

// CatalogPrinter writes catalogs, progress and embed targets for a terminal.
type CatalogPrinter struct {
	output io.Writer
	bold   *color.Color
	green  *color.Color
	yellow *color.Color
	faint  *color.Color
}

func NewCatalogPrinter(output io.Writer) *CatalogPrinter {
	return &CatalogPrinter{
		output: output,
		bold:   color.New(color.Bold),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		faint:  color.New(color.Faint),
	}
}

// PrintCatalog lists every module and lesson. Completion marks and module
// percentages are shown when record is not nil.
func (p *CatalogPrinter) PrintCatalog(result catalog.LoadResult, record *progress.Record) {
	if result.Stale {
		_, _ = p.yellow.Fprintf(p.output, "Showing the catalog fetched at %s: %v\n\n",
			result.FetchedAt.Format("2006-01-02 15:04:05"), result.StaleReason)
	}
	if result.Catalog == nil || len(result.Catalog.Modules) == 0 {
		_, _ = fmt.Fprintln(p.output, "No lessons found.")
		return
	}

	for i, module := range result.Catalog.Modules {
		if i > 0 {
			_, _ = fmt.Fprintln(p.output)
		}
		p.printModule(module, record)
	}

	if len(result.Catalog.Defects) > 0 {
		_, _ = fmt.Fprintln(p.output)
		_, _ = p.yellow.Fprintf(p.output, "%d row(s) skipped:\n", len(result.Catalog.Defects))
		for _, defect := range result.Catalog.Defects {
			_, _ = p.yellow.Fprintf(p.output, "  %s\n", defect)
		}
	}
}

func (p *CatalogPrinter) printModule(module catalog.Module, record *progress.Record) {
	if record == nil {
		_, _ = p.bold.Fprintf(p.output, "%s\n", module.Name)
	} else {
		completed := 0
		for _, lesson := range module.Lessons {
			if record.IsComplete(module.ID, lesson.ID) {
				completed++
			}
		}
		_, _ = p.bold.Fprintf(p.output, "%s (%d%%, %d/%d)\n", module.Name,
			progress.Percentage(completed, len(module.Lessons)), completed, len(module.Lessons))
	}

	for _, lesson := range module.Lessons {
		mark := ""
		if record != nil {
			if record.IsComplete(module.ID, lesson.ID) {
				mark = p.green.Sprint("[x] ")
			} else {
				mark = "[ ] "
			}
		}
		_, _ = fmt.Fprintf(p.output, "  %s%-14s %s ", mark, lesson.ID, lesson.Title)
		_, _ = p.faint.Fprintf(p.output, "(%s, %s%s)\n", lesson.Duration, lesson.Level, videoLabel(lesson))
	}
}

func videoLabel(lesson catalog.Lesson) string {
	if !lesson.HasVideo() {
		return ""
	}
	return ", " + string(lesson.VideoKind)
}

// PrintEmbed shows the URLs of a resolved link.
func (p *CatalogPrinter) PrintEmbed(target embed.Target) {
	_, _ = p.bold.Fprintf(p.output, "%s\n", target.Kind)
	if target.Degraded {
		_, _ = p.yellow.Fprintln(p.output, "  no video id found, using the link as is")
	}
	_, _ = fmt.Fprintf(p.output, "  embed:     %s\n", target.EmbedURL)
	_, _ = fmt.Fprintf(p.output, "  view:      %s\n", target.ViewURL)
	if target.HasDownload() {
		_, _ = fmt.Fprintf(p.output, "  download:  %s\n", target.DownloadURL)
	}
	if target.ThumbnailURL != "" {
		_, _ = fmt.Fprintf(p.output, "  thumbnail: %s\n", target.ThumbnailURL)
	}
}

// PrintToggle reports the state of a lesson after a toggle.
func (p *CatalogPrinter) PrintToggle(moduleID, lessonID string, completed bool) {
	if completed {
		_, _ = p.green.Fprintf(p.output, "%s/%s marked as completed\n", moduleID, lessonID)
		return
	}
	_, _ = fmt.Fprintf(p.output, "%s/%s marked as not completed\n", moduleID, lessonID)
}
