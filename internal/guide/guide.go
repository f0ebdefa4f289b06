// Package guide exports a course catalog and one user's progress as a study guide.
package guide

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/at-ishikawa/lessondeck/internal/assets"
	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/embed"
	"github.com/at-ishikawa/lessondeck/internal/pdf"
	"github.com/at-ishikawa/lessondeck/internal/progress"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// NewTemplateData lays out a catalog for the guide template. Links are
// resolved the way the course viewer renders them.
func NewTemplateData(title string, courseCatalog *catalog.Catalog, record progress.Record, generatedAt time.Time) assets.CourseGuideTemplate {
	data := assets.CourseGuideTemplate{
		Title:       title,
		UserID:      record.UserID,
		GeneratedAt: generatedAt,
	}

	for _, module := range courseCatalog.Modules {
		guideModule := assets.GuideModule{Name: module.Name}
		completed := 0
		for _, lesson := range module.Lessons {
			guideLesson := assets.GuideLesson{
				ID:        lesson.ID,
				Order:     lesson.Order,
				Title:     lesson.Title,
				Duration:  lesson.Duration,
				Level:     lesson.Level,
				Completed: record.IsComplete(module.ID, lesson.ID),
			}
			if lesson.VideoURL != nil {
				if target, ok := embed.Resolve(*lesson.VideoURL); ok {
					guideLesson.WatchURL = target.ViewURL
					guideLesson.DownloadURL = target.DownloadURL
				}
			}
			if lesson.YouTubeURL != nil {
				if target, ok := embed.Resolve(*lesson.YouTubeURL); ok {
					guideLesson.YouTubeURL = target.ViewURL
				}
			}
			if lesson.DocURL != nil {
				if target, ok := embed.Resolve(*lesson.DocURL); ok {
					guideLesson.DocumentURL = target.ViewURL
					if guideLesson.DownloadURL == "" {
						guideLesson.DownloadURL = target.DownloadURL
					}
				}
			}
			if guideLesson.Completed {
				completed++
			}
			guideModule.Lessons = append(guideModule.Lessons, guideLesson)
		}
		guideModule.Progress = progress.Percentage(completed, len(module.Lessons))
		data.Modules = append(data.Modules, guideModule)
	}
	return data
}

// Writer renders guides into an output directory.
type Writer struct {
	templatePath    string
	outputDirectory string
	pdfOptions      pdf.Options
}

func NewWriter(templatePath string, outputDirectory string, pdfOptions pdf.Options) *Writer {
	return &Writer{
		templatePath:    templatePath,
		outputDirectory: outputDirectory,
		pdfOptions:      pdfOptions,
	}
}

// FileName turns a guide name into a markdown file name.
func FileName(name string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if base == "" {
		base = "course"
	}
	return base + ".md"
}

// Write renders data to <name>.md and, when generatePDF is set, converts it.
// It returns the path of the last file written.
func (writer *Writer) Write(name string, data assets.CourseGuideTemplate, generatePDF bool) (string, error) {
	if err := os.MkdirAll(writer.outputDirectory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", writer.outputDirectory, err)
	}

	outputFilename := filepath.Join(writer.outputDirectory, FileName(name))
	output, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", outputFilename, err)
	}
	defer func() {
		_ = output.Close()
	}()

	if err := assets.WriteCourseGuide(output, writer.templatePath, data); err != nil {
		return "", fmt.Errorf("assets.WriteCourseGuide(%s, %s) > %w", outputFilename, writer.templatePath, err)
	}
	if err := output.Close(); err != nil {
		return "", fmt.Errorf("output.Close(%s) > %w", outputFilename, err)
	}

	if !generatePDF {
		return outputFilename, nil
	}
	pdfPath, err := pdf.ConvertMarkdownToPDF(outputFilename, writer.pdfOptions)
	if err != nil {
		return "", fmt.Errorf("ConvertMarkdownToPDF(%s) > %w", outputFilename, err)
	}
	return pdfPath, nil
}
