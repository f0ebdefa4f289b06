package assets

import (
	"fmt"
	"io"
	"time"
)

// CourseGuideTemplate is the top-level data structure for course guide templates
type CourseGuideTemplate struct {
	Title       string
	UserID      string
	GeneratedAt time.Time
	Modules     []GuideModule
}

// GuideModule is one module with the user's completion percentage
type GuideModule struct {
	Name     string
	Progress int
	Lessons  []GuideLesson
}

// GuideLesson carries resolved links; empty strings are omitted by the template
type GuideLesson struct {
	ID          string
	Order       int
	Title       string
	Duration    string
	Level       string
	Completed   bool
	WatchURL    string
	YouTubeURL  string
	DocumentURL string
	DownloadURL string
}

func WriteCourseGuide(output io.Writer, templatePath string, templateData CourseGuideTemplate) error {
	tmpl, err := ParseCourseGuideTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseCourseGuideTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
