// Package catalog builds the lesson catalog of a course from spreadsheet rows.
package catalog

import (
	"strings"

	"github.com/at-ishikawa/lessondeck/internal/embed"
)

const (
	defaultDuration = "00:00"
	defaultLevel    = "Beginner"
)

// Row is one spreadsheet row keyed by column label. Values may be missing or
// inconsistently typed; they are validated once by Builder.BuildSheet.
type Row map[string]any

// Sheet is the header row and the data rows below it. Columns may be nil when
// a source only knows the labels its rows carry.
type Sheet struct {
	Columns []string
	Rows    []Row
}

// Lesson is one unit of course content. Optional links are nil when the
// spreadsheet cell was blank, "nan" or "none".
type Lesson struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	Module     string     `json:"module" yaml:"module"`
	ModuleID   string     `json:"module_id" yaml:"module_id"`
	VideoURL   *string    `json:"video_url" yaml:"video_url"`
	VideoKind  embed.Kind `json:"video_kind,omitempty" yaml:"video_kind,omitempty"`
	DocURL     *string    `json:"doc_url" yaml:"doc_url"`
	YouTubeURL *string    `json:"youtube_url" yaml:"youtube_url"`
	Duration   string     `json:"duration" yaml:"duration"`
	Order      int        `json:"order" yaml:"order"`
	Level      string     `json:"level" yaml:"level"`
}

// HasVideo reports whether the lesson has a primary video.
func (l Lesson) HasVideo() bool {
	return l.VideoURL != nil
}

// Module is a named, ordered group of lessons.
type Module struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Lessons []Lesson `json:"lessons" yaml:"lessons"`
}

// Catalog is the result of one build: modules in order of first appearance and
// the rows that were skipped while building them.
type Catalog struct {
	Modules []Module    `json:"modules"`
	Defects []RowDefect `json:"defects,omitempty"`
}

// Lessons returns every lesson, module by module.
func (c *Catalog) Lessons() []Lesson {
	var lessons []Lesson
	for _, m := range c.Modules {
		lessons = append(lessons, m.Lessons...)
	}
	return lessons
}

// Module looks a module up by name or id, ignoring case and surrounding spaces.
func (c *Catalog) Module(name string) (*Module, bool) {
	id := ModuleID(name)
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i], true
		}
	}
	return nil, false
}

// ModuleNames returns the display names of every module.
func (c *Catalog) ModuleNames() []string {
	names := make([]string, 0, len(c.Modules))
	for _, m := range c.Modules {
		names = append(names, m.Name)
	}
	return names
}

// ModuleID derives the matching key of a module name.
func ModuleID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
