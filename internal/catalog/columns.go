package catalog

import "strings"

// Columns maps each lesson field to its spreadsheet column label.
type Columns struct {
	Module   string `mapstructure:"module" validate:"required"`
	Title    string `mapstructure:"title" validate:"required"`
	Video    string `mapstructure:"video" validate:"required"`
	Document string `mapstructure:"document" validate:"required"`
	YouTube  string `mapstructure:"youtube"`
	Duration string `mapstructure:"duration" validate:"required"`
	Order    string `mapstructure:"order" validate:"required"`
	Level    string `mapstructure:"level"`
}

// DefaultColumns returns the labels used when the configuration sets none.
func DefaultColumns() Columns {
	return Columns{
		Module:   "Module",
		Title:    "Lesson Title",
		Video:    "Video Link",
		Document: "Document Link",
		YouTube:  "YouTube Link",
		Duration: "Duration",
		Order:    "order",
		Level:    "Level",
	}
}

// Required returns the labels that must be present in every source.
// YouTube and Level are optional.
func (c Columns) Required() []string {
	return []string{c.Module, c.Title, c.Video, c.Document, c.Duration, c.Order}
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
