package datasync

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/lessondeck/internal/progress"
)

type exportLesson struct {
	LessonID  string `yaml:"lesson_id"`
	Completed bool   `yaml:"completed"`
}

type exportModule struct {
	ModuleID string         `yaml:"module_id"`
	Lessons  []exportLesson `yaml:"lessons"`
}

type exportProgress struct {
	UserID      string         `yaml:"user_id"`
	LastUpdated string         `yaml:"last_updated,omitempty"`
	Modules     []exportModule `yaml:"modules"`
}

// YAMLProgressSink writes progress records to a YAML file.
type YAMLProgressSink struct {
	outputDir string
}

// NewYAMLProgressSink creates a new YAMLProgressSink.
func NewYAMLProgressSink(outputDir string) *YAMLProgressSink {
	return &YAMLProgressSink{outputDir: outputDir}
}

// WriteAll writes records to progress.yml with modules and lessons sorted by id.
func (s *YAMLProgressSink) WriteAll(records []progress.Record) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := make([]exportProgress, len(records))
	for i, record := range records {
		out[i] = exportProgress{
			UserID:  record.UserID,
			Modules: []exportModule{},
		}
		if !record.LastUpdated.IsZero() {
			out[i].LastUpdated = record.LastUpdated.UTC().Format(time.RFC3339)
		}
		for _, moduleID := range sortedKeys(record.Modules) {
			module := exportModule{ModuleID: moduleID}
			for _, lessonID := range sortedKeys(record.Modules[moduleID]) {
				module.Lessons = append(module.Lessons, exportLesson{
					LessonID:  lessonID,
					Completed: record.Modules[moduleID][lessonID],
				})
			}
			out[i].Modules = append(out[i].Modules, module)
		}
	}

	if err := writeYAML(filepath.Join(s.outputDir, "progress.yml"), out); err != nil {
		return fmt.Errorf("write progress.yml: %w", err)
	}
	return nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}
