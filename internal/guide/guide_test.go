package guide

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lessondeck/internal/assets"
	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/pdf"
	"github.com/at-ishikawa/lessondeck/internal/progress"
)

func ptr(s string) *string {
	return &s
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Modules: []catalog.Module{
			{
				ID:   "grammar",
				Name: "Grammar",
				Lessons: []catalog.Lesson{
					{
						ID: "grammar_1", Title: "Articles", Module: "Grammar", ModuleID: "grammar",
						VideoURL: ptr("https://drive.google.com/file/d/ART/view"),
						DocURL:   ptr("https://example.com/articles.pdf"),
						Duration: "10:00", Order: 1, Level: "Beginner",
					},
					{
						ID: "grammar_2", Title: "Plurals", Module: "Grammar", ModuleID: "grammar",
						YouTubeURL: ptr("https://www.youtube.com/watch?v=PLURAL"),
						DocURL:     ptr("https://drive.google.com/file/d/DOC/view"),
						Duration:   "08:00", Order: 2, Level: "Beginner",
					},
				},
			},
		},
	}
}

func TestNewTemplateData(t *testing.T) {
	generatedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	record := progress.Record{
		UserID: "alice",
		Modules: map[string]map[string]bool{
			"grammar": {"grammar_1": true, "grammar_9": true},
		},
	}

	got := NewTemplateData("Course", testCatalog(), record, generatedAt)
	assert.Equal(t, assets.CourseGuideTemplate{
		Title:       "Course",
		UserID:      "alice",
		GeneratedAt: generatedAt,
		Modules: []assets.GuideModule{
			{
				Name:     "Grammar",
				Progress: 50,
				Lessons: []assets.GuideLesson{
					{
						ID: "grammar_1", Order: 1, Title: "Articles", Duration: "10:00", Level: "Beginner",
						Completed:   true,
						WatchURL:    "https://drive.google.com/file/d/ART/view",
						DownloadURL: "https://drive.google.com/uc?export=download&id=ART",
						DocumentURL: "https://example.com/articles.pdf",
					},
					{
						ID: "grammar_2", Order: 2, Title: "Plurals", Duration: "08:00", Level: "Beginner",
						YouTubeURL:  "https://youtu.be/PLURAL",
						DocumentURL: "https://drive.google.com/file/d/DOC/view",
						DownloadURL: "https://drive.google.com/uc?export=download&id=DOC",
					},
				},
			},
		},
	}, got)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Grammar", want: "grammar.md"},
		{name: "English Course / alice", want: "english-course-alice.md"},
		{name: "  ", want: "course.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.name))
		})
	}
}

func TestWriter_Write(t *testing.T) {
	data := NewTemplateData("Course", testCatalog(), progress.Record{}, time.Time{})

	t.Run("markdown", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "guides")
		got, err := NewWriter("", dir, pdf.Options{}).Write("Course", data, false)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "course.md"), got)

		content, err := os.ReadFile(got)
		require.NoError(t, err)
		assert.Contains(t, string(content), "# Course")
		assert.Contains(t, string(content), "- [ ] **Articles** (10:00, Beginner)")
		assert.Contains(t, string(content), "  - Download: https://drive.google.com/uc?export=download&id=ART")
	})

	t.Run("pdf", func(t *testing.T) {
		dir := t.TempDir()
		got, err := NewWriter("", dir, pdf.Options{}).Write("Course", data, true)
		require.NoError(t, err)
		assert.Equal(t, ".pdf", filepath.Ext(got))
		_, err = os.Stat(got)
		assert.NoError(t, err)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))
		_, err := NewWriter("", file, pdf.Options{}).Write("Course", data, false)
		assert.Error(t, err)
	})
}
