package server

import (
	"time"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/embed"
)

type ListModulesRequest struct{}

type ModuleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LessonCount int    `json:"lesson_count"`
}

type ListModulesResponse struct {
	Modules   []ModuleSummary `json:"modules"`
	FetchedAt time.Time       `json:"fetched_at"`
	// Stale is set when the spreadsheet could not be refreshed and an older
	// catalog is served.
	Stale bool `json:"stale,omitempty"`
}

type ListLessonsRequest struct {
	// Module filters by module name or id. Every lesson is returned when it is blank.
	Module string `json:"module"`
}

type ListLessonsResponse struct {
	Lessons   []catalog.Lesson    `json:"lessons"`
	Defects   []catalog.RowDefect `json:"defects,omitempty"`
	FetchedAt time.Time           `json:"fetched_at"`
	Stale     bool                `json:"stale,omitempty"`
}

type ResolveEmbedRequest struct {
	URL string `json:"url" validate:"required"`
}

type ResolveEmbedResponse struct {
	// Target is nil when the link is blank.
	Target *embed.Target `json:"target,omitempty"`
}

type ToggleLessonRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	ModuleID string `json:"module_id" validate:"required"`
	LessonID string `json:"lesson_id" validate:"required"`
}

type ToggleLessonResponse struct {
	Completed bool `json:"completed"`
}

type GetModuleProgressRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Module string `json:"module" validate:"required"`
}

type GetModuleProgressResponse struct {
	ModuleID         string   `json:"module_id"`
	CompletedLessons []string `json:"completed_lessons"`
	TotalLessons     int      `json:"total_lessons"`
	Percentage       int      `json:"percentage"`
}
