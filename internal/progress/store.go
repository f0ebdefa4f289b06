// Package progress records which lessons each user has completed.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lessondeck/internal/config"
)

//go:generate mockgen -source=store.go -destination=../mocks/progress/mock_store.go -package=mock_progress Store

// ErrEmptyKey is returned when a user, module or lesson id is blank.
var ErrEmptyKey = errors.New("progress key must not be empty")

// Store persists completion flags keyed by (user, module, lesson).
// Unknown keys read as not completed.
type Store interface {
	IsComplete(ctx context.Context, userID, moduleID, lessonID string) (bool, error)
	// ToggleComplete flips the flag and returns the new state once it is persisted.
	ToggleComplete(ctx context.Context, userID, moduleID, lessonID string) (bool, error)
	SetComplete(ctx context.Context, userID, moduleID, lessonID string, completed bool) error
	// CompletedLessons returns the completed lesson ids of a module, sorted.
	CompletedLessons(ctx context.Context, userID, moduleID string) ([]string, error)
	// ModuleProgress returns the completed share of totalLessons as a percentage in [0, 100].
	ModuleProgress(ctx context.Context, userID, moduleID string, totalLessons int) (int, error)
	Record(ctx context.Context, userID string) (Record, error)
}

// Record is everything stored for one user. LastUpdated covers the whole
// record and is zero when nothing was stored yet.
type Record struct {
	UserID      string                     `json:"user_id" yaml:"user_id"`
	Modules     map[string]map[string]bool `json:"modules" yaml:"modules"`
	LastUpdated time.Time                  `json:"last_updated" yaml:"last_updated"`
}

func (r Record) IsComplete(moduleID, lessonID string) bool {
	return r.Modules[moduleID][lessonID]
}

// Completed returns the completed lesson ids of a module, sorted.
func (r Record) Completed(moduleID string) []string {
	lessons := make([]string, 0, len(r.Modules[moduleID]))
	for lessonID, completed := range r.Modules[moduleID] {
		if completed {
			lessons = append(lessons, lessonID)
		}
	}
	sort.Strings(lessons)
	return lessons
}

// Percentage returns completed / total * 100 rounded down and clamped to
// [0, 100]. It is 0 when total is not positive.
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}

func validateKey(keys ...string) error {
	for _, key := range keys {
		if key == "" {
			return ErrEmptyKey
		}
	}
	return nil
}

// NewStore returns the backend selected by cfg. db is only used by the
// database backend.
func NewStore(cfg config.ProgressConfig, db *sqlx.DB) (Store, error) {
	switch cfg.Backend {
	case config.ProgressBackendFile, "":
		return NewFileStore(cfg.Directory), nil
	case config.ProgressBackendDatabase:
		if db == nil {
			return nil, errors.New("database progress backend requires a database connection")
		}
		return NewDBStore(db), nil
	default:
		return nil, fmt.Errorf("unknown progress backend %q", cfg.Backend)
	}
}
