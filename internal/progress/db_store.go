package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lessondeck/internal/database"
)

// DBStore implements Store on the lesson_progress table.
type DBStore struct {
	db *sqlx.DB
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

type progressRow struct {
	ModuleID  string    `db:"module_id"`
	LessonID  string    `db:"lesson_id"`
	Completed bool      `db:"completed"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s *DBStore) IsComplete(ctx context.Context, userID, moduleID, lessonID string) (bool, error) {
	if err := validateKey(userID, moduleID, lessonID); err != nil {
		return false, err
	}
	var completed bool
	err := s.db.GetContext(ctx, &completed,
		"SELECT completed FROM lesson_progress WHERE user_id = ? AND module_id = ? AND lesson_id = ?",
		userID, moduleID, lessonID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("db.GetContext > %w", err)
	}
	return completed, nil
}

// ToggleComplete flips the flag with a single upsert so concurrent toggles of
// the same key are serialized by the row lock.
func (s *DBStore) ToggleComplete(ctx context.Context, userID, moduleID, lessonID string) (bool, error) {
	if err := validateKey(userID, moduleID, lessonID); err != nil {
		return false, err
	}
	var completed bool
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lesson_progress (user_id, module_id, lesson_id, completed) VALUES (?, ?, ?, TRUE) ON DUPLICATE KEY UPDATE completed = NOT completed",
			userID, moduleID, lessonID); err != nil {
			return fmt.Errorf("toggle lesson progress: %w", err)
		}
		if err := tx.GetContext(ctx, &completed,
			"SELECT completed FROM lesson_progress WHERE user_id = ? AND module_id = ? AND lesson_id = ?",
			userID, moduleID, lessonID); err != nil {
			return fmt.Errorf("read toggled lesson progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

func (s *DBStore) SetComplete(ctx context.Context, userID, moduleID, lessonID string, completed bool) error {
	if err := validateKey(userID, moduleID, lessonID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO lesson_progress (user_id, module_id, lesson_id, completed) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE completed = VALUES(completed)",
		userID, moduleID, lessonID, completed); err != nil {
		return fmt.Errorf("set lesson progress: %w", err)
	}
	return nil
}

func (s *DBStore) CompletedLessons(ctx context.Context, userID, moduleID string) ([]string, error) {
	if err := validateKey(userID, moduleID); err != nil {
		return nil, err
	}
	lessons := []string{}
	if err := s.db.SelectContext(ctx, &lessons,
		"SELECT lesson_id FROM lesson_progress WHERE user_id = ? AND module_id = ? AND completed = TRUE ORDER BY lesson_id",
		userID, moduleID); err != nil {
		return nil, fmt.Errorf("db.SelectContext > %w", err)
	}
	return lessons, nil
}

func (s *DBStore) ModuleProgress(ctx context.Context, userID, moduleID string, totalLessons int) (int, error) {
	if err := validateKey(userID, moduleID); err != nil {
		return 0, err
	}
	var completed int
	if err := s.db.GetContext(ctx, &completed,
		"SELECT COUNT(*) FROM lesson_progress WHERE user_id = ? AND module_id = ? AND completed = TRUE",
		userID, moduleID); err != nil {
		return 0, fmt.Errorf("db.GetContext > %w", err)
	}
	return Percentage(completed, totalLessons), nil
}

func (s *DBStore) Record(ctx context.Context, userID string) (Record, error) {
	if err := validateKey(userID); err != nil {
		return Record{}, err
	}
	var rows []progressRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT module_id, lesson_id, completed, updated_at FROM lesson_progress WHERE user_id = ? ORDER BY module_id, lesson_id",
		userID); err != nil {
		return Record{}, fmt.Errorf("db.SelectContext > %w", err)
	}

	record := Record{
		UserID:  userID,
		Modules: make(map[string]map[string]bool),
	}
	for _, row := range rows {
		setFlag(record.Modules, row.ModuleID, row.LessonID, row.Completed)
		if row.UpdatedAt.After(record.LastUpdated) {
			record.LastUpdated = row.UpdatedAt
		}
	}
	return record, nil
}
