package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileExtension = ".json"

// FileStore keeps one JSON file per user holding {moduleId: {lessonId: bool}}.
// The file modification time is the record's LastUpdated.
//
// Read-modify-write cycles are serialized within the process. Two processes
// writing the same user file follow last-write-wins: each write replaces the
// whole file, so the later rename decides the stored state.
type FileStore struct {
	directory string
	mu        sync.Mutex
}

func NewFileStore(directory string) *FileStore {
	return &FileStore{directory: directory}
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.directory, url.PathEscape(userID)+fileExtension)
}

// load reads the modules of a user. A missing file is an empty record; a
// malformed one is logged and treated as empty so the next write replaces it.
func (s *FileStore) load(userID string) (map[string]map[string]bool, os.FileInfo, error) {
	path := s.path(userID)
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]map[string]bool{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("os.Stat(%s) > %w", path, err)
	}

	var modules map[string]map[string]bool
	if err := json.Unmarshal(content, &modules); err != nil {
		slog.Default().Warn("progress file is corrupt, starting from empty progress",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return map[string]map[string]bool{}, info, nil
	}
	if modules == nil {
		modules = map[string]map[string]bool{}
	}
	return modules, info, nil
}

// save writes to a temporary file in the same directory and renames it over
// the previous file, so a crash leaves either the old or the new content.
func (s *FileStore) save(userID string, modules map[string]map[string]bool) (err error) {
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", s.directory, err)
	}
	content, err := json.MarshalIndent(modules, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}

	path := s.path(userID)
	file, err := os.CreateTemp(s.directory, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tempPath := file.Name()
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if _, err = file.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("file.Write(%s) > %w", tempPath, err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("file.Sync(%s) > %w", tempPath, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("file.Close(%s) > %w", tempPath, err)
	}
	if err = os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s, %s) > %w", tempPath, path, err)
	}
	return nil
}

func (s *FileStore) IsComplete(_ context.Context, userID, moduleID, lessonID string) (bool, error) {
	if err := validateKey(userID, moduleID, lessonID); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	modules, _, err := s.load(userID)
	if err != nil {
		return false, err
	}
	return modules[moduleID][lessonID], nil
}

func (s *FileStore) ToggleComplete(_ context.Context, userID, moduleID, lessonID string) (bool, error) {
	if err := validateKey(userID, moduleID, lessonID); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	modules, _, err := s.load(userID)
	if err != nil {
		return false, err
	}
	completed := !modules[moduleID][lessonID]
	setFlag(modules, moduleID, lessonID, completed)
	if err := s.save(userID, modules); err != nil {
		return false, err
	}
	return completed, nil
}

func (s *FileStore) SetComplete(_ context.Context, userID, moduleID, lessonID string, completed bool) error {
	if err := validateKey(userID, moduleID, lessonID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	modules, _, err := s.load(userID)
	if err != nil {
		return err
	}
	if current, ok := modules[moduleID][lessonID]; ok && current == completed {
		return nil
	}
	setFlag(modules, moduleID, lessonID, completed)
	return s.save(userID, modules)
}

func (s *FileStore) CompletedLessons(ctx context.Context, userID, moduleID string) ([]string, error) {
	if err := validateKey(userID, moduleID); err != nil {
		return nil, err
	}
	record, err := s.Record(ctx, userID)
	if err != nil {
		return nil, err
	}
	return record.Completed(moduleID), nil
}

func (s *FileStore) ModuleProgress(ctx context.Context, userID, moduleID string, totalLessons int) (int, error) {
	lessons, err := s.CompletedLessons(ctx, userID, moduleID)
	if err != nil {
		return 0, err
	}
	return Percentage(len(lessons), totalLessons), nil
}

func (s *FileStore) Record(_ context.Context, userID string) (Record, error) {
	if err := validateKey(userID); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	modules, info, err := s.load(userID)
	if err != nil {
		return Record{}, err
	}
	record := Record{
		UserID:  userID,
		Modules: modules,
	}
	if info != nil {
		record.LastUpdated = info.ModTime()
	}
	return record, nil
}

// Users returns the ids of every user with a progress file, sorted.
func (s *FileStore) Users(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.directory)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir(%s) > %w", s.directory, err)
	}

	var users []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExtension) {
			continue
		}
		userID, err := url.PathUnescape(strings.TrimSuffix(name, fileExtension))
		if err != nil {
			slog.Default().Warn("skip progress file with an unexpected name", slog.String("name", name))
			continue
		}
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

func setFlag(modules map[string]map[string]bool, moduleID, lessonID string, completed bool) {
	lessons := modules[moduleID]
	if lessons == nil {
		lessons = make(map[string]bool)
		modules[moduleID] = lessons
	}
	lessons[lessonID] = completed
}
