package progress

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lessondeck/internal/config"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{name: "no lessons", completed: 0, total: 0, want: 0},
		{name: "no lessons but completed entries", completed: 3, total: 0, want: 0},
		{name: "negative total", completed: 1, total: -2, want: 0},
		{name: "none completed", completed: 0, total: 4, want: 0},
		{name: "partial rounds down", completed: 1, total: 3, want: 33},
		{name: "half", completed: 2, total: 4, want: 50},
		{name: "all", completed: 4, total: 4, want: 100},
		{name: "more completed than lessons", completed: 5, total: 4, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.completed, tt.total))
		})
	}
}

func TestRecord(t *testing.T) {
	record := Record{
		UserID: "alice",
		Modules: map[string]map[string]bool{
			"grammar": {"grammar_2": true, "grammar_1": true, "grammar_3": false},
		},
	}

	assert.True(t, record.IsComplete("grammar", "grammar_1"))
	assert.False(t, record.IsComplete("grammar", "grammar_3"))
	assert.False(t, record.IsComplete("vocabulary", "vocabulary_1"))
	assert.Equal(t, []string{"grammar_1", "grammar_2"}, record.Completed("grammar"))
	assert.Empty(t, record.Completed("vocabulary"))
}

func TestNewStore(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "mysql")

	tests := []struct {
		name    string
		cfg     config.ProgressConfig
		db      *sqlx.DB
		want    Store
		wantErr bool
	}{
		{
			name: "file backend",
			cfg:  config.ProgressConfig{Backend: config.ProgressBackendFile, Directory: "progress"},
			want: NewFileStore("progress"),
		},
		{
			name: "database backend",
			cfg:  config.ProgressConfig{Backend: config.ProgressBackendDatabase},
			db:   sqlxDB,
			want: NewDBStore(sqlxDB),
		},
		{
			name:    "database backend without a connection",
			cfg:     config.ProgressConfig{Backend: config.ProgressBackendDatabase},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     config.ProgressConfig{Backend: "redis"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStore(tt.cfg, tt.db)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
