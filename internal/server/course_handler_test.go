package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	mock_catalog "github.com/at-ishikawa/lessondeck/internal/mocks/catalog"
	mock_progress "github.com/at-ishikawa/lessondeck/internal/mocks/progress"
	"github.com/at-ishikawa/lessondeck/internal/progress"
	"github.com/at-ishikawa/lessondeck/internal/spreadsheet"
)

func courseRows() []catalog.Row {
	return []catalog.Row{
		{"Module": "Grammar", "Lesson Title": "Plurals", "Video Link": "https://drive.google.com/file/d/P1/view", "Document Link": "", "Duration": "08:00", "order": "2"},
		{"Module": "Vocabulary", "Lesson Title": "Colors", "Video Link": "https://youtu.be/c0l0rs", "Document Link": "", "Duration": "05:00", "order": "1"},
		{"Module": "Grammar", "Lesson Title": "Articles", "Video Link": "https://youtu.be/art1cles", "Document Link": "", "Duration": "10:00", "order": "1"},
		{"Module": "", "Lesson Title": "Draft", "Video Link": "", "Document Link": "", "Duration": "", "order": "3"},
	}
}

// newTestClient serves handler over HTTP/1.1 and returns a JSON client for it.
func newTestClient(t *testing.T, handler CourseServiceHandler) *CourseServiceClient {
	t.Helper()
	path, h := NewCourseServiceHandler(handler)
	mux := http.NewServeMux()
	mux.Handle(path, h)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewCourseServiceClient(server.Client(), server.URL)
}

func newFixtureHandler(t *testing.T, store progress.Store) *CourseHandler {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := mock_catalog.NewMockRowSource(ctrl)
	source.EXPECT().FetchSheet(gomock.Any()).Return(catalog.Sheet{Rows: courseRows()}, nil).AnyTimes()
	loader := catalog.NewLoader(source, catalog.NewBuilder(catalog.DefaultColumns()), time.Hour)
	return NewCourseHandler(loader, store)
}

func TestCourseHandler_ListModules(t *testing.T) {
	client := newTestClient(t, newFixtureHandler(t, progress.NewFileStore(t.TempDir())))

	resp, err := client.ListModules(context.Background(), connect.NewRequest(&ListModulesRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []ModuleSummary{
		{ID: "grammar", Name: "Grammar", LessonCount: 2},
		{ID: "vocabulary", Name: "Vocabulary", LessonCount: 1},
	}, resp.Msg.Modules)
	assert.False(t, resp.Msg.Stale)
	assert.False(t, resp.Msg.FetchedAt.IsZero())
}

func TestCourseHandler_ListLessons(t *testing.T) {
	tests := []struct {
		name     string
		module   string
		wantIDs  []string
		wantCode connect.Code
	}{
		{
			name:    "every module",
			wantIDs: []string{"grammar_1", "grammar_2", "vocabulary_1"},
		},
		{
			name:    "one module by name",
			module:  " grammar ",
			wantIDs: []string{"grammar_1", "grammar_2"},
		},
		{
			name:     "unknown module",
			module:   "Listening",
			wantCode: connect.CodeNotFound,
		},
	}

	client := newTestClient(t, newFixtureHandler(t, progress.NewFileStore(t.TempDir())))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.ListLessons(context.Background(), connect.NewRequest(&ListLessonsRequest{Module: tt.module}))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)

			var ids []string
			for _, lesson := range resp.Msg.Lessons {
				ids = append(ids, lesson.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCourseHandler_ResolveEmbed(t *testing.T) {
	client := newTestClient(t, newFixtureHandler(t, progress.NewFileStore(t.TempDir())))

	t.Run("drive link", func(t *testing.T) {
		resp, err := client.ResolveEmbed(context.Background(), connect.NewRequest(&ResolveEmbedRequest{
			URL: "https://drive.google.com/file/d/ABC123/view",
		}))
		require.NoError(t, err)
		require.NotNil(t, resp.Msg.Target)
		assert.Equal(t, "https://drive.google.com/file/d/ABC123/preview", resp.Msg.Target.EmbedURL)
		assert.Equal(t, "https://drive.google.com/uc?export=download&id=ABC123", resp.Msg.Target.DownloadURL)
	})

	t.Run("blank link", func(t *testing.T) {
		resp, err := client.ResolveEmbed(context.Background(), connect.NewRequest(&ResolveEmbedRequest{URL: "   "}))
		require.NoError(t, err)
		assert.Nil(t, resp.Msg.Target)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := client.ResolveEmbed(context.Background(), connect.NewRequest(&ResolveEmbedRequest{}))
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

		var connectErr *connect.Error
		require.ErrorAs(t, err, &connectErr)
		require.Len(t, connectErr.Details(), 1)
		value, err := connectErr.Details()[0].Value()
		require.NoError(t, err)
		badRequest, ok := value.(*errdetails.BadRequest)
		require.True(t, ok)
		require.Len(t, badRequest.GetFieldViolations(), 1)
		assert.Equal(t, "url", badRequest.GetFieldViolations()[0].GetField())
	})
}

func TestCourseHandler_ToggleLesson(t *testing.T) {
	store := progress.NewFileStore(t.TempDir())
	client := newTestClient(t, newFixtureHandler(t, store))
	ctx := context.Background()

	resp, err := client.ToggleLesson(ctx, connect.NewRequest(&ToggleLessonRequest{
		UserID: "alice", ModuleID: "grammar", LessonID: "grammar_2",
	}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Completed)

	completed, err := store.IsComplete(ctx, "alice", "grammar", "grammar_2")
	require.NoError(t, err)
	assert.True(t, completed)

	resp, err = client.ToggleLesson(ctx, connect.NewRequest(&ToggleLessonRequest{
		UserID: "alice", ModuleID: "Grammar", LessonID: "grammar_2",
	}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.Completed)

	tests := []struct {
		name     string
		req      ToggleLessonRequest
		wantCode connect.Code
	}{
		{
			name:     "missing user",
			req:      ToggleLessonRequest{ModuleID: "grammar", LessonID: "grammar_1"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "unknown module",
			req:      ToggleLessonRequest{UserID: "alice", ModuleID: "listening", LessonID: "listening_1"},
			wantCode: connect.CodeNotFound,
		},
		{
			name:     "lesson of another module",
			req:      ToggleLessonRequest{UserID: "alice", ModuleID: "grammar", LessonID: "vocabulary_1"},
			wantCode: connect.CodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ToggleLesson(ctx, connect.NewRequest(&tt.req))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, connect.CodeOf(err))
		})
	}
}

func TestCourseHandler_GetModuleProgress(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(store *mock_progress.MockStore)
		want     *GetModuleProgressResponse
		wantCode connect.Code
	}{
		{
			name: "half of the module",
			setup: func(store *mock_progress.MockStore) {
				store.EXPECT().CompletedLessons(gomock.Any(), "alice", "grammar").Return([]string{"grammar_1"}, nil)
				store.EXPECT().ModuleProgress(gomock.Any(), "alice", "grammar", 2).Return(50, nil)
			},
			want: &GetModuleProgressResponse{
				ModuleID:         "grammar",
				CompletedLessons: []string{"grammar_1"},
				TotalLessons:     2,
				Percentage:       50,
			},
		},
		{
			name: "store failure",
			setup: func(store *mock_progress.MockStore) {
				store.EXPECT().CompletedLessons(gomock.Any(), "alice", "grammar").Return(nil, errors.New("disk full"))
			},
			wantCode: connect.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock_progress.NewMockStore(gomock.NewController(t))
			tt.setup(store)
			client := newTestClient(t, newFixtureHandler(t, store))

			resp, err := client.GetModuleProgress(context.Background(), connect.NewRequest(&GetModuleProgressRequest{
				UserID: "alice", Module: "Grammar",
			}))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Msg)
		})
	}
}

func TestCourseHandler_SourceErrors(t *testing.T) {
	tests := []struct {
		name        string
		rows        []catalog.Row
		fetchErr    error
		wantCode    connect.Code
		wantMissing []string
	}{
		{
			name:     "spreadsheet unreachable",
			fetchErr: &spreadsheet.FetchError{URL: "https://example.com/sheet.xlsx", Attempts: 3, StatusCode: 503, Err: errors.New("response error 503")},
			wantCode: connect.CodeUnavailable,
		},
		{
			name: "required columns missing",
			rows: []catalog.Row{
				{"Module": "Grammar", "Lesson Title": "Articles", "Video Link": "", "Document Link": ""},
			},
			wantCode:    connect.CodeFailedPrecondition,
			wantMissing: []string{"Duration", "order"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := mock_catalog.NewMockRowSource(gomock.NewController(t))
			source.EXPECT().FetchSheet(gomock.Any()).Return(catalog.Sheet{Rows: tt.rows}, tt.fetchErr)
			loader := catalog.NewLoader(source, catalog.NewBuilder(catalog.DefaultColumns()), time.Hour)
			client := newTestClient(t, NewCourseHandler(loader, progress.NewFileStore(t.TempDir())))

			_, err := client.ListModules(context.Background(), connect.NewRequest(&ListModulesRequest{}))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, connect.CodeOf(err))
			if tt.wantMissing == nil {
				return
			}

			var connectErr *connect.Error
			require.ErrorAs(t, err, &connectErr)
			require.Len(t, connectErr.Details(), 1)
			value, err := connectErr.Details()[0].Value()
			require.NoError(t, err)
			failure, ok := value.(*errdetails.PreconditionFailure)
			require.True(t, ok)
			var subjects []string
			for _, violation := range failure.GetViolations() {
				subjects = append(subjects, violation.GetSubject())
			}
			assert.Equal(t, tt.wantMissing, subjects)
		})
	}
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{name: "empty key", err: progress.ErrEmptyKey, want: connect.CodeInvalidArgument},
		{name: "canceled", err: context.Canceled, want: connect.CodeCanceled},
		{name: "deadline", err: context.DeadlineExceeded, want: connect.CodeDeadlineExceeded},
		{name: "other", err: errors.New("boom"), want: connect.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connect.CodeOf(toConnectError(tt.err)))
		})
	}
}
