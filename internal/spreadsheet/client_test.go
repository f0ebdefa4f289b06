package spreadsheet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/testutil"
)

const lessonsCSV = "Module,Lesson Title,Video Link,Document Link,Duration,order\n" +
	"Vocabulary,B,https://youtu.be/b,,05:00,2\n" +
	"Vocabulary,A,https://youtu.be/a,,04:00,1\n"

func TestClient_Fetch(t *testing.T) {
	workbook := testutil.NewWorkbook(t, "Lessons", [][]string{
		{"Module", "Lesson Title", "Video Link", "Document Link", "Duration", "order"},
		{"Grammar", "Articles", "https://drive.google.com/file/d/X/view", "", "10:00", "1"},
	})

	tests := []struct {
		name      string
		format    Format
		responses []func(w http.ResponseWriter)

		wantTable    Table
		wantAttempts int32
		wantErr      bool
		wantStatus   int
	}{
		{
			name:   "csv on first attempt",
			format: FormatCSV,
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) {
					_, _ = w.Write([]byte(lessonsCSV))
				},
			},
			wantTable: Table{
				Columns: []string{"Module", "Lesson Title", "Video Link", "Document Link", "Duration", "order"},
				Rows: [][]string{
					{"Vocabulary", "B", "https://youtu.be/b", "", "05:00", "2"},
					{"Vocabulary", "A", "https://youtu.be/a", "", "04:00", "1"},
				},
			},
			wantAttempts: 1,
		},
		{
			name:   "xlsx after a server error",
			format: FormatXLSX,
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) {
					w.WriteHeader(http.StatusBadGateway)
				},
				func(w http.ResponseWriter) {
					_, _ = w.Write(workbook)
				},
			},
			wantTable: Table{
				Columns: []string{"Module", "Lesson Title", "Video Link", "Document Link", "Duration", "order"},
				Rows: [][]string{
					{"Grammar", "Articles", "https://drive.google.com/file/d/X/view", "", "10:00", "1"},
				},
			},
			wantAttempts: 2,
		},
		{
			name:   "rate limiting is retried",
			format: FormatCSV,
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) {
					w.WriteHeader(http.StatusTooManyRequests)
				},
				func(w http.ResponseWriter) {
					_, _ = w.Write([]byte(lessonsCSV))
				},
			},
			wantTable: Table{
				Columns: []string{"Module", "Lesson Title", "Video Link", "Document Link", "Duration", "order"},
				Rows: [][]string{
					{"Vocabulary", "B", "https://youtu.be/b", "", "05:00", "2"},
					{"Vocabulary", "A", "https://youtu.be/a", "", "04:00", "1"},
				},
			},
			wantAttempts: 2,
		},
		{
			name:   "not found is not retried",
			format: FormatCSV,
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) {
					w.WriteHeader(http.StatusNotFound)
				},
			},
			wantAttempts: 1,
			wantErr:      true,
			wantStatus:   http.StatusNotFound,
		},
		{
			name:   "gives up after three attempts",
			format: FormatCSV,
			responses: []func(w http.ResponseWriter){
				func(w http.ResponseWriter) {
					w.WriteHeader(http.StatusServiceUnavailable)
				},
			},
			wantAttempts: 3,
			wantErr:      true,
			wantStatus:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				n := int(calls.Add(1)) - 1
				if n >= len(tt.responses) {
					n = len(tt.responses) - 1
				}
				tt.responses[n](w)
			}))
			defer server.Close()

			client, err := NewClient(Config{
				URL:        server.URL + "/lessons",
				Format:     tt.format,
				RetryDelay: time.Millisecond,
			})
			require.NoError(t, err)
			defer func() {
				_ = client.Close()
			}()

			got, err := client.Fetch(context.Background())
			assert.Equal(t, tt.wantAttempts, calls.Load())
			if tt.wantErr {
				var fetchErr *FetchError
				require.ErrorAs(t, err, &fetchErr)
				assert.Equal(t, uint(tt.wantAttempts), fetchErr.Attempts)
				assert.Equal(t, tt.wantStatus, fetchErr.StatusCode)
				assert.Equal(t, server.URL+"/lessons", fetchErr.URL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTable, got)
		})
	}
}

func TestClient_Fetch_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{
		URL:         url,
		Format:      FormatCSV,
		MaxAttempts: 2,
		RetryDelay:  time.Millisecond,
	})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, uint(2), fetchErr.Attempts)
	assert.Equal(t, 0, fetchErr.StatusCode)
}

func TestClient_Fetch_StatusOfLastAttempt(t *testing.T) {
	var calls atomic.Int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		server.CloseClientConnections()
	}))
	defer server.Close()

	client, err := NewClient(Config{
		URL:         server.URL,
		Format:      FormatCSV,
		MaxAttempts: 2,
		RetryDelay:  time.Millisecond,
	})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, uint(2), fetchErr.Attempts)
	assert.Equal(t, 0, fetchErr.StatusCode)
}

func TestClient_FetchSheet(t *testing.T) {
	tests := []struct {
		name string
		body string

		wantTitles  []string
		wantMissing []string
	}{
		{
			name:       "rows",
			body:       lessonsCSV,
			wantTitles: []string{"A", "B"},
		},
		{
			name: "header only",
			body: "Module,Lesson Title,Video Link,Document Link,Duration,order\n",
		},
		{
			name:        "misspelled header without rows",
			body:        "Modul,Lesson Title,Video Link,Document Link,Duration,order\n",
			wantMissing: []string{"Module"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(Config{URL: server.URL, Format: FormatCSV})
			require.NoError(t, err)

			sheet, err := client.FetchSheet(context.Background())
			require.NoError(t, err)

			got, err := catalog.NewBuilder(catalog.DefaultColumns()).BuildSheet(sheet, "")
			if tt.wantMissing != nil {
				var schemaErr *catalog.SchemaError
				require.ErrorAs(t, err, &schemaErr)
				assert.Equal(t, tt.wantMissing, schemaErr.Missing)
				return
			}
			require.NoError(t, err)
			var titles []string
			for _, lesson := range got.Lessons() {
				titles = append(titles, lesson.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{URL: "https://docs.google.com/spreadsheets/d/abc/edit"})
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/export?format=xlsx", client.ExportURL())
	assert.Equal(t, DefaultTimeout, client.config.Timeout)
	assert.Equal(t, uint(DefaultMaxAttempts), client.config.MaxAttempts)

	_, err = NewClient(Config{URL: " "})
	assert.Error(t, err)
}
