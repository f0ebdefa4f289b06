package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
	"github.com/at-ishikawa/lessondeck/internal/spreadsheet"
	"github.com/at-ishikawa/lessondeck/internal/testutil"
)

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr bool
	}{
		{
			name: "valid course",
			body: testutil.CourseCSV,
			want: []string{"Configuration is valid", "2 module(s), 4 lesson(s)", "All rows passed!"},
		},
		{
			name: "rows with out of range orders",
			body: "Module,Lesson Title,Video Link,Document Link,Duration,order\n" +
				"Grammar,Articles,,,10:00,1\n" +
				"Grammar,Broken,,,10:00,1e400\n",
			want: []string{"1 module(s), 1 lesson(s)", "Skipped rows (1)", "row 1: column \"order\""},
		},
		{
			name:    "missing columns",
			body:    "Module,Lesson Title\nGrammar,Articles\n",
			want:    []string{"missing required columns (4)", "  - Video Link\n", "  - order\n"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.ServeSpreadsheet(t, tt.body)
			cfgPath := testutil.SetupTestConfig(t, t.TempDir(), server.URL)

			got, err := execute(t, cfgPath, "validate")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestValidateCommand_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	cfgPath := testutil.SetupTestConfig(t, t.TempDir(), server.URL)

	got, err := execute(t, cfgPath, "validate")
	var fetchErr *spreadsheet.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, got, "could not be downloaded after 1 attempt(s)")
	assert.Contains(t, got, "HTTP status: 503")
}

func TestDisplayLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "schema",
			err:  &catalog.SchemaError{Missing: []string{"order"}},
			want: "✗ Spreadsheet is missing required columns (1):\n  - order\n",
		},
		{
			name: "no response",
			err:  &spreadsheet.FetchError{URL: "https://example.com", Attempts: 3},
			want: "✗ Spreadsheet could not be downloaded after 3 attempt(s)\n",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "✗ boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			displayLoadError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
