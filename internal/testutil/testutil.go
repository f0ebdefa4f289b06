// Package testutil provides shared test helpers for creating config files and spreadsheet fixtures.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// CourseCSV is a small course export with two modules, a lesson without a
// video and one row with the order column left blank.
const CourseCSV = `Module,Lesson Title,Video Link,Document Link,YouTube Link,Duration,order,Level
Grammar,Plurals,https://drive.google.com/file/d/PLURALS/view,,,08:00,2,Beginner
Grammar,Articles,https://www.youtube.com/watch?v=ART1CLE,https://example.com/articles.pdf,,10:00,1,
Vocabulary,Colors,,https://example.com/colors.pdf,https://youtu.be/C0L0RS,,1,Intermediate
Vocabulary,Numbers,https://example.com/numbers.mp4,,,05:00,,
`

// SetupTestConfig creates a minimal config file and all required directories for testing.
// The spreadsheet is read as csv from spreadsheetURL without retry delays.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, spreadsheetURL string) string {
	t.Helper()

	dirs := []string{"progress", "output_guides"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`spreadsheet:
  url: %s
  format: csv
  max_attempts: 1
  retry_delay_seconds: 0
progress:
  backend: file
  directory: %s
outputs:
  guide_directory: %s
`,
		spreadsheetURL,
		filepath.Join(tmpDir, "progress"),
		filepath.Join(tmpDir, "output_guides"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// ServeSpreadsheet starts a server answering every request with body.
// The server is closed when the test finishes.
func ServeSpreadsheet(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// NewWorkbook builds an xlsx workbook with a single sheet holding rows as text cells.
func NewWorkbook(t *testing.T, sheet string, rows [][]string) []byte {
	t.Helper()

	workbook := excelize.NewFile()
	defer func() {
		_ = workbook.Close()
	}()
	require.NoError(t, workbook.SetSheetName(workbook.GetSheetName(0), sheet))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]any, len(row))
		for j, value := range row {
			values[j] = value
		}
		require.NoError(t, workbook.SetSheetRow(sheet, cell, &values))
	}

	buffer, err := workbook.WriteToBuffer()
	require.NoError(t, err)
	return buffer.Bytes()
}
