package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

const googleSheetsMarker = "docs.google.com/spreadsheets/d/"

// ExportURL derives the download URL of a Google Sheets edit or share link,
// e.g. https://docs.google.com/spreadsheets/d/<id>/edit?usp=sharing becomes
// https://docs.google.com/spreadsheets/d/<id>/export?format=xlsx.
// Other URLs are assumed to be direct downloads and returned unchanged.
func ExportURL(rawURL string, format Format) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errors.New("spreadsheet URL is empty")
	}

	_, rest, found := strings.Cut(rawURL, googleSheetsMarker)
	if !found {
		return rawURL, nil
	}
	id := rest
	if i := strings.IndexAny(id, "/?#"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return "", fmt.Errorf("no document id in spreadsheet URL %s", rawURL)
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=%s", id, format), nil
}
