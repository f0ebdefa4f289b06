package catalog

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from the source. No catalog is
// returned alongside it.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowDefect records a row skipped while building a catalog.
// Index is the position of the row in the input.
type RowDefect struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (d RowDefect) String() string {
	return fmt.Sprintf("row %d: %s", d.Index, d.Reason)
}
