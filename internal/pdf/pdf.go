// Package pdf renders markdown documents to PDF.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// Options selects the page layout. Zero values give A4 portrait with the light theme.
type Options struct {
	Landscape bool
	PageSize  string
	Dark      bool
}

func (o Options) renderer(pdfPath string) *mdtopdf.PdfRenderer {
	orientation := "P"
	if o.Landscape {
		orientation = "L"
	}
	pageSize := o.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	theme := mdtopdf.LIGHT
	if o.Dark {
		theme = mdtopdf.DARK
	}
	return mdtopdf.NewPdfRenderer(orientation, pageSize, pdfPath, "", nil, theme)
}

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func ConvertMarkdownToPDF(markdownPath string, opts Options) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"
	if err := opts.renderer(pdfPath).Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}
