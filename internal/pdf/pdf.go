package pdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// WriteMarkdownAsPDF renders a markdown document to a PDF file at
// pdfPath and returns the absolute path of the written file.
func WriteMarkdownAsPDF(content, pdfPath string) (string, error) {
	if !strings.HasSuffix(pdfPath, ".pdf") {
		return "", fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process([]byte(content)); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}
