package convert

import (
	"bytes"
	"fmt"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

// ValidatePDF checks that a file is a structurally sound PDF. PDFs are
// stored as-is and rendered client-side, so validation is the whole
// conversion step.
func ValidatePDF(path string) error {
	if err := api.ValidateFile(path, nil); err != nil {
		return errors.UnsupportedMedia(fmt.Sprintf("not a valid PDF: %v", err))
	}
	return nil
}

// PDFText extracts the plain text of a PDF for search indexing. Extraction
// failure is not an import failure; the book just goes unindexed.
func PDFText(path string) (string, error) {
	f, r, err := ledongthuc.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
