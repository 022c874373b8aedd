package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF concatenates the plain text of every page, one page per line.
// The returned page count prefers pdfcpu and falls back to the text reader.
func extractPDF(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = &ExtractionError{
				MIMEType: MIMETypePDF,
				Message:  "malformed pdf",
				Cause:    fmt.Errorf("%v", r),
			}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, &ExtractionError{MIMEType: MIMETypePDF, Message: "failed to open pdf", Cause: err}
	}

	numPages := reader.NumPage()
	parts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, &ExtractionError{
				MIMEType: MIMETypePDF,
				Message:  fmt.Sprintf("failed to read page %d", i),
				Cause:    err,
			}
		}
		parts = append(parts, pageText)
	}

	return strings.Join(parts, "\n"), countPDFPages(data, numPages), nil
}

func countPDFPages(data []byte, fallback int) (count int) {
	defer func() {
		if recover() != nil {
			count = fallback
		}
	}()

	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
