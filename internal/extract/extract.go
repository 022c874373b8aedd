// Package extract recovers plain text from uploaded resume documents.
// The declared MIME type selects the decoder; content is never sniffed.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/scoring"
)

// Recognized document MIME types
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOC  = "application/msword"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// SupportedMIMETypes lists every MIME type Extract accepts.
var SupportedMIMETypes = []string{MIMETypePDF, MIMETypeDOC, MIMETypeDOCX}

// Document is the text recovered from one uploaded file.
type Document struct {
	Text      string `json:"text"`
	WordCount int    `json:"wordCount"`
	// Pages is the PDF page count; zero for Word documents.
	Pages int `json:"pages,omitempty"`
}

// IsSupported reports whether mimeType names a recognized document type.
func IsSupported(mimeType string) bool {
	switch NormalizeMIMEType(mimeType) {
	case MIMETypePDF, MIMETypeDOC, MIMETypeDOCX:
		return true
	}
	return false
}

// NormalizeMIMEType lowercases mimeType and drops any parameters.
func NormalizeMIMEType(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// MIMETypeForFile returns the document type implied by a file name's
// extension, or "" when the extension is not recognized.
func MIMETypeForFile(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MIMETypePDF
	case ".doc":
		return MIMETypeDOC
	case ".docx":
		return MIMETypeDOCX
	}
	return ""
}

// Extract decodes data according to mimeType and returns its plain text.
// Unknown types fail with *UnsupportedFormatError; decoder failures, including
// a document with no text layer, fail with *ExtractionError. The caller keeps
// ownership of data.
func Extract(data []byte, mimeType string) (*Document, error) {
	mimeType = NormalizeMIMEType(mimeType)

	var (
		text  string
		pages int
		err   error
	)

	switch mimeType {
	case MIMETypePDF:
		text, pages, err = extractPDF(data)
	case MIMETypeDOC, MIMETypeDOCX:
		text, err = extractWord(data, mimeType)
	default:
		return nil, &UnsupportedFormatError{MIMEType: mimeType}
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{
			MIMEType: mimeType,
			Message:  "document has no extractable text",
		}
	}

	return &Document{
		Text:      text,
		WordCount: scoring.CountWords(text),
		Pages:     pages,
	}, nil
}
