package extract

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr[^>]*/>`)
	tabElement   = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	blankRun     = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)
)

// extractWord reads the main document part of an OOXML word processing file.
// Legacy binary .doc files are not zip archives and fail here.
func extractWord(data []byte, mimeType string) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{MIMEType: mimeType, Message: "failed to open word document", Cause: err}
	}
	defer doc.Close()

	return documentXMLToText(doc.Editable().GetContent()), nil
}

// documentXMLToText turns WordprocessingML markup into plain text with one
// line per paragraph.
func documentXMLToText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabElement.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = blankRun.ReplaceAllString(content, "\n")
	return strings.TrimSpace(content)
}
