package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/resume"
)

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rec := &resume.Record{FileName: "jane.pdf", WordCount: 42, HasAnalysis: true}
	rec.ATSScore = 81
	rec.BasicInfo.Name = "Jane Doe"
	rec.Skills.CurrentSkills = []string{"Go", "SQL", "Docker", "AWS", "Kafka", "Redis", "gRPC"}
	rec.ResumeTips = []string{"Quantify impact"}

	p.PrintResume(rec, pipeline.Outcome{Status: pipeline.StatusAnalyzed})
	output := buf.String()

	assert.Contains(t, output, "JANE.PDF")
	assert.Contains(t, output, "ATS score: 81")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Kafka")
	assert.NotContains(t, output, "Redis")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "Quantify impact")
}

func TestPrintResume_Skipped(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rec := &resume.Record{FileName: "cv.docx", WordCount: 10}
	p.PrintResume(rec, pipeline.Outcome{Status: pipeline.StatusSkipped, Reason: "no AI credential configured"})
	output := buf.String()

	assert.Contains(t, output, "skipped (no AI credential configured)")
	assert.NotContains(t, output, "ATS score")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(nil, pipeline.Outcome{})

	assert.Empty(t, buf.String())
}

func TestPrintJobMatch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobMatch(75, []string{"kubernetes"}, []string{"Add kubernetes"})
	output := buf.String()

	assert.Contains(t, output, "JOB MATCH")
	assert.Contains(t, output, "Match score: 75%")
	assert.Contains(t, output, "kubernetes")
}

func TestPrintFailure(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFailure("bad.txt", errors.New("unsupported file type"))

	assert.Contains(t, buf.String(), "FAILED: unsupported file type")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}
