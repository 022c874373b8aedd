// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/resume"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResume outputs a summary of an analyzed (or unanalyzed) resume.
func (p *Printer) PrintResume(rec *resume.Record, outcome pipeline.Outcome) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Words:     %d\n", rec.WordCount))
	sb.WriteString(fmt.Sprintf("Analysis:  %s", outcome.Status))
	if outcome.Reason != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", outcome.Reason))
	}
	sb.WriteString("\n")

	if rec.HasAnalysis {
		sb.WriteString(fmt.Sprintf("ATS score: %d\n", rec.ATSScore))
		if rec.BasicInfo.Name != "" {
			sb.WriteString(fmt.Sprintf("Candidate: %s\n", rec.BasicInfo.Name))
		}
		if outcome.SchemaIssues > 0 {
			sb.WriteString(fmt.Sprintf("Schema issues: %d\n", outcome.SchemaIssues))
		}
		writeList(&sb, "Skills", rec.Skills.CurrentSkills)
		writeList(&sb, "ATS keywords", rec.ATSKeywords)
		writeList(&sb, "Matching roles", rec.MatchingJobRoles)
		writeList(&sb, "Tips", rec.ResumeTips)
	}

	p.printBox(strings.ToUpper(rec.FileName), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobMatch outputs a lexical job-match result.
func (p *Printer) PrintJobMatch(score int, missing, suggestions []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %d%%\n", score))
	writeList(&sb, "Missing keywords", missing)
	writeList(&sb, "Suggestions", suggestions)

	p.printBox("JOB MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFailure outputs a run that failed before a record was stored.
func (p *Printer) PrintFailure(fileName string, err error) {
	p.printBox(strings.ToUpper(fileName), fmt.Sprintf("FAILED: %v", err))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(label + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
