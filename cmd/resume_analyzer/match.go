package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/extract"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/scoring"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compare a resume against a job description",
	Long:  "Score how well a resume covers the keywords of a plain-text job description. No AI call is made.",
	RunE:  runMatch,
}

var (
	matchResumeFile string
	matchJobFile    string
	matchJSON       bool
)

func init() {
	matchCmd.Flags().StringVar(&matchResumeFile, "resume", "", "Path to the resume file (PDF or Word)")
	matchCmd.Flags().StringVar(&matchJobFile, "job", "", "Path to a plain-text job description")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "Print the result as JSON")

	_ = matchCmd.MarkFlagRequired("resume")
	_ = matchCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(matchCmd)
}

// matchResult mirrors the HTTP job-match response
type matchResult struct {
	MatchScore      int      `json:"matchScore"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
}

func runMatch(cmd *cobra.Command, _ []string) error {
	resumeData, err := os.ReadFile(matchResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	jobData, err := os.ReadFile(matchJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}

	doc, err := extract.Extract(resumeData, extract.MIMETypeForFile(matchResumeFile))
	if err != nil {
		return err
	}

	result := matchTexts(doc.Text, string(jobData))

	out := cmd.OutOrStdout()
	if matchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	observability.NewPrinter(out).PrintJobMatch(result.MatchScore, result.MissingKeywords, result.Suggestions)
	return nil
}

func matchTexts(resumeText, jobText string) matchResult {
	return matchResult{
		MatchScore:      scoring.MatchScore(resumeText, jobText),
		MissingKeywords: scoring.MissingKeywords(resumeText, jobText),
		Suggestions:     scoring.JobMatchSuggestions(resumeText, jobText),
	}
}
