package analysis

import "github.com/jonathan/resume-analyzer/internal/prompts"

const (
	promptFile = "analysis.json"
	promptKey  = "resume-analysis"
)

// BuildPrompt renders the analysis instructions with text appended as the
// final section. An empty text still yields a complete prompt.
func BuildPrompt(text string) string {
	template := prompts.MustGet(promptFile, promptKey)
	return prompts.Format(template, map[string]string{
		"ResumeText": text,
	})
}
