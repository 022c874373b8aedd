package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	text := "Experienced Python developer with AWS and Docker skills"
	prompt := BuildPrompt(text)

	assert.Contains(t, prompt, "expert resume analyzer")
	for _, criterion := range []string{"Formatting and structure", "ATS optimization", "Content quality", "Relevance", "Readability"} {
		assert.Contains(t, prompt, criterion)
	}
	assert.Contains(t, prompt, "at least 5 key skills")
	assert.Contains(t, prompt, "2-3 job roles")
	assert.Contains(t, prompt, `"course_name"`)
	assert.True(t, strings.HasSuffix(prompt, text), "resume text must be the final section")
	assert.NotContains(t, prompt, "{{.ResumeText}}")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, BuildPrompt("Go engineer"), BuildPrompt("Go engineer"))
}

func TestBuildPrompt_EmptyText(t *testing.T) {
	prompt := BuildPrompt("")
	assert.Contains(t, prompt, "Resume text:")
	assert.NotContains(t, prompt, "{{.ResumeText}}")
}

func TestBuildPrompt_PlaceholderInResume(t *testing.T) {
	prompt := BuildPrompt("literal {{.ResumeText}} token")
	assert.True(t, strings.HasSuffix(prompt, "literal {{.ResumeText}} token"))
}
