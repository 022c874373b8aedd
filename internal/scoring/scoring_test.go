package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "whitespace only", input: " \n\t ", expected: 0},
		{name: "sentence", input: "Experienced Python developer with AWS and Docker skills", expected: 8},
		{name: "mixed whitespace", input: "Go\tdeveloper\n\nwith   Kubernetes", expected: 4},
		{name: "trailing newline", input: "one two three\n", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountWords(tt.input))
		})
	}
}

func TestCountWords_Deterministic(t *testing.T) {
	text := "Built data pipelines in Go and Python"
	assert.Equal(t, CountWords(text), CountWords(text))
	assert.Equal(t, len(strings.Fields(text)), CountWords(text))
}

func TestKeywordDensity(t *testing.T) {
	density := KeywordDensity("Python python PYTHON and Go Docker docker")

	assert.Equal(t, 3, density["python"])
	assert.Equal(t, 2, density["docker"])
	assert.NotContains(t, density, "and")
	assert.NotContains(t, density, "go")
}

func TestKeywordDensity_Empty(t *testing.T) {
	density := KeywordDensity("")
	require.NotNil(t, density)
	assert.Empty(t, density)
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		resume   string
		job      string
		expected int
	}{
		{
			name:     "identical text",
			resume:   "Senior Golang engineer building distributed systems",
			job:      "Senior Golang engineer building distributed systems",
			expected: 100,
		},
		{
			name:     "disjoint",
			resume:   "Python developer",
			job:      "Kubernetes operator",
			expected: 0,
		},
		{
			name:     "no job keywords",
			resume:   "Python developer",
			job:      "a to be or not",
			expected: 0,
		},
		{
			name:     "empty job",
			resume:   "Python developer",
			job:      "",
			expected: 0,
		},
		{
			name:     "one of three",
			resume:   "python",
			job:      "python docker kubernetes",
			expected: 33,
		},
		{
			name:     "two of three rounds up",
			resume:   "python docker",
			job:      "python docker kubernetes",
			expected: 67,
		},
		{
			name:     "case insensitive",
			resume:   "PYTHON Docker",
			job:      "python DOCKER",
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchScore(tt.resume, tt.job))
		})
	}
}

func TestMatchScore_DuplicateJobTokensCountOnce(t *testing.T) {
	score := MatchScore("python", "python python python docker")
	assert.Equal(t, 50, score)
}

func TestMissingKeywords_ExcludesResumeTokens(t *testing.T) {
	resume := "Experienced Python developer with AWS"
	job := "Python developer needed. Kubernetes kubernetes terraform python docker"

	missing := MissingKeywords(resume, job)

	resumeSet := tokenSet(resume)
	for _, word := range missing {
		assert.False(t, resumeSet[word], "missing keyword %q is present in resume", word)
	}
	assert.Equal(t, "kubernetes", missing[0])
	assert.Contains(t, missing, "terraform")
	assert.Contains(t, missing, "docker")
}

func TestMissingKeywords_SortedByFrequency(t *testing.T) {
	job := "docker terraform terraform kubernetes kubernetes kubernetes"
	missing := MissingKeywords("", job)

	require.Len(t, missing, 3)
	assert.Equal(t, []string{"kubernetes", "terraform", "docker"}, missing)
}

func TestMissingKeywords_TiesKeepFirstAppearance(t *testing.T) {
	missing := MissingKeywords("", "zeta alpha beta")
	assert.Equal(t, []string{"zeta", "alpha", "beta"}, missing)
}

func TestMissingKeywords_CappedAtTen(t *testing.T) {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliet", "kilo", "lima"}
	missing := MissingKeywords("", strings.Join(words, " "))
	assert.Len(t, missing, 10)
}

func TestMissingKeywords_FiltersStopwordsAndShortTokens(t *testing.T) {
	missing := MissingKeywords("", "with that this the and for go sql")
	assert.Empty(t, missing)
	assert.NotNil(t, missing)
}

func TestJobMatchSuggestions(t *testing.T) {
	suggestions := JobMatchSuggestions("python", "python kubernetes terraform")

	require.Len(t, suggestions, 3)
	assert.Contains(t, suggestions[0], "kubernetes")
	assert.Contains(t, suggestions[0], "terraform")
	assert.NotContains(t, suggestions[0], "python")
}

func TestResumeSuggestions(t *testing.T) {
	short := ResumeSuggestions("Python developer")
	assert.Len(t, short, 3)

	long := strings.Repeat("Experience at Acme. Education at State University. ", 30)
	assert.Empty(t, ResumeSuggestions(long))
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0, AverageScore(nil))
	assert.Equal(t, 75, AverageScore([]int{70, 80}))
	assert.Equal(t, 67, AverageScore([]int{100, 100, 0}))
}
