// Package scoring provides lexical utilities over plain resume and job text:
// word counts, keyword density, job-match scores and missing keyword detection.
// None of these touch the AI pipeline; they run directly on stored raw text.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// minKeywordLength is the exclusive lower bound on token length for keywords
const minKeywordLength = 3

// maxMissingKeywords caps the number of keywords returned by MissingKeywords
const maxMissingKeywords = 10

// stopwords are filtered out of job text before missing keyword detection
var stopwords = map[string]bool{
	"the":  true,
	"and":  true,
	"for":  true,
	"with": true,
	"that": true,
	"this": true,
}

// CountWords returns the number of whitespace-delimited tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// KeywordDensity counts lowercased tokens longer than three characters.
func KeywordDensity(text string) map[string]int {
	counts := make(map[string]int)
	for _, word := range keywordTokens(text) {
		counts[word]++
	}
	return counts
}

// MatchScore returns the percentage (0-100) of distinct job keywords that also
// appear in the resume. It is 0 when the job text has no keywords.
func MatchScore(resumeText, jobText string) int {
	jobWords := tokenSet(jobText)
	if len(jobWords) == 0 {
		return 0
	}
	resumeWords := tokenSet(resumeText)

	matched := 0
	for word := range jobWords {
		if resumeWords[word] {
			matched++
		}
	}

	return int(math.Round(float64(matched) / float64(len(jobWords)) * 100))
}

// MissingKeywords returns up to ten job keywords that do not appear in the
// resume, most frequent first. Ties keep the order of first appearance in the
// job text.
func MissingKeywords(resumeText, jobText string) []string {
	resumeWords := tokenSet(resumeText)

	frequency := make(map[string]int)
	var order []string
	for _, word := range keywordTokens(jobText) {
		if stopwords[word] || resumeWords[word] {
			continue
		}
		if frequency[word] == 0 {
			order = append(order, word)
		}
		frequency[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return frequency[order[i]] > frequency[order[j]]
	})

	if len(order) > maxMissingKeywords {
		order = order[:maxMissingKeywords]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// JobMatchSuggestions returns generic advice for tailoring a resume to a job,
// led by the top missing keywords.
func JobMatchSuggestions(resumeText, jobText string) []string {
	missing := MissingKeywords(resumeText, jobText)
	if len(missing) > 5 {
		missing = missing[:5]
	}

	return []string{
		fmt.Sprintf("Consider adding these keywords to your resume: %s", strings.Join(missing, ", ")),
		"Tailor your experience section to better match the job requirements",
		"Highlight relevant projects that demonstrate required skills",
	}
}

// ResumeSuggestions produces heuristic tips for a resume that has no AI tips.
func ResumeSuggestions(text string) []string {
	suggestions := []string{}
	lower := strings.ToLower(text)

	if utf8.RuneCountInString(text) < 1000 {
		suggestions = append(suggestions, "Consider adding more content to your resume")
	}
	if !strings.Contains(lower, "experience") {
		suggestions = append(suggestions, "Add your work experience details")
	}
	if !strings.Contains(lower, "education") {
		suggestions = append(suggestions, "Include your educational background")
	}

	return suggestions
}

// AverageScore returns the rounded mean of scores, or 0 for an empty list.
func AverageScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s
	}
	return int(math.Round(float64(total) / float64(len(scores))))
}

// keywordTokens lowercases text, splits on whitespace and keeps tokens longer
// than minKeywordLength runes.
func keywordTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > minKeywordLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range keywordTokens(text) {
		set[word] = true
	}
	return set
}
