// Package analysis turns extracted resume text into a normalized AI analysis:
// it builds the prompt, calls the model, and fills every field of the result.
package analysis

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/rs/zerolog"
)

// maxLoggedResponse bounds the completion text kept on MalformedResponseError
const maxLoggedResponse = 500

// Analyzer sends analysis prompts to a language model.
type Analyzer struct {
	client llm.Client
	tier   llm.ModelTier
	logger zerolog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTier selects the model tier used for analysis.
func WithTier(tier llm.ModelTier) Option {
	return func(a *Analyzer) {
		a.tier = tier
	}
}

// WithLogger sets the analyzer's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer wraps client. A nil client yields *ConfigurationError.
func NewAnalyzer(client llm.Client, opts ...Option) (*Analyzer, error) {
	if client == nil {
		return nil, &ConfigurationError{Message: "no AI client configured"}
	}

	a := &Analyzer{
		client: client,
		tier:   llm.TierStandard,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Model returns the model name the analyzer uses.
func (a *Analyzer) Model() string {
	return a.client.GetModel(a.tier)
}

// Analyze issues a single model request for prompt and decodes the completion
// as a JSON object. Nothing is cached or retried.
func (a *Analyzer) Analyze(ctx context.Context, prompt string) (Raw, error) {
	text, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return nil, &UpstreamError{Message: "analysis request failed", Cause: err}
	}

	cleaned := llm.CleanJSONBlock(text)
	a.logger.Debug().
		Str("model", a.Model()).
		Int("response_bytes", len(cleaned)).
		Msg("received analysis completion")

	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil, &MalformedResponseError{
			Message:  "completion is not valid JSON",
			Response: truncate(cleaned, maxLoggedResponse),
			Cause:    err,
		}
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{
			Message:  "completion is not a JSON object",
			Response: truncate(cleaned, maxLoggedResponse),
		}
	}

	return Raw(obj), nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
