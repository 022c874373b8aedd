package llm

import "strings"

// CleanJSONBlock strips markdown code fences and any surrounding prose from a
// model response, returning the first complete JSON object or array. Text with
// no JSON value is returned trimmed and otherwise unchanged.
func CleanJSONBlock(text string) string {
	text = stripFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}

	var value string
	if text[start] == '{' {
		value = extractJSONObject(text[start:])
	} else {
		value = extractJSONArray(text[start:])
	}
	if value == "" {
		return text
	}
	return value
}

// stripFence removes a leading ``` fence, with or without a language tag, and
// its closing fence.
func stripFence(text string) string {
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}

	inner := text[open+3:]
	if idx := strings.Index(inner, "\n"); idx >= 0 {
		tag := strings.TrimSpace(inner[:idx])
		if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			inner = inner[idx+1:]
		}
	} else {
		inner = strings.TrimPrefix(inner, "json")
	}

	if end := strings.LastIndex(inner, "```"); end >= 0 {
		inner = inner[:end]
	}
	return strings.TrimSpace(inner)
}

func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced returns the prefix of text from its opening delimiter to the
// matching close, ignoring delimiters inside JSON strings.
func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
