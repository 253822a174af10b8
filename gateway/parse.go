package gateway

import (
	"encoding/json"
	"strings"

	"visareq/domain/core"
)

// DecodeJSON parses raw LLM text into T, trying an ordered list of
// strategies: direct parse, parse after markdown/chatter cleanup, then
// best-effort extraction of the largest embedded JSON block. Returns
// core.ErrMalformedResponse when every strategy fails.
func DecodeJSON[T any](raw string) (*T, error) {
	candidates := []string{
		strings.TrimSpace(raw),
		CleanJSONContent(raw),
		largestJSONBlock(raw),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		var out T
		if err := json.Unmarshal([]byte(c), &out); err == nil {
			return &out, nil
		}
	}
	preview := raw
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return nil, core.NewParseError("no parse strategy succeeded for response: " + preview)
}

// CleanJSONContent strips markdown code fences and conversational chatter
// that models wrap around JSON payloads.
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Drop leading chatter lines that precede the JSON payload
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if trimmed == "" ||
			strings.HasPrefix(lower, "here is") ||
			strings.HasPrefix(lower, "the json") ||
			strings.HasPrefix(lower, "output:") ||
			strings.HasPrefix(lower, "response:") ||
			strings.HasPrefix(lower, "##") {
			continue
		}
		cleaned = append(cleaned, line)
	}
	content = strings.TrimSpace(strings.Join(cleaned, "\n"))

	// Trim any remaining prefix chatter before the first JSON value
	for _, open := range []string{"\n{", "\n["} {
		if idx := strings.Index(content, open); idx >= 0 {
			prefix := content[:idx]
			if !strings.ContainsAny(prefix, "{[") {
				content = content[idx+1:]
			}
		}
	}
	return content
}

// largestJSONBlock extracts the largest balanced {...} or [...] block from
// the text. Best-effort: string escapes inside the block are respected.
func largestJSONBlock(s string) string {
	best := ""
	for _, open := range []byte{'{', '['} {
		close := byte('}')
		if open == '[' {
			close = ']'
		}
		for i := 0; i < len(s); i++ {
			if s[i] != open {
				continue
			}
			if block, ok := scanBalanced(s, i, open, close); ok && len(block) > len(best) {
				best = block
			}
		}
	}
	return best
}

func scanBalanced(s string, start int, open, close byte) (string, bool) {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
