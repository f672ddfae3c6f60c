package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseModelJSON parses a JSON object out of a model reply that may be pure
// JSON, JSON inside a markdown code fence, or JSON surrounded by prose.
func ParseModelJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty model output")
	}

	// Most replies are pure JSON, try that first
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if fenced := stripCodeFence(input); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), target); err == nil {
			return nil
		}
	}

	if obj := ExtractJSONObject(input); obj != "" {
		if err := json.Unmarshal([]byte(obj), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON object in model output")
}

// ExtractJSONObject returns the first balanced {...} block in input,
// honoring strings and escape sequences, or "" when none exists.
func ExtractJSONObject(input string) string {
	start := strings.Index(input, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false

	for i, ch := range input[start:] {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return input[start : start+i+1]
			}
		}
	}

	return ""
}

var (
	jsonFenceRe  = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	plainFenceRe = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
)

// stripCodeFence pulls the body out of a ```json ... ``` or ``` ... ``` block.
func stripCodeFence(input string) string {
	if m := jsonFenceRe.FindStringSubmatch(input); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := plainFenceRe.FindStringSubmatch(input); len(m) > 1 {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
			return body
		}
	}
	return ""
}
