package utils

import (
	"errors"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractJSONObject pulls the first balanced JSON object out of LLM output.
// Models frequently wrap their JSON in prose or markdown fences, so the
// raw response cannot be unmarshalled directly.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSONObject
}
