// Package jsonutil pulls JSON payloads out of free-form model output.
// Chat models wrap their answers in prose or markdown fences more often
// than not.
package jsonutil

import "strings"

const codeFence = "```"

// ExtractJSON returns the first JSON array or object found in raw,
// preferring fenced blocks. ok=false when nothing JSON-like exists.
func ExtractJSON(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if block, ok := extractFenced(raw); ok {
		return block, true
	}
	if arr, ok := extractDelimited(raw, '[', ']'); ok {
		return arr, true
	}
	return extractDelimited(raw, '{', '}')
}

func extractFenced(raw string) (string, bool) {
	start := strings.Index(raw, codeFence)
	if start == -1 {
		return "", false
	}
	rest := raw[start+len(codeFence):]
	end := strings.Index(rest, codeFence)
	if end == -1 {
		return "", false
	}
	block := strings.TrimLeft(rest[:end], "\r\n")
	// Drop a language tag line like "json".
	if idx := strings.Index(block, "\n"); idx != -1 {
		first := strings.TrimSpace(block[:idx])
		if first != "" && !strings.ContainsAny(first, "[{") {
			block = block[idx+1:]
		}
	}
	block = strings.TrimSpace(block)
	if block == "" {
		return "", false
	}
	if arr, ok := extractDelimited(block, '[', ']'); ok {
		return arr, true
	}
	return block, true
}

// extractDelimited scans for a balanced open..close span, skipping string
// literals and escapes.
func extractDelimited(raw string, opener, closer byte) (string, bool) {
	start := strings.IndexByte(raw, opener)
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
