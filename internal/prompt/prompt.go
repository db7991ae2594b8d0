// Package prompt parses the compact tuple literals the interactive collector
// accepts, e.g. (500, 0, 0, 1, "Indie") or [500, 0, 0, 1, "", -1].
package prompt

import (
	"strconv"
	"strings"

	"github.com/gamescope/gamescope-collector/internal/errors"
)

// ParseTuple parses a tuple or list literal into its element values.
// Elements may be integers, quoted strings, or the null words none/null/nil
// (case-insensitive). Surrounding parentheses or brackets are optional; a
// trailing comma is tolerated.
func ParseTuple(input string) ([]any, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, errors.Config("empty config input")
	}

	switch {
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		s = s[1 : len(s)-1]
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		s = s[1 : len(s)-1]
	case strings.HasPrefix(s, "(") || strings.HasPrefix(s, "["):
		return nil, errors.Config("unclosed config literal")
	}

	parts, err := splitElements(s)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(parts))
	for _, part := range parts {
		v, err := parseElement(part)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// splitElements splits on commas outside of quotes.
func splitElements(s string) ([]string, error) {
	var (
		parts   []string
		current strings.Builder
		quote   rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			current.WriteRune(r)
		case r == ',':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, errors.Config("unterminated string in config")
	}
	parts = append(parts, current.String())

	// Drop a single trailing empty element from a trailing comma.
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return parts, nil
}

func parseElement(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errors.Config("empty config element")
	}

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1], nil
		}
	}

	switch strings.ToLower(s) {
	case "none", "null", "nil":
		return nil, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Configf("unrecognized config element: %s", s)
	}
	return n, nil
}
