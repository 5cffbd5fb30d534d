package core

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "<identifier> <start>-<end>", e.g. "100192 1-10"
	rangeTokenPattern = regexp.MustCompile(`^(\S+)\s+(\d+)-(\d+)$`)

	// "<identifier> <number>", e.g. "100192 12"
	singleTokenPattern = regexp.MustCompile(`^(\S+)\s+(\d+)$`)
)

// SplitTokens splits free-form search text on commas and newlines and drops
// tokens that are empty after trimming.
func SplitTokens(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ParseQueries turns search text into range queries, one per recognized
// token, in input order. Tokens matching neither shape are skipped; callers
// decide whether an empty result is an error.
func ParseQueries(text string) []RangeQuery {
	return ParseTokens(SplitTokens(text))
}

// ParseTokens parses tokens that were already split by the caller. Each token
// is trimmed; blank tokens are ignored.
func ParseTokens(tokens []string) []RangeQuery {
	queries := make([]RangeQuery, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if q, ok := parseToken(token); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

func parseToken(token string) (RangeQuery, bool) {
	if m := rangeTokenPattern.FindStringSubmatch(token); m != nil {
		start, err := strconv.Atoi(m[2])
		if err != nil {
			return RangeQuery{}, false
		}
		end, err := strconv.Atoi(m[3])
		if err != nil {
			return RangeQuery{}, false
		}
		return RangeQuery{Identifier: m[1], Start: start, End: end}, true
	}

	if m := singleTokenPattern.FindStringSubmatch(token); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return RangeQuery{}, false
		}
		return RangeQuery{Identifier: m[1], Start: n, End: n}, true
	}

	return RangeQuery{}, false
}
