package utils

import "strings"

// Prompt budgeting for the insight service. Estimates use ~4 runes per token.
const charsPerToken = 4

// TruncatedMarker ends a prompt that was cut to fit its budget.
const TruncatedMarker = "\n... (truncated)\n"

// CountTokens estimates the number of tokens in text.
func CountTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	if n < charsPerToken {
		return 1
	}
	return n / charsPerToken
}

// TruncateToTokenLimit cuts text to fit limit tokens. When possible the cut
// falls on a line boundary so table rows stay whole, and TruncatedMarker is
// appended.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	budget := limit * charsPerToken
	if budget >= len(runes) {
		return text
	}
	keep := budget - len([]rune(TruncatedMarker))
	if keep <= 0 {
		return string(runes[:budget])
	}
	cut := string(runes[:keep])
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return cut + TruncatedMarker
}

// TokenBreakdown maps labeled prompt sections to their estimated token counts.
func TokenBreakdown(sections map[string]string) map[string]int {
	out := make(map[string]int, len(sections))
	for k, v := range sections {
		out[k] = CountTokens(v)
	}
	return out
}
