package chunker

import "unicode/utf8"

// EstimateTokens approximates a token count at ~4 characters per token. It
// is only used to size output budgets and to log digest reduction.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	tokens := (n + 3) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
