// Package heuristic guesses whether free text is source code.
package heuristic

import "regexp"

// codePatterns are checked independently; each counts at most once.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(def|class|function|func|import|from|return|public|private|static|void|const|let|var|if|else|elif|for|while|switch|case|try|catch|except|package|include|struct|print|printf|console)\b`),
	regexp.MustCompile(`[{}]`),
	regexp.MustCompile(`[()]`),
	regexp.MustCompile(`;`),
	regexp.MustCompile(`[<>]`),
	regexp.MustCompile(`(?m)^\s*(//|#|/\*|--)`),
}

// MinMatches is how many distinct patterns must hit for text to count as code.
const MinMatches = 2

// Score returns how many distinct code patterns match text at least once.
func Score(text string) int {
	n := 0
	for _, p := range codePatterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// LooksLikeCode reports whether text resembles source code. False positives
// and negatives are expected.
func LooksLikeCode(text string) bool {
	return Score(text) >= MinMatches
}
