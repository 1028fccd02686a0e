package types

import "strings"

// Draft is the current candidate long-form article produced by the writer.
// Drafts are replaced whole on each rewrite attempt, never edited in place.
type Draft struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	WordCount int    `json:"word_count"`
	// Attempt is the 1-based rewrite attempt that produced this draft.
	Attempt int `json:"attempt_number"`
}

// CountWords counts whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
