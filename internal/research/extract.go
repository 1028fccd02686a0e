package research

import (
	"strings"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// Category caps. Sources keep provider relevance order; everything else is
// first-match wins across results.
const (
	maxFacts         = 10
	maxControversies = 6
	maxTrends        = 7
	maxGaps          = 5
	maxQuotes        = 4
	maxSources       = 10
)

var controversyKeywords = []string{
	"however", "critics", "criticism", "debate", "controversial",
	"disagree", "argue", "concern", "problem", "challenge",
}

var trendKeywords = []string{
	"trend", "emerging", "future", "growing", "increasing",
	"new", "innovation", "latest", "upcoming",
}

var gapKeywords = []string{
	"overlooked", "rarely", "often ignored", "underreported",
	"few discuss", "missing", "gap", "neglected",
}

var expertIndicators = []string{
	"according to", "expert", "researcher", "professor",
	"ceo", "founder", "analyst", "study shows",
}

// splitSentences breaks result content on sentence boundaries. The search
// provider returns extracted prose, so a naive period split is good enough
// for keyword scanning.
func splitSentences(content string) []string {
	parts := strings.Split(content, ". ")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// extractFacts pulls sentences containing numbers or percentages, which
// tend to be concrete facts and statistics.
func extractFacts(results []SearchResult) []string {
	var facts []string
	for _, result := range results {
		for _, sentence := range splitSentences(result.Content) {
			if hasDigit(sentence) || strings.Contains(sentence, "%") {
				facts = append(facts, sentence)
				if len(facts) >= maxFacts {
					return facts
				}
			}
		}
	}
	return facts
}

// extractByKeywords pulls sentences containing any of the given keywords,
// case-insensitively, up to limit.
func extractByKeywords(results []SearchResult, keywords []string, limit int) []string {
	var matches []string
	for _, result := range results {
		for _, sentence := range splitSentences(result.Content) {
			lower := strings.ToLower(sentence)
			for _, keyword := range keywords {
				if strings.Contains(lower, keyword) {
					matches = append(matches, sentence)
					break
				}
			}
			if len(matches) >= limit {
				return matches
			}
		}
	}
	return matches
}

// dedupeSources merges result lists into a single source list, dropping
// duplicate URLs and preserving first-seen (relevance) order.
func dedupeSources(resultLists ...[]SearchResult) []types.Source {
	var sources []types.Source
	seen := make(map[string]bool)

	for _, results := range resultLists {
		for _, result := range results {
			if result.URL == "" || seen[result.URL] {
				continue
			}
			seen[result.URL] = true

			title := result.Title
			if title == "" {
				title = "Unknown"
			}
			sources = append(sources, types.Source{
				Title:     title,
				URL:       result.URL,
				Published: result.PublishedDate,
			})

			if len(sources) >= maxSources {
				return sources
			}
		}
	}
	return sources
}
