// Package research gathers structured background material on a topic from a
// web search provider.
package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/fetch"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// Per-query result caps. The general query asks for more because it also
// feeds the research summary.
const (
	generalQueryResults = 10
	themedQueryResults  = 8
)

// thinSnippetChars is the content length under which a source page is
// fetched to expand the snippet.
const thinSnippetChars = 120

// Researcher runs the themed searches and assembles ResearchData.
type Researcher struct {
	search SearchClient

	// ExpandSnippets controls best-effort fetching of source pages for
	// results with very short content. Off in tests.
	ExpandSnippets bool
}

// NewResearcher creates a Researcher on top of a search client.
func NewResearcher(search SearchClient) *Researcher {
	return &Researcher{search: search, ExpandSnippets: true}
}

// Research runs five themed queries for the topic and derives facts,
// controversies, trends, content gaps, expert quotes and a deduplicated
// source list. The first provider failure aborts with ErrUnavailable; there
// is no partial research.
func (r *Researcher) Research(ctx context.Context, topic string) (*types.ResearchData, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	general, err := r.search.Search(ctx, topic+" latest facts statistics data", generalQueryResults)
	if err != nil {
		return nil, fmt.Errorf("facts query: %w", err)
	}

	controversies, err := r.search.Search(ctx, topic+" controversies debates criticisms challenges problems", themedQueryResults)
	if err != nil {
		return nil, fmt.Errorf("controversies query: %w", err)
	}

	trends, err := r.search.Search(ctx, topic+" trends future emerging latest innovations", themedQueryResults)
	if err != nil {
		return nil, fmt.Errorf("trends query: %w", err)
	}

	gaps, err := r.search.Search(ctx, topic+" overlooked underreported unique perspective niche angles", themedQueryResults)
	if err != nil {
		return nil, fmt.Errorf("gaps query: %w", err)
	}

	experts, err := r.search.Search(ctx, topic+" expert opinion research study analysis report", themedQueryResults)
	if err != nil {
		return nil, fmt.Errorf("experts query: %w", err)
	}

	if r.ExpandSnippets {
		r.expandThinResults(ctx, general.Results)
	}

	summary := general.Answer
	if summary == "" {
		summary = fmt.Sprintf("Comprehensive research on %s", topic)
	}

	data := &types.ResearchData{
		Topic:          topic,
		FactsAndStats:  extractFacts(general.Results),
		Controversies:  extractByKeywords(controversies.Results, controversyKeywords, maxControversies),
		TrendingAngles: extractByKeywords(trends.Results, trendKeywords, maxTrends),
		ContentGaps:    extractByKeywords(gaps.Results, gapKeywords, maxGaps),
		ExpertQuotes:   extractByKeywords(experts.Results, expertIndicators, maxQuotes),
		Sources:        dedupeSources(general.Results, controversies.Results, trends.Results, gaps.Results),
		Summary:        summary,
	}

	if data.Empty() {
		return nil, fmt.Errorf("%w: no usable results for %q", ErrUnavailable, topic)
	}

	return data, nil
}

// expandThinResults fetches source pages for results whose content is too
// short to extract from. Failures are ignored; the snippet stays as-is.
func (r *Researcher) expandThinResults(ctx context.Context, results []SearchResult) {
	for i := range results {
		if len(results[i].Content) >= thinSnippetChars || results[i].URL == "" {
			continue
		}
		page, err := fetch.URL(ctx, results[i].URL, nil)
		if err != nil || page.Text == "" {
			continue
		}
		results[i].Content = truncate(page.Text, 4000)
	}
}
