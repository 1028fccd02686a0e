package notion

import (
	"regexp"
	"strings"
)

// maxChunkChars keeps each paragraph block under Notion's 2000 character
// rich text limit with headroom.
const maxChunkChars = 1900

// maxBlocks is Notion's cap on children per page create request.
const maxBlocks = 100

var (
	headerRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
)

// CleanMarkdown strips the markdown formatting that Notion paragraph blocks
// would otherwise render literally: heading markers and bold or italic
// asterisks.
func CleanMarkdown(content string) string {
	content = headerRe.ReplaceAllString(content, "")
	content = boldRe.ReplaceAllString(content, "$1")
	content = italicRe.ReplaceAllString(content, "$1")
	return strings.TrimSpace(content)
}

// ChunkContent splits content into chunks of at most maxChunkChars,
// preferring paragraph boundaries, then sentence boundaries, then a hard
// split. At most maxBlocks chunks are returned; anything beyond is dropped.
func ChunkContent(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) > maxChunkChars {
			flush()
			chunks = append(chunks, splitLongParagraph(para)...)
			continue
		}

		if current.Len() > 0 && current.Len()+2+len(para) > maxChunkChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	if len(chunks) > maxBlocks {
		chunks = chunks[:maxBlocks]
	}
	return chunks
}

// splitLongParagraph breaks an oversized paragraph at sentence boundaries,
// falling back to fixed-size slices for sentences that are themselves too
// long.
func splitLongParagraph(para string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, sentence := range strings.SplitAfter(para, ". ") {
		if sentence == "" {
			continue
		}
		for len(sentence) > maxChunkChars {
			flush()
			chunks = append(chunks, sentence[:maxChunkChars])
			sentence = sentence[maxChunkChars:]
		}
		if current.Len()+len(sentence) > maxChunkChars {
			flush()
		}
		current.WriteString(sentence)
	}
	flush()

	for i, chunk := range chunks {
		chunks[i] = strings.TrimSpace(chunk)
	}
	return chunks
}
