// Package thinking separates an assistant's reasoning from its visible answer.
//
// Reasoning is delimited by literal <thinking> ... </thinking> tags inside the
// answer text. Callers streaming an answer re-run Split over the whole text
// accumulated so far, because a tag pair may be split across chunks.
package thinking

import (
	"regexp"
	"strings"
)

const (
	OpenTag  = "<thinking>"
	CloseTag = "</thinking>"
)

var blockRegex = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(OpenTag) + `(.*?)` + regexp.QuoteMeta(CloseTag))

// Result holds the two halves of a split answer.
type Result struct {
	Thinking string
	Content  string
}

// Split extracts every complete thinking block from text. Blocks are trimmed
// and joined with a single space; Content is text with the blocks removed,
// trimmed. Removing a block can join the text around it into a new pair, so
// removal repeats until Content holds no complete pair. An opening tag without
// its closing tag is left in Content.
func Split(text string) Result {
	var parts []string
	for {
		matches := blockRegex.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			break
		}
		for _, m := range matches {
			parts = append(parts, strings.TrimSpace(m[1]))
		}
		text = blockRegex.ReplaceAllLiteralString(text, "")
	}
	return Result{
		Thinking: strings.Join(parts, " "),
		Content:  strings.TrimSpace(text),
	}
}

// DefaultWordsPerChunk is the chunk size used when re-streaming a complete answer.
const DefaultWordsPerChunk = 10

// Chunk splits text on single spaces into groups of wordsPerChunk words. Every
// chunk but the last keeps a trailing space, so joining the chunks gives back
// text. Groups made only of whitespace are dropped.
func Chunk(text string, wordsPerChunk int) []string {
	if wordsPerChunk <= 0 {
		wordsPerChunk = DefaultWordsPerChunk
	}
	words := strings.Split(text, " ")
	chunks := make([]string, 0, len(words)/wordsPerChunk+1)
	for i := 0; i < len(words); i += wordsPerChunk {
		end := min(i+wordsPerChunk, len(words))
		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if end < len(words) {
			chunk += " "
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
