// Package chunker splits model input into sentence-aligned pieces that fit the
// model's token budget.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxTokens is the default budget per model input, about 512
// characters, so a full-length request is translated in sentence-aligned
// pieces. M2M100 accepts 1024 positions.
const DefaultMaxTokens = 128

// EstimateTokens estimates the token count for a text.
// Uses a simple heuristic: ~4 characters per token for Latin languages.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// SplitSentences splits text after '.', '!' or '?' runs followed by whitespace.
// Sentence text is trimmed; empty sentences are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && (isTerminal(runes[j]) || isCloser(runes[j])) {
			j++
		}
		if j < len(runes) && !isSpace(runes[j]) {
			i = j - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:j])); s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// ChunkByTokens splits texts into chunks that don't exceed maxTokens.
// Each text is kept whole - never split mid-text.
// Returns a slice of chunks, where each chunk is a slice of texts.
func ChunkByTokens(texts []string, maxTokens int) [][]string {
	if len(texts) == 0 {
		return nil
	}

	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var chunks [][]string
	var currentChunk []string
	currentTokens := 0

	for _, text := range texts {
		textTokens := EstimateTokens(text)

		// An oversized text gets its own chunk.
		if textTokens > maxTokens {
			if len(currentChunk) > 0 {
				chunks = append(chunks, currentChunk)
				currentChunk = nil
				currentTokens = 0
			}
			chunks = append(chunks, []string{text})
			continue
		}

		if currentTokens+textTokens > maxTokens && len(currentChunk) > 0 {
			chunks = append(chunks, currentChunk)
			currentChunk = nil
			currentTokens = 0
		}

		currentChunk = append(currentChunk, text)
		currentTokens += textTokens
	}

	if len(currentChunk) > 0 {
		chunks = append(chunks, currentChunk)
	}

	return chunks
}

// Segment prepares text for the model. Text within maxTokens is returned whole;
// longer text is split into sentences and packed into space-joined inputs.
func Segment(text string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if EstimateTokens(text) <= maxTokens {
		return []string{text}
	}

	chunks := ChunkByTokens(SplitSentences(text), maxTokens)
	inputs := make([]string, len(chunks))
	for i, chunk := range chunks {
		inputs[i] = strings.Join(chunk, " ")
	}
	return inputs
}

func isTerminal(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isCloser(r rune) bool { return r == '"' || r == '\'' || r == ')' }

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
