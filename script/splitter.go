package script

import (
	"regexp"
	"strings"
)

var sentenceRegex = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// SplitByCharLimit splits text into blocks under charLimit characters while
// keeping sentences intact. A single sentence longer than the limit falls
// back to word-level splitting.
func SplitByCharLimit(text string, charLimit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= charLimit {
		return []string{text}
	}

	var blocks []string
	currentBlock := ""

	for _, sentence := range splitSentences(text) {
		if len(currentBlock)+len(sentence)+1 <= charLimit {
			if currentBlock == "" {
				currentBlock = sentence
			} else {
				currentBlock += " " + sentence
			}
			continue
		}

		if currentBlock != "" {
			blocks = append(blocks, currentBlock)
			currentBlock = ""
		}

		if len(sentence) <= charLimit {
			currentBlock = sentence
			continue
		}

		// Oversized sentence: split on word boundaries.
		for _, word := range strings.Fields(sentence) {
			if currentBlock == "" {
				currentBlock = word
			} else if len(currentBlock)+len(word)+1 <= charLimit {
				currentBlock += " " + word
			} else {
				blocks = append(blocks, currentBlock)
				currentBlock = word
			}
		}
	}

	if currentBlock != "" {
		blocks = append(blocks, currentBlock)
	}

	return blocks
}

// splitSentences cuts text at sentence-ending punctuation, keeping the
// punctuation attached to its sentence.
func splitSentences(text string) []string {
	bodies := sentenceRegex.Split(text, -1)
	ends := sentenceRegex.FindAllString(text, -1)

	var sentences []string
	for i, body := range bodies {
		s := body
		if i < len(ends) {
			s += strings.TrimRight(ends[i], " \t\n")
		}
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
