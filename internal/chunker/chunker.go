// Package chunker splits long paragraphs into sentence-aligned pieces so
// each piece can become its own box. Pieces never overlap: joining them
// with single spaces gives back the paragraph's words in order.
package chunker

import "strings"

// Config controls splitting.
type Config struct {
	MaxWords int // Target piece size in words. Zero disables splitting.
	MinWords int // A trailing piece shorter than this is merged back.
}

// Split breaks text into pieces of at most cfg.MaxWords words, preferring
// sentence boundaries. A single sentence longer than the limit is cut
// between words.
func Split(text string, cfg Config) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if cfg.MaxWords <= 0 || CountWords(text) <= cfg.MaxWords {
		return []string{text}
	}

	var result []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			result = append(result, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, sent := range splitSentences(text) {
		words := strings.Fields(sent)

		if len(words) > cfg.MaxWords {
			flush()
			for len(words) > cfg.MaxWords {
				result = append(result, strings.Join(words[:cfg.MaxWords], " "))
				words = words[cfg.MaxWords:]
			}
			current = append(current, words...)
			continue
		}

		if len(current)+len(words) > cfg.MaxWords {
			flush()
		}
		current = append(current, words...)
	}
	flush()

	return mergeTail(result, cfg.MinWords)
}

// SplitAll applies Split to every text and concatenates the pieces.
func SplitAll(texts []string, cfg Config) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		out = append(out, Split(t, cfg)...)
	}
	return out
}

func mergeTail(parts []string, minWords int) []string {
	n := len(parts)
	if n < 2 || CountWords(parts[n-1]) >= minWords {
		return parts
	}
	parts[n-2] += " " + parts[n-1]
	return parts[:n-1]
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
