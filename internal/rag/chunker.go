package rag

import "strings"

// Default chunking parameters. The lexical path packs words into
// character-bounded chunks; the embedding path uses a sliding word window so
// consecutive chunks share context.
const (
	DefaultChunkSize    = 2000 // characters, lexical path
	DefaultWindowWords  = 200  // words per window, embedding path
	DefaultOverlapWords = 50   // words shared between consecutive windows
)

// Split divides text into chunks on word boundaries.
//
// With overlap == 0, words are packed greedily until adding the next word
// would exceed targetSize characters (counting one separator per word). The
// first word of a chunk is never dropped even if it alone exceeds the size.
//
// With overlap > 0, targetSize and overlap are word counts: windows advance
// by targetSize-overlap words so consecutive chunks share overlap words, and
// the last window may be shorter.
//
// Empty input yields a nil slice, not an error.
func Split(text string, targetSize, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if overlap > 0 {
		return slidingWindows(words, targetSize, overlap)
	}

	var chunks []string
	var current []string
	size := 0
	for _, word := range words {
		if size+len(word)+1 > targetSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			size = len(word)
		} else {
			current = append(current, word)
			size += len(word) + 1
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

func slidingWindows(words []string, window, overlap int) []string {
	if window <= overlap {
		// Degenerate configuration; fall back to non-overlapping windows so
		// the walk always advances.
		overlap = 0
	}
	step := window - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + window
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
