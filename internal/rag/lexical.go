package rag

import (
	"sort"
	"strings"
)

// stopWords is the fixed set of common function words removed from queries
// before scoring. Tuned empirically; kept as-is rather than re-derived.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"what": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"who": {}, "which": {},
}

// LexicalRanker scores chunks against a query using only string operations,
// no embeddings. The weights and thresholds are empirical constants carried
// over from production tuning; change them via the fields, not the formula.
type LexicalRanker struct {
	OverlapWeight  float64 // weight of token-set overlap
	PhraseWeight   float64 // weight of substring phrase matches
	PositionBonus  float64 // bonus per query token found early in a chunk
	PositionWindow float64 // fraction of chunk length counting as "early"
	TopK           int
}

// NewLexicalRanker returns a ranker with the default scoring constants.
func NewLexicalRanker() *LexicalRanker {
	return &LexicalRanker{
		OverlapWeight:  0.6,
		PhraseWeight:   0.3,
		PositionBonus:  0.2,
		PositionWindow: 0.3,
		TopK:           5,
	}
}

// Rank scores chunks against the query and returns the top k in strictly
// non-increasing score order, ties broken by original chunk order. Chunks
// scoring zero are excluded. k <= 0 falls back to the ranker's TopK. If
// every query token is a stop word no ranking is possible and the first k
// chunks are returned in store order.
func (r *LexicalRanker) Rank(query string, chunks []Chunk, k int) []ScoredChunk {
	if k <= 0 {
		k = r.TopK
	}
	if k <= 0 {
		k = 5
	}

	queryTokens := tokenSet(strings.ToLower(query))
	for w := range stopWords {
		delete(queryTokens, w)
	}

	if len(queryTokens) == 0 {
		if k > len(chunks) {
			k = len(chunks)
		}
		out := make([]ScoredChunk, k)
		for i := 0; i < k; i++ {
			out[i] = ScoredChunk{Chunk: chunks[i]}
		}
		return out
	}

	var scored []ScoredChunk
	for _, chunk := range chunks {
		score := r.scoreChunk(queryTokens, chunk)
		if score > 0 {
			scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

func (r *LexicalRanker) scoreChunk(queryTokens map[string]struct{}, chunk Chunk) float64 {
	chunkLower := strings.ToLower(chunk.Text)
	chunkTokens := tokenSet(chunkLower)

	common := 0
	for t := range queryTokens {
		if _, ok := chunkTokens[t]; ok {
			common++
		}
	}
	overlap := float64(common) / float64(len(queryTokens))

	// Substring matches are distinct from the set overlap: they catch query
	// tokens embedded in longer chunk words. Early occurrences earn a bonus.
	phrase := 0.0
	positionBonus := 0.0
	earlyWindow := float64(len(chunk.Text)) * r.PositionWindow
	for t := range queryTokens {
		pos := strings.Index(chunkLower, t)
		if pos < 0 {
			continue
		}
		phrase++
		if float64(pos) < earlyWindow {
			positionBonus += r.PositionBonus
		}
	}

	return overlap*r.OverlapWeight + phrase*r.PhraseWeight + positionBonus
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
