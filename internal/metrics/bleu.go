// Package metrics scores a translation: BLEU against a reference and
// perplexity under the translation model.
package metrics

import (
	"math"
	"strings"
)

// MaxOrder is the highest n-gram order scored by ComputeBLEU.
const MaxOrder = 4

// ComputeBLEU returns the sentence BLEU of candidate against reference.
//
// Both strings are tokenized on whitespace. Clipped n-gram precisions for
// n = 1..MaxOrder are combined by a uniform geometric mean and multiplied by
// the brevity penalty. An order for which the candidate has no n-grams is not
// scored and the weights are spread over the remaining orders, so a text
// always scores 1 against itself. An empty candidate, or any scored order with
// no matching n-gram, scores 0.
//
// This differs from NLTK's unsmoothed sentence_bleu, which scores texts shorter
// than MaxOrder tokens near zero (about 1e-154) even against themselves.
func ComputeBLEU(reference, candidate string) float64 {
	ref := strings.Fields(reference)
	hyp := strings.Fields(candidate)
	if len(hyp) == 0 || len(ref) == 0 {
		return 0
	}

	orders := min(MaxOrder, len(hyp))
	var logSum float64
	for n := 1; n <= orders; n++ {
		matches, total := clippedMatches(ref, hyp, n)
		if matches == 0 {
			return 0
		}
		logSum += math.Log(float64(matches) / float64(total))
	}

	score := brevityPenalty(len(ref), len(hyp)) * math.Exp(logSum/float64(orders))
	return math.Max(0, math.Min(1, score))
}

// clippedMatches counts candidate n-grams found in the reference, each clipped
// to its reference count, and the total number of candidate n-grams.
func clippedMatches(ref, hyp []string, n int) (matches, total int) {
	refCounts := ngramCounts(ref, n)
	for gram, count := range ngramCounts(hyp, n) {
		total += count
		matches += min(count, refCounts[gram])
	}
	return matches, total
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x00")]++
	}
	return counts
}

func brevityPenalty(refLen, hypLen int) float64 {
	if hypLen >= refLen {
		return 1
	}
	return math.Exp(1 - float64(refLen)/float64(hypLen))
}
