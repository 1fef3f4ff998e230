package classify

import (
	"math"
	"strings"
)

// defaultScore is returned for degenerate input. Every calculator stays in
// [1,10] and never returns an error; unreadable text scores neutral.
const defaultScore = 5.0

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// countPresent counts how many terms occur somewhere in text. A term
// contributes one hit no matter how often it repeats.
func countPresent(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}

// ReadingLevel estimates complexity from average sentence length: mean
// words per sentence divided by 3, clamped to [1,10]. Word counts here
// split on whitespace so punctuation stays attached to its token.
func ReadingLevel(text string) float64 {
	if text == "" {
		return defaultScore
	}
	sents := Sentences(text)
	if len(sents) == 0 {
		return defaultScore
	}
	words := 0
	for _, s := range sents {
		words += len(strings.Fields(s))
	}
	avg := float64(words) / float64(len(sents))
	return clamp(avg/3, 1, 10)
}

// InformationDensity scores the unique-token ratio scaled by 20. Repetitive
// text scores low, varied vocabulary high. Short texts land near 10 because
// few tokens repeat; that instability is part of the score's contract.
func InformationDensity(text string) float64 {
	tokens := Words(text)
	if len(tokens) == 0 {
		return defaultScore
	}
	unique := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		unique[tok] = struct{}{}
	}
	ratio := float64(len(unique)) / float64(len(tokens))
	return clamp(ratio*20, 1, 10)
}

// BiasScore compares hits from the two leaning vocabularies. 10 means
// balanced: equal counts on both sides, including zero hits on either.
// Pure one-sided text bottoms out at 1.
func BiasScore(text string) float64 {
	if text == "" {
		return defaultScore
	}
	lower := strings.ToLower(text)
	left := countPresent(lower, leftBiasTerms)
	right := countPresent(lower, rightBiasTerms)
	if left == right {
		return 10
	}
	imbalance := math.Abs(float64(left-right)) / float64(left+right)
	return clamp(10-imbalance*9, 1, 10)
}

// PropagandaScore inverts the indicator density per 100 words: 10 means no
// indicators, heavy absolutist language drives the score toward 1. Short
// bodies swing hard since a single hit weighs a lot against few words.
func PropagandaScore(text string) float64 {
	if text == "" {
		return defaultScore
	}
	lower := strings.ToLower(text)
	hits := countPresent(lower, propagandaIndicators)
	wordCount := len(Words(text))
	if wordCount == 0 {
		return defaultScore
	}
	density := float64(hits) / (float64(wordCount) / 100)
	return clamp(10-density, 1, 10)
}
