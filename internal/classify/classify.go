// Package classify scores article text along four heuristic dimensions
// (reading level, information density, bias, propaganda) and detects
// topics. All scoring is deterministic keyword and ratio arithmetic over
// fixed vocabularies; no calculator ever fails or leaves its [1,10] range.
package classify

import "github.com/mhittle/mikenews/internal/news"

// Classify scores a body of text once and assembles the full record.
// The region label is decided upstream from the feed and page text and
// passes through untouched.
func Classify(title, body, region string) news.Classification {
	return news.Classification{
		ReadingLevel:       ReadingLevel(body),
		InformationDensity: InformationDensity(body),
		BiasScore:          BiasScore(body),
		PropagandaScore:    PropagandaScore(body),
		Length:             len(Words(body)),
		Topics:             Topics(body, title),
		Region:             region,
	}
}
