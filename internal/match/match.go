// Package match filters classified articles against user preferences.
package match

import (
	"slices"
	"time"

	"github.com/mhittle/mikenews/internal/account"
	"github.com/mhittle/mikenews/internal/news"
)

// Filter returns the candidates that pass both filter stages, in the same
// relative order. Callers hand in articles already sorted newest first;
// nothing here reorders them.
func Filter(candidates []news.Article, prefs account.Preferences, now time.Time) []news.Article {
	matched := make([]news.Article, 0, len(candidates))
	for _, a := range candidates {
		if Matches(a, prefs, now) {
			matched = append(matched, a)
		}
	}
	return matched
}

// Matches reports whether one article passes both stages. Articles without
// a classification never match, whatever the preferences say.
func Matches(a news.Article, prefs account.Preferences, now time.Time) bool {
	c := a.Classification
	if c == nil {
		return false
	}
	return passesStructural(a, c, prefs, now) && passesNumeric(c, prefs)
}

// Stage one: exact structural predicates on paywall, recency, topics,
// regions and length.
func passesStructural(a news.Article, c *news.Classification, prefs account.Preferences, now time.Time) bool {
	if !prefs.ShowPaywalled && a.IsPaywalled {
		return false
	}

	// Articles without a publication date are treated as stale.
	cutoff := now.AddDate(0, 0, -prefs.MaxAgeDays)
	if a.PublishedDate == nil || a.PublishedDate.Before(cutoff) {
		return false
	}

	if len(prefs.Topics) > 0 {
		if prefs.TopicsFilterType == account.FilterAnd {
			if !containsAll(c.Topics, prefs.Topics) {
				return false
			}
		} else if !intersects(c.Topics, prefs.Topics) {
			return false
		}
	}

	if len(prefs.Regions) > 0 && !slices.Contains(prefs.Regions, c.Region) {
		return false
	}

	if prefs.MinLength > 0 && c.Length < prefs.MinLength {
		return false
	}
	if prefs.MaxLength < account.MaxLengthSentinel && c.Length > prefs.MaxLength {
		return false
	}

	return true
}

// Stage two: reading level and density take a closed window of two around
// the preference; bias and propaganda are one-sided inclusive minimums,
// not windows.
func passesNumeric(c *news.Classification, prefs account.Preferences) bool {
	if outsideWindow(c.ReadingLevel, prefs.ReadingLevel) {
		return false
	}
	if outsideWindow(c.InformationDensity, prefs.InformationDensity) {
		return false
	}
	if c.BiasScore < float64(prefs.BiasThreshold) {
		return false
	}
	if c.PropagandaScore < float64(prefs.PropagandaThreshold) {
		return false
	}
	return true
}

func outsideWindow(value float64, pref int) bool {
	return value < float64(pref)-2 || value > float64(pref)+2
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
