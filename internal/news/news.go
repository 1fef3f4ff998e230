// Package news holds the domain model shared across the aggregator:
// articles, their classification records, and the RSS feeds they come from.
package news

import (
	"strings"
	"time"
)

// Article is a single aggregated news item. Classification stays nil until
// the ingest pipeline has scored the article; rows written before scoring
// existed surface that way too.
type Article struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	URL            string          `json:"url"`
	Source         string          `json:"source"`
	SourceID       string          `json:"source_id"`
	Author         string          `json:"author,omitempty"`
	PublishedDate  *time.Time      `json:"published_date"`
	Summary        string          `json:"summary,omitempty"`
	Content        string          `json:"content,omitempty"`
	ImageURL       string          `json:"image_url,omitempty"`
	IsPaywalled    bool            `json:"is_paywalled"`
	Classification *Classification `json:"classification"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Body returns the text the scoring engine works on: the extracted page
// content when we have it, the RSS summary otherwise.
func (a *Article) Body() string {
	if strings.TrimSpace(a.Content) != "" {
		return a.Content
	}
	return a.Summary
}

// Classification is the heuristic scoring record attached to an article
// exactly once, at ingest time. The four scores lie in [1,10]; Topics is
// never empty ("uncategorized" stands in when nothing matched).
type Classification struct {
	ReadingLevel       float64  `json:"reading_level"`
	InformationDensity float64  `json:"information_density"`
	BiasScore          float64  `json:"bias_score"`
	PropagandaScore    float64  `json:"propaganda_score"`
	Length             int      `json:"length"`
	Topics             []string `json:"topics"`
	Region             string   `json:"region"`
}

// Feed is a configured RSS source.
type Feed struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Region      string     `json:"region"`
	Active      bool       `json:"active"`
	LastChecked *time.Time `json:"last_checked"`
}

// LabelCount pairs a grouping label with how many rows carry it.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FeedStats is the aggregate snapshot served by the stats endpoint.
type FeedStats struct {
	TotalFeeds        int          `json:"total_feeds"`
	ActiveFeeds       int          `json:"active_feeds"`
	TotalArticles     int          `json:"total_articles"`
	PaywalledArticles int          `json:"paywalled_articles"`
	Categories        []LabelCount `json:"categories"`
	Regions           []LabelCount `json:"regions"`
}
