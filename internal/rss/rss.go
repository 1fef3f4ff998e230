// Package rss loads the configured feed list and fetches individual feeds.
package rss

import (
	"context"
	"fmt"
	"os"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// FeedConfig is one entry of the feeds YAML file:
//
//	feeds:
//	  - url: https://feeds.bbci.co.uk/news/rss.xml
//	    name: BBC News
//	    category: world
//	    region: europe
type FeedConfig struct {
	URL      string `yaml:"url"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Region   string `yaml:"region"`
}

type feedsFile struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

// LoadFeeds reads the seed feed set from a YAML file.
func LoadFeeds(path string) ([]FeedConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg feedsFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Feeds, nil
}

// Fetch downloads and parses a single feed.
func Fetch(ctx context.Context, url string) ([]*gofeed.Item, error) {
	feed, err := gofeed.NewParser().ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}
	return feed.Items, nil
}

// Parse parses feed XML already in hand.
func Parse(data string) ([]*gofeed.Item, error) {
	feed, err := gofeed.NewParser().ParseString(data)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed.Items, nil
}
