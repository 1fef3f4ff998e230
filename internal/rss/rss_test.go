package rss

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feeds.yaml")
	data := `feeds:
  - url: https://feeds.bbci.co.uk/news/rss.xml
    name: BBC News
    category: world
    region: europe
  - url: https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml
    name: New York Times
    category: general
    region: north_america
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("load feeds: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(feeds))
	}
	if feeds[0].Name != "BBC News" || feeds[0].Region != "europe" {
		t.Errorf("first feed wrong: %+v", feeds[0])
	}
	if feeds[1].Category != "general" {
		t.Errorf("second feed category wrong: %+v", feeds[1])
	}
}

func TestLoadFeedsMissingFile(t *testing.T) {
	if _, err := LoadFeeds(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFeedsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte("feeds: {{{"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFeeds(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestParse(t *testing.T) {
	feedXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <item>
      <title>First Story</title>
      <link>https://example.com/first</link>
      <description>Something happened.</description>
      <pubDate>Mon, 10 Mar 2025 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Second Story</title>
      <link>https://example.com/second</link>
      <description>Something else happened.</description>
    </item>
  </channel>
</rss>`

	items, err := Parse(feedXML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "First Story" || items[0].Link != "https://example.com/first" {
		t.Errorf("first item wrong: %+v", items[0])
	}
	if items[0].PublishedParsed == nil {
		t.Error("expected parsed publication date on first item")
	}
	if items[1].PublishedParsed != nil {
		t.Error("expected nil publication date on undated item")
	}
}
