package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mhittle/mikenews/internal/cache"
	"github.com/mhittle/mikenews/internal/news"
	"github.com/mhittle/mikenews/internal/retry"
	"github.com/mhittle/mikenews/internal/scraper"
)

type fakeStore struct {
	mu       sync.Mutex
	feeds    map[string]news.Feed
	articles map[string]news.Article // keyed by URL
	checked  map[string]time.Time
}

var _ Store = (*fakeStore)(nil)

func newFakeStore(feeds ...news.Feed) *fakeStore {
	s := &fakeStore{
		feeds:    make(map[string]news.Feed),
		articles: make(map[string]news.Article),
		checked:  make(map[string]time.Time),
	}
	for _, f := range feeds {
		s.feeds[f.ID] = f
	}
	return s
}

func (s *fakeStore) GetFeed(_ context.Context, id string) (news.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feeds[id]
	if !ok {
		return news.Feed{}, errors.New("feed not found")
	}
	return f, nil
}

func (s *fakeStore) ListActiveFeeds(_ context.Context) ([]news.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []news.Feed
	for _, f := range s.feeds {
		if f.Active {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStore) MarkFeedChecked(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked[id] = at
	return nil
}

func (s *fakeStore) HasArticleURL(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.articles[url]
	return ok, nil
}

func (s *fakeStore) InsertArticle(_ context.Context, a news.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[a.URL] = a
	return nil
}

func (s *fakeStore) article(url string) (news.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[url]
	return a, ok
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

// pageServer serves article pages: a readable story, a paywalled teaser
// and a missing page.
func pageServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Transit Plan Approved</h1><article>
<p>The city council approved the transit plan after a long debate.</p>
<p>Planners visited Germany to study its tram systems.</p>
<p>Riders welcomed shorter waits during the morning commute.</p>
</article></body></html>`)
	})
	mux.HandleFunc("/paywalled", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Subscribe now to continue reading this premium article.</p></body></html>`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// feedServer serves RSS XML with the given item fragments.
func feedServer(t *testing.T, items string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test Feed</title><link>https://example.com</link>%s</channel></rss>`, items)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestProcessor(store Store) *Processor {
	sc := scraper.New(5*time.Second, nil, retry.Config{MaxAttempts: 1, Delay: time.Millisecond})
	p := New(store, sc, cache.New(), time.Hour)
	p.pause = 0
	return p
}

func TestProcessFeedStoresClassifiedArticles(t *testing.T) {
	pages := pageServer(t)
	items := fmt.Sprintf(`
<item><title>Council approves transit plan</title><link>%s/good</link>
<description>The council will vote on the plan.</description>
<pubDate>Mon, 10 Mar 2025 12:00:00 GMT</pubDate></item>
<item><title>Premium markets note</title><link>%s/paywalled</link>
<description>Bond markets were calm.</description>
<pubDate>Mon, 10 Mar 2025 13:00:00 GMT</pubDate></item>`, pages.URL, pages.URL)
	feeds := feedServer(t, items)

	feed := news.Feed{ID: "f1", URL: feeds.URL, Name: "Example Times", Category: "general", Region: "north_america", Active: true}
	store := newFakeStore(feed)
	p := newTestProcessor(store)

	if err := p.ProcessFeed(context.Background(), "f1"); err != nil {
		t.Fatalf("process feed: %v", err)
	}

	if store.count() != 2 {
		t.Fatalf("expected 2 stored articles, got %d", store.count())
	}

	good, ok := store.article(pages.URL + "/good")
	if !ok {
		t.Fatal("readable article missing from store")
	}
	if good.IsPaywalled {
		t.Error("readable article flagged as paywalled")
	}
	if good.Content == "" {
		t.Error("expected extracted content on readable article")
	}
	if good.Classification == nil {
		t.Fatal("expected classification on readable article")
	}
	if good.Classification.Region != "europe" {
		t.Errorf("expected region detected from page text, got %q", good.Classification.Region)
	}
	if good.Classification.Length == 0 {
		t.Error("expected nonzero body length")
	}
	if good.Source != "Example Times" || good.SourceID != "f1" {
		t.Errorf("source fields wrong: %q/%q", good.Source, good.SourceID)
	}
	if good.PublishedDate == nil {
		t.Error("expected published date from the feed item")
	}

	walled, ok := store.article(pages.URL + "/paywalled")
	if !ok {
		t.Fatal("paywalled article missing from store")
	}
	if !walled.IsPaywalled {
		t.Error("expected paywall flag")
	}
	if walled.Content != "" {
		t.Error("paywalled article must not keep extracted content")
	}
	if walled.Classification == nil {
		t.Fatal("paywalled article must still be classified from its summary")
	}
	if len(walled.Classification.Topics) != 1 || walled.Classification.Topics[0] != "business" {
		t.Errorf("expected summary-derived topics [business], got %v", walled.Classification.Topics)
	}
	if walled.Classification.Region != "north_america" {
		t.Errorf("expected feed region fallback, got %q", walled.Classification.Region)
	}

	store.mu.Lock()
	_, checked := store.checked["f1"]
	store.mu.Unlock()
	if !checked {
		t.Error("expected feed marked checked")
	}
}

func TestProcessFeedSkipsKnownURLs(t *testing.T) {
	pages := pageServer(t)
	items := fmt.Sprintf(`
<item><title>Council approves transit plan</title><link>%s/good</link>
<description>The council will vote on the plan.</description></item>`, pages.URL)
	feeds := feedServer(t, items)

	feed := news.Feed{ID: "f1", URL: feeds.URL, Name: "Example Times", Region: "north_america", Active: true}
	store := newFakeStore(feed)
	store.articles[pages.URL+"/good"] = news.Article{ID: "existing", URL: pages.URL + "/good"}

	p := newTestProcessor(store)
	if err := p.ProcessFeed(context.Background(), "f1"); err != nil {
		t.Fatalf("process feed: %v", err)
	}

	got, _ := store.article(pages.URL + "/good")
	if got.ID != "existing" {
		t.Error("existing article must not be replaced")
	}
	if store.count() != 1 {
		t.Errorf("expected no new articles, got %d", store.count())
	}
}

func TestProcessFeedGuardShortCircuitsSecondRun(t *testing.T) {
	pages := pageServer(t)
	items := fmt.Sprintf(`
<item><title>Council approves transit plan</title><link>%s/good</link>
<description>The council will vote on the plan.</description></item>`, pages.URL)
	feeds := feedServer(t, items)

	feed := news.Feed{ID: "f1", URL: feeds.URL, Name: "Example Times", Region: "north_america", Active: true}
	store := newFakeStore(feed)
	p := newTestProcessor(store)

	for run := 0; run < 2; run++ {
		if err := p.ProcessFeed(context.Background(), "f1"); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}
	if store.count() != 1 {
		t.Errorf("expected a single stored article across runs, got %d", store.count())
	}
}

func TestProcessFeedClassifiesFromSummaryWhenPageUnreachable(t *testing.T) {
	pages := pageServer(t)
	items := fmt.Sprintf(`
<item><title>Vanished story</title><link>%s/missing</link>
<description>The biology study found a new species of beetle.</description></item>`, pages.URL)
	feeds := feedServer(t, items)

	feed := news.Feed{ID: "f1", URL: feeds.URL, Name: "Example Times", Region: "asia", Active: true}
	store := newFakeStore(feed)
	p := newTestProcessor(store)

	if err := p.ProcessFeed(context.Background(), "f1"); err != nil {
		t.Fatalf("process feed: %v", err)
	}

	a, ok := store.article(pages.URL + "/missing")
	if !ok {
		t.Fatal("article must be stored despite the failed page fetch")
	}
	if a.Content != "" {
		t.Error("expected no content for unreachable page")
	}
	if a.Classification == nil {
		t.Fatal("expected classification from the summary")
	}
	if len(a.Classification.Topics) != 1 || a.Classification.Topics[0] != "science" {
		t.Errorf("expected topics [science] from summary, got %v", a.Classification.Topics)
	}
}

func TestProcessFeedSkipsBlankLinks(t *testing.T) {
	feeds := feedServer(t, `
<item><title>No link here</title><description>Nothing to follow.</description></item>`)

	feed := news.Feed{ID: "f1", URL: feeds.URL, Name: "Example Times", Region: "europe", Active: true}
	store := newFakeStore(feed)
	p := newTestProcessor(store)

	if err := p.ProcessFeed(context.Background(), "f1"); err != nil {
		t.Fatalf("process feed: %v", err)
	}
	if store.count() != 0 {
		t.Errorf("expected nothing stored for a linkless item, got %d", store.count())
	}
}

func TestProcessFeedUnknownID(t *testing.T) {
	p := newTestProcessor(newFakeStore())
	if err := p.ProcessFeed(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for unknown feed id")
	}
}

func TestProcessAllContinuesPastBrokenFeed(t *testing.T) {
	pages := pageServer(t)
	items := fmt.Sprintf(`
<item><title>Council approves transit plan</title><link>%s/good</link>
<description>The council will vote on the plan.</description></item>`, pages.URL)
	goodFeed := feedServer(t, items)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	t.Cleanup(broken.Close)

	store := newFakeStore(
		news.Feed{ID: "bad", URL: broken.URL, Name: "Broken Feed", Region: "europe", Active: true},
		news.Feed{ID: "good", URL: goodFeed.URL, Name: "Example Times", Region: "europe", Active: true},
		news.Feed{ID: "inactive", URL: goodFeed.URL, Name: "Dormant", Region: "europe", Active: false},
	)
	p := newTestProcessor(store)

	if err := p.ProcessAll(context.Background()); err != nil {
		t.Fatalf("process all: %v", err)
	}
	if store.count() != 1 {
		t.Errorf("expected the healthy feed processed, got %d articles", store.count())
	}
}
