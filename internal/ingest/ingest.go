// Package ingest runs the feed processing pipeline: fetch feed, walk its
// items, scrape and classify new articles, store them.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/mhittle/mikenews/internal/cache"
	"github.com/mhittle/mikenews/internal/classify"
	"github.com/mhittle/mikenews/internal/logger"
	"github.com/mhittle/mikenews/internal/metrics"
	"github.com/mhittle/mikenews/internal/news"
	"github.com/mhittle/mikenews/internal/retry"
	"github.com/mhittle/mikenews/internal/rss"
	"github.com/mhittle/mikenews/internal/scraper"
)

// articlePause spaces out page fetches within one feed so source sites are
// not hammered.
const articlePause = 500 * time.Millisecond

// Store is the persistence surface the pipeline needs.
type Store interface {
	GetFeed(ctx context.Context, id string) (news.Feed, error)
	ListActiveFeeds(ctx context.Context) ([]news.Feed, error)
	MarkFeedChecked(ctx context.Context, id string, at time.Time) error
	HasArticleURL(ctx context.Context, url string) (bool, error)
	InsertArticle(ctx context.Context, a news.Article) error
}

type Processor struct {
	store    Store
	scraper  *scraper.Scraper
	guard    *cache.Cache
	guardTTL time.Duration
	pause    time.Duration
}

func New(store Store, sc *scraper.Scraper, guard *cache.Cache, guardTTL time.Duration) *Processor {
	return &Processor{
		store:    store,
		scraper:  sc,
		guard:    guard,
		guardTTL: guardTTL,
		pause:    articlePause,
	}
}

// ProcessAll walks every active feed. Per-feed failures are logged and
// recorded, not propagated, so one dead feed does not starve the rest.
func (p *Processor) ProcessAll(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(start))
		metrics.Global.SetLastRun()
	}()

	logger.Info("starting feed processing")

	feeds, err := p.store.ListActiveFeeds(ctx)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("list active feeds: %w", err)
	}

	for _, feed := range feeds {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.processFeed(ctx, feed); err != nil {
			logger.Error("feed processing failed", "feed", feed.Name, "error", err)
			metrics.Global.SetError(err.Error())
		}
	}

	logger.Info("completed feed processing", "feeds", len(feeds), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// ProcessFeed runs the pipeline for one feed by id.
func (p *Processor) ProcessFeed(ctx context.Context, feedID string) error {
	feed, err := p.store.GetFeed(ctx, feedID)
	if err != nil {
		return fmt.Errorf("load feed %s: %w", feedID, err)
	}
	return p.processFeed(ctx, feed)
}

func (p *Processor) processFeed(ctx context.Context, feed news.Feed) error {
	var items []*gofeed.Item
	err := retry.WithRetry(ctx, retry.Config{MaxAttempts: 2, Delay: 2 * time.Second}, func() error {
		var ferr error
		items, ferr = rss.Fetch(ctx, feed.URL)
		return ferr
	})
	if err != nil {
		metrics.Global.IncrementFetchErrors()
		return err
	}
	metrics.Global.IncrementFeedsFetched()

	if err := p.store.MarkFeedChecked(ctx, feed.ID, time.Now().UTC()); err != nil {
		logger.Warn("mark feed checked failed", "feed", feed.Name, "error", err)
	}

	stored := 0
	for i, item := range items {
		if i > 0 && p.pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pause):
			}
		}

		ok, err := p.processItem(ctx, feed, item)
		if err != nil {
			logger.Warn("article processing failed", "url", item.Link, "error", err)
			continue
		}
		if ok {
			stored++
		}
	}

	logger.Info("feed processed", "feed", feed.Name, "items", len(items), "stored", stored)
	return nil
}

// processItem turns one feed item into a stored classified article. It
// reports false for skips (blank link, already seen) and reserves errors
// for storage failures.
func (p *Processor) processItem(ctx context.Context, feed news.Feed, item *gofeed.Item) (bool, error) {
	metrics.Global.IncrementArticlesProcessed()

	link := strings.TrimSpace(item.Link)
	if link == "" {
		return false, nil
	}

	key := cache.Key("article", link)
	if _, seen := p.guard.Get(key); seen {
		metrics.Global.IncrementDuplicatesSkipped()
		return false, nil
	}
	exists, err := p.store.HasArticleURL(ctx, link)
	if err != nil {
		return false, err
	}
	if exists {
		p.guard.Set(key, true, p.guardTTL)
		metrics.Global.IncrementDuplicatesSkipped()
		return false, nil
	}

	article := news.Article{
		ID:            uuid.NewString(),
		Title:         item.Title,
		URL:           link,
		Source:        feed.Name,
		SourceID:      feed.ID,
		Summary:       item.Description,
		PublishedDate: item.PublishedParsed,
		CreatedAt:     time.Now().UTC(),
	}
	if item.Author != nil {
		article.Author = item.Author.Name
	}

	html, err := p.scraper.Fetch(ctx, link)
	if err != nil {
		logger.Debug("page fetch failed", "url", link, "error", err)
		metrics.Global.IncrementFetchErrors()
	} else {
		article.IsPaywalled = scraper.IsPaywalled(html)
		if article.IsPaywalled {
			metrics.Global.IncrementPaywalledDetected()
		} else if extracted, perr := scraper.ExtractFromHTML(html); perr == nil {
			article.Content = extracted.Text
			article.ImageURL = extracted.ImageURL
			if extracted.Author != "" {
				article.Author = extracted.Author
			}
		} else {
			logger.Debug("content extraction failed", "url", link, "error", perr)
		}
	}

	body := article.Body()
	classification := classify.Classify(article.Title, body, DetectRegion(body, feed.Region))
	article.Classification = &classification

	if err := p.store.InsertArticle(ctx, article); err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}
	p.guard.Set(key, true, p.guardTTL)
	metrics.Global.IncrementArticlesClassified()
	return true, nil
}
