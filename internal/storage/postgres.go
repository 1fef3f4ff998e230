// Package storage persists users, feeds and articles in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mhittle/mikenews/internal/account"
	"github.com/mhittle/mikenews/internal/logger"
	"github.com/mhittle/mikenews/internal/news"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Postgres struct {
	db *sql.DB
}

// New opens the database, verifies the connection and creates the schema.
func New(databaseURL string) (*Postgres, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Info("postgres connected")
	return p, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		preferences JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS rss_feeds (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_checked TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL DEFAULT '',
		source_id TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		published_date TIMESTAMPTZ,
		summary TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		is_paywalled BOOLEAN NOT NULL DEFAULT FALSE,
		reading_level DOUBLE PRECISION,
		information_density DOUBLE PRECISION,
		bias_score DOUBLE PRECISION,
		propaganda_score DOUBLE PRECISION,
		word_count INTEGER,
		topics TEXT[],
		region TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_articles_published_date ON articles (published_date DESC);
	CREATE INDEX IF NOT EXISTS idx_articles_source_id ON articles (source_id);
	`

	_, err := p.db.Exec(schema)
	return err
}

// --- users ---

func (p *Postgres) CreateUser(ctx context.Context, u account.User) error {
	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, preferences, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.Email, u.PasswordHash, prefs, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (account.User, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, preferences, created_at
		FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, preferences, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (p *Postgres) UpdatePreferences(ctx context.Context, userID string, prefs account.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	res, err := p.db.ExecContext(ctx,
		`UPDATE users SET preferences = $1 WHERE id = $2`, data, userID)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (account.User, error) {
	var (
		u   account.User
		raw []byte
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &raw, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return account.User{}, ErrNotFound
	}
	if err != nil {
		return account.User{}, fmt.Errorf("scan user: %w", err)
	}

	// Overlay stored preferences on the defaults so rows written before a
	// preference field existed still read back complete.
	prefs := account.DefaultPreferences()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &prefs); err != nil {
			return account.User{}, fmt.Errorf("decode preferences: %w", err)
		}
	}
	u.Preferences = prefs
	return u, nil
}

// --- feeds ---

func (p *Postgres) CreateFeed(ctx context.Context, f news.Feed) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO rss_feeds (id, url, name, category, region, active, last_checked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.ID, f.URL, f.Name, f.Category, f.Region, f.Active, f.LastChecked)
	if err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	return nil
}

// SeedFeeds inserts feeds that are not present yet, keyed by URL. It
// returns how many rows were actually added.
func (p *Postgres) SeedFeeds(ctx context.Context, feeds []news.Feed) (int, error) {
	added := 0
	for _, f := range feeds {
		res, err := p.db.ExecContext(ctx, `
			INSERT INTO rss_feeds (id, url, name, category, region, active)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (url) DO NOTHING`,
			f.ID, f.URL, f.Name, f.Category, f.Region, f.Active)
		if err != nil {
			return added, fmt.Errorf("seed feed %s: %w", f.URL, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}

func (p *Postgres) GetFeed(ctx context.Context, id string) (news.Feed, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, url, name, category, region, active, last_checked
		FROM rss_feeds WHERE id = $1`, id)
	return scanFeed(row)
}

func (p *Postgres) GetFeedByURL(ctx context.Context, url string) (news.Feed, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, url, name, category, region, active, last_checked
		FROM rss_feeds WHERE url = $1`, url)
	return scanFeed(row)
}

func scanFeed(row *sql.Row) (news.Feed, error) {
	var (
		f       news.Feed
		checked sql.NullTime
	)
	err := row.Scan(&f.ID, &f.URL, &f.Name, &f.Category, &f.Region, &f.Active, &checked)
	if errors.Is(err, sql.ErrNoRows) {
		return news.Feed{}, ErrNotFound
	}
	if err != nil {
		return news.Feed{}, fmt.Errorf("scan feed: %w", err)
	}
	if checked.Valid {
		t := checked.Time
		f.LastChecked = &t
	}
	return f, nil
}

func (p *Postgres) ListFeeds(ctx context.Context) ([]news.Feed, error) {
	return p.listFeeds(ctx, `
		SELECT id, url, name, category, region, active, last_checked
		FROM rss_feeds ORDER BY name`)
}

func (p *Postgres) ListActiveFeeds(ctx context.Context) ([]news.Feed, error) {
	return p.listFeeds(ctx, `
		SELECT id, url, name, category, region, active, last_checked
		FROM rss_feeds WHERE active ORDER BY name`)
}

func (p *Postgres) listFeeds(ctx context.Context, query string) ([]news.Feed, error) {
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	feeds := []news.Feed{}
	for rows.Next() {
		var (
			f       news.Feed
			checked sql.NullTime
		)
		if err := rows.Scan(&f.ID, &f.URL, &f.Name, &f.Category, &f.Region, &f.Active, &checked); err != nil {
			return nil, fmt.Errorf("scan feed: %w", err)
		}
		if checked.Valid {
			t := checked.Time
			f.LastChecked = &t
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func (p *Postgres) DeleteFeed(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM rss_feeds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) MarkFeedChecked(ctx context.Context, id string, at time.Time) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE rss_feeds SET last_checked = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("mark feed checked: %w", err)
	}
	return nil
}

// FeedStats aggregates feed and article counts for the stats endpoint.
func (p *Postgres) FeedStats(ctx context.Context) (news.FeedStats, error) {
	var stats news.FeedStats

	err := p.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM rss_feeds),
			(SELECT COUNT(*) FROM rss_feeds WHERE active),
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM articles WHERE is_paywalled)`).
		Scan(&stats.TotalFeeds, &stats.ActiveFeeds, &stats.TotalArticles, &stats.PaywalledArticles)
	if err != nil {
		return stats, fmt.Errorf("count stats: %w", err)
	}

	stats.Categories, err = p.labelCounts(ctx, `
		SELECT category, COUNT(*) FROM rss_feeds GROUP BY category ORDER BY COUNT(*) DESC, category`)
	if err != nil {
		return stats, err
	}
	stats.Regions, err = p.labelCounts(ctx, `
		SELECT region, COUNT(*) FROM rss_feeds GROUP BY region ORDER BY COUNT(*) DESC, region`)
	if err != nil {
		return stats, err
	}
	return stats, nil
}

func (p *Postgres) labelCounts(ctx context.Context, query string) ([]news.LabelCount, error) {
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("label counts: %w", err)
	}
	defer rows.Close()

	counts := []news.LabelCount{}
	for rows.Next() {
		var lc news.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		counts = append(counts, lc)
	}
	return counts, rows.Err()
}

// --- articles ---

const articleColumns = `
	id, title, url, source, source_id, author, published_date, summary,
	content, image_url, is_paywalled, reading_level, information_density,
	bias_score, propaganda_score, word_count, topics, region, created_at`

// InsertArticle stores an article; a URL already present is left alone.
func (p *Postgres) InsertArticle(ctx context.Context, a news.Article) error {
	var (
		readingLevel, infoDensity, biasScore, propagandaScore sql.NullFloat64
		wordCount                                             sql.NullInt64
		region                                                sql.NullString
		topics                                                []string
	)
	if c := a.Classification; c != nil {
		readingLevel = sql.NullFloat64{Float64: c.ReadingLevel, Valid: true}
		infoDensity = sql.NullFloat64{Float64: c.InformationDensity, Valid: true}
		biasScore = sql.NullFloat64{Float64: c.BiasScore, Valid: true}
		propagandaScore = sql.NullFloat64{Float64: c.PropagandaScore, Valid: true}
		wordCount = sql.NullInt64{Int64: int64(c.Length), Valid: true}
		region = sql.NullString{String: c.Region, Valid: true}
		topics = c.Topics
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (url) DO NOTHING`,
		a.ID, a.Title, a.URL, a.Source, a.SourceID, a.Author, a.PublishedDate,
		a.Summary, a.Content, a.ImageURL, a.IsPaywalled,
		readingLevel, infoDensity, biasScore, propagandaScore, wordCount,
		pq.Array(topics), region, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (p *Postgres) HasArticleURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check article url: %w", err)
	}
	return exists, nil
}

func (p *Postgres) GetArticle(ctx context.Context, id string) (news.Article, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)

	a, err := scanArticle(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return news.Article{}, ErrNotFound
	}
	return a, err
}

// ListRecentArticles returns articles newest first. Undated articles sort
// last, then by insertion time.
func (p *Postgres) ListRecentArticles(ctx context.Context, limit, offset int) ([]news.Article, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles
		ORDER BY published_date DESC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []news.Article{}
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// scanArticle reads one article row. A NULL reading_level marks a row
// stored without classification; the whole record comes back nil then.
func scanArticle(scan func(...any) error) (news.Article, error) {
	var (
		a                                                     news.Article
		published                                             sql.NullTime
		readingLevel, infoDensity, biasScore, propagandaScore sql.NullFloat64
		wordCount                                             sql.NullInt64
		region                                                sql.NullString
		topics                                                pq.StringArray
	)

	err := scan(&a.ID, &a.Title, &a.URL, &a.Source, &a.SourceID, &a.Author,
		&published, &a.Summary, &a.Content, &a.ImageURL, &a.IsPaywalled,
		&readingLevel, &infoDensity, &biasScore, &propagandaScore,
		&wordCount, &topics, &region, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return news.Article{}, err
		}
		return news.Article{}, fmt.Errorf("scan article: %w", err)
	}

	if published.Valid {
		t := published.Time
		a.PublishedDate = &t
	}
	if readingLevel.Valid {
		a.Classification = &news.Classification{
			ReadingLevel:       readingLevel.Float64,
			InformationDensity: infoDensity.Float64,
			BiasScore:          biasScore.Float64,
			PropagandaScore:    propagandaScore.Float64,
			Length:             int(wordCount.Int64),
			Topics:             []string(topics),
			Region:             region.String,
		}
	}
	return a, nil
}
