// Package api exposes the HTTP surface: registration, login, feed
// management, article listing with preference filtering, and health.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mhittle/mikenews/internal/account"
	"github.com/mhittle/mikenews/internal/auth"
	"github.com/mhittle/mikenews/internal/metrics"
	"github.com/mhittle/mikenews/internal/news"
)

// Store is the persistence surface the handlers need.
type Store interface {
	CreateUser(ctx context.Context, u account.User) error
	GetUserByUsername(ctx context.Context, username string) (account.User, error)
	GetUserByEmail(ctx context.Context, email string) (account.User, error)
	UpdatePreferences(ctx context.Context, userID string, prefs account.Preferences) error

	CreateFeed(ctx context.Context, f news.Feed) error
	GetFeed(ctx context.Context, id string) (news.Feed, error)
	GetFeedByURL(ctx context.Context, url string) (news.Feed, error)
	ListFeeds(ctx context.Context) ([]news.Feed, error)
	DeleteFeed(ctx context.Context, id string) error
	FeedStats(ctx context.Context) (news.FeedStats, error)

	GetArticle(ctx context.Context, id string) (news.Article, error)
	ListRecentArticles(ctx context.Context, limit, offset int) ([]news.Article, error)
}

// Processor starts ingestion runs on demand.
type Processor interface {
	ProcessFeed(ctx context.Context, feedID string) error
	ProcessAll(ctx context.Context) error
}

type Server struct {
	store Store
	auth  *auth.Manager
	proc  Processor
}

// NewRouter wires all routes onto a gin engine.
func NewRouter(store Store, authMgr *auth.Manager, proc Processor) *gin.Engine {
	s := &Server{store: store, auth: authMgr, proc: proc}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	api := r.Group("/api")
	{
		api.GET("/", s.banner)
		api.POST("/token", s.token)
		api.POST("/users", s.register)
		api.GET("/users/me", s.requireAuth, s.me)
		api.PUT("/users/me/preferences", s.requireAuth, s.updatePreferences)

		api.POST("/feeds", s.requireAuth, s.createFeed)
		api.GET("/feeds", s.listFeeds)
		api.GET("/feeds/stats", s.feedStats)
		api.DELETE("/feeds/:id", s.requireAuth, s.deleteFeed)
		api.POST("/feeds/:id/process", s.requireAuth, s.processFeed)
		api.POST("/process-all-feeds", s.requireAuth, s.processAll)

		api.GET("/articles", s.optionalAuth, s.listArticles)
		api.GET("/articles/:id", s.getArticle)
	}

	r.GET("/health", s.health)
	r.GET("/metrics", s.metricsSnapshot)

	return r
}

func (s *Server) banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "News Aggregator API"})
}

func (s *Server) health(c *gin.Context) {
	stats := metrics.Global.GetStats()
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "metrics": stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "metrics": stats})
}

func (s *Server) metricsSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Global.GetStats())
}

// --- auth middleware ---

const userKey = "user"

func (s *Server) requireAuth(c *gin.Context) {
	user, err := s.userFromHeader(c)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	c.Set(userKey, user)
	c.Next()
}

// optionalAuth resolves a user when an Authorization header is present.
// Requests without one pass through anonymously; a bad token is still
// rejected rather than silently downgraded.
func (s *Server) optionalAuth(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		c.Next()
		return
	}
	user, err := s.userFromHeader(c)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	c.Set(userKey, user)
	c.Next()
}

func (s *Server) userFromHeader(c *gin.Context) (account.User, error) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return account.User{}, auth.ErrInvalidToken
	}
	username, err := s.auth.ParseToken(token)
	if err != nil {
		return account.User{}, err
	}
	return s.store.GetUserByUsername(c.Request.Context(), username)
}

func currentUser(c *gin.Context) (account.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return account.User{}, false
	}
	user, ok := v.(account.User)
	return user, ok
}
