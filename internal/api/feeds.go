package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mhittle/mikenews/internal/logger"
	"github.com/mhittle/mikenews/internal/news"
	"github.com/mhittle/mikenews/internal/storage"
)

type createFeedRequest struct {
	URL      string `json:"url" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Region   string `json:"region"`
}

func (s *Server) createFeed(c *gin.Context) {
	var req createFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url and name are required"})
		return
	}
	if req.Category == "" {
		req.Category = "general"
	}
	if req.Region == "" {
		req.Region = "global"
	}

	ctx := c.Request.Context()
	if _, err := s.store.GetFeedByURL(ctx, req.URL); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feed already registered"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create feed"})
		return
	}

	feed := news.Feed{
		ID:       uuid.NewString(),
		URL:      req.URL,
		Name:     req.Name,
		Category: req.Category,
		Region:   req.Region,
		Active:   true,
	}
	if err := s.store.CreateFeed(ctx, feed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create feed"})
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (s *Server) listFeeds(c *gin.Context) {
	feeds, err := s.store.ListFeeds(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list feeds"})
		return
	}
	if feeds == nil {
		feeds = []news.Feed{}
	}
	c.JSON(http.StatusOK, feeds)
}

func (s *Server) feedStats(c *gin.Context) {
	stats, err := s.store.FeedStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load feed stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) deleteFeed(c *gin.Context) {
	err := s.store.DeleteFeed(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feed deleted"})
}

// processFeed kicks off ingestion of one feed in the background and
// returns immediately.
func (s *Server) processFeed(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.GetFeed(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load feed"})
		return
	}

	go func() {
		if err := s.proc.ProcessFeed(context.Background(), id); err != nil {
			logger.Error("feed processing failed", "feed_id", id, "error", err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "feed processing started"})
}

func (s *Server) processAll(c *gin.Context) {
	go func() {
		if err := s.proc.ProcessAll(context.Background()); err != nil {
			logger.Error("feed processing failed", "error", err)
		}
	}()
	c.JSON(http.StatusOK, gin.H{"message": "processing of all feeds started"})
}
