package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhittle/mikenews/internal/match"
	"github.com/mhittle/mikenews/internal/news"
	"github.com/mhittle/mikenews/internal/storage"
)

// listArticles returns recent articles, newest first. Authenticated
// requests get the list filtered through the caller's preferences;
// anonymous requests see everything.
func (s *Server) listArticles(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	skip := intQuery(c, "skip", 0)

	articles, err := s.store.ListRecentArticles(c.Request.Context(), limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list articles"})
		return
	}

	if user, ok := currentUser(c); ok {
		articles = match.Filter(articles, user.Preferences, time.Now())
	}
	if articles == nil {
		articles = []news.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) getArticle(c *gin.Context) {
	article, err := s.store.GetArticle(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load article"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
