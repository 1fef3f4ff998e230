// Package ratelimit caps how many article pages the scraper downloads per
// day, keeping a misbehaving feed from turning the aggregator into a crawler.
package ratelimit

import (
	"errors"
	"sync"
	"time"

	"github.com/mhittle/mikenews/internal/logger"
)

// ErrBudgetExhausted is returned once the daily fetch budget is spent.
var ErrBudgetExhausted = errors.New("daily fetch budget exhausted")

// FetchLimiter counts page fetches against a daily budget. A max of 0
// means unlimited. The counter resets on first use after the reset time.
type FetchLimiter struct {
	mu      sync.Mutex
	count   int
	max     int
	resetAt time.Time
}

func NewFetchLimiter(maxPerDay int) *FetchLimiter {
	return &FetchLimiter{
		max:     maxPerDay,
		resetAt: time.Now().Add(24 * time.Hour),
	}
}

// Allow reports whether another fetch fits the budget without spending it.
func (l *FetchLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	return l.max == 0 || l.count < l.max
}

// Use spends one fetch from the budget.
func (l *FetchLimiter) Use() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	if l.max > 0 && l.count >= l.max {
		return ErrBudgetExhausted
	}
	l.count++
	return nil
}

// Stats returns the current budget usage.
func (l *FetchLimiter) Stats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()
	return map[string]interface{}{
		"fetches_used":  l.count,
		"fetches_limit": l.max,
		"reset_time":    l.resetAt.Format(time.RFC3339),
	}
}

func (l *FetchLimiter) checkReset() {
	if time.Now().After(l.resetAt) {
		if l.count > 0 {
			logger.Info("fetch budget reset", "used", l.count, "limit", l.max)
		}
		l.count = 0
		l.resetAt = time.Now().Add(24 * time.Hour)
	}
}
