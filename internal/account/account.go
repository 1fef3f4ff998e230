// Package account defines users and their matching preferences.
package account

import (
	"fmt"
	"time"
)

// Topic filter modes. AND requires every selected topic on an article,
// OR requires at least one.
const (
	FilterAnd = "AND"
	FilterOr  = "OR"
)

// MaxLengthSentinel is the max_length value meaning "no upper bound".
// A preference at or above it disables the upper length check entirely.
const MaxLengthSentinel = 5000

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	CreatedAt    time.Time   `json:"created_at"`
	Preferences  Preferences `json:"preferences"`
	PasswordHash string      `json:"-"`
}

// Preferences drive the article matcher. Zero values are not meaningful
// defaults; start from DefaultPreferences and overlay updates on top.
type Preferences struct {
	ReadingLevel        int      `json:"reading_level"`
	InformationDensity  int      `json:"information_density"`
	BiasThreshold       int      `json:"bias_threshold"`
	PropagandaThreshold int      `json:"propaganda_threshold"`
	MinLength           int      `json:"min_length"`
	MaxLength           int      `json:"max_length"`
	Topics              []string `json:"topics"`
	Regions             []string `json:"regions"`
	ShowPaywalled       bool     `json:"show_paywalled"`
	TopicsFilterType    string   `json:"topics_filter_type"`
	MaxAgeDays          int      `json:"max_age_days"`
}

// DefaultPreferences returns the midpoint profile assigned to new users:
// neutral scores, no topic or region restrictions, paywalled content shown.
func DefaultPreferences() Preferences {
	return Preferences{
		ReadingLevel:        5,
		InformationDensity:  5,
		BiasThreshold:       5,
		PropagandaThreshold: 5,
		MinLength:           0,
		MaxLength:           MaxLengthSentinel,
		Topics:              []string{},
		Regions:             []string{},
		ShowPaywalled:       true,
		TopicsFilterType:    FilterOr,
		MaxAgeDays:          30,
	}
}

// Validate rejects preference updates outside the accepted ranges.
func (p Preferences) Validate() error {
	scores := []struct {
		name  string
		value int
	}{
		{"reading_level", p.ReadingLevel},
		{"information_density", p.InformationDensity},
		{"bias_threshold", p.BiasThreshold},
		{"propaganda_threshold", p.PropagandaThreshold},
	}
	for _, s := range scores {
		if s.value < 1 || s.value > 10 {
			return fmt.Errorf("%s must be between 1 and 10", s.name)
		}
	}
	if p.MinLength < 0 {
		return fmt.Errorf("min_length must not be negative")
	}
	if p.MaxLength < p.MinLength {
		return fmt.Errorf("max_length must not be below min_length")
	}
	if p.TopicsFilterType != FilterAnd && p.TopicsFilterType != FilterOr {
		return fmt.Errorf("topics_filter_type must be %q or %q", FilterAnd, FilterOr)
	}
	if p.MaxAgeDays < 1 || p.MaxAgeDays > 90 {
		return fmt.Errorf("max_age_days must be between 1 and 90")
	}
	return nil
}
