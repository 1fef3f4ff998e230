package ingest

import "testing"

func TestDetectRegion(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		feedRegion string
		want       string
	}{
		{"empty text keeps feed region", "", "europe", "europe"},
		{"no signal keeps feed region", "The two delegations met in Geneva", "north_america", "north_america"},
		{"single keyword", "The summit in Germany ended late", "north_america", "europe"},
		{"table order decides ties", "Markets in China and France rallied", "oceania", "europe"},
		{"case insensitive", "ELECTIONS IN BRAZIL THIS WEEKEND", "europe", "south_america"},
		{"middle east", "Talks resumed in Israel overnight", "europe", "middle_east"},
		{"oceania", "Flooding hit New Zealand towns", "europe", "oceania"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectRegion(tt.text, tt.feedRegion); got != tt.want {
				t.Errorf("DetectRegion(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
