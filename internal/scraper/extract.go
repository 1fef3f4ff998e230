package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extracted is the readable part of an article page.
type Extracted struct {
	Title    string
	Text     string
	Author   string
	ImageURL string
}

// ExtractFromHTML pulls article text, title, byline and lead image out of
// page HTML. It returns an error when no usable text is found so callers
// can fall back to the RSS summary.
func ExtractFromHTML(html string) (*Extracted, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	text := cleanContent(extractText(doc))
	if text == "" {
		return nil, errors.New("no article content found")
	}

	return &Extracted{
		Title:    extractTitle(doc),
		Text:     text,
		Author:   extractAuthor(doc),
		ImageURL: extractImage(doc),
	}, nil
}

// extractText collects paragraphs, trying article-specific selectors before
// falling back to bare <p> tags. Three substantial paragraphs from one
// selector are considered enough.
func extractText(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".article-content p",
		".story-body p",
		".post-content p",
		".entry-content p",
		"main p",
		"#content p",
		"p",
	}

	var paragraphs []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1",
		"title",
		".article-title",
		".headline",
		".entry-title",
	}

	for _, selector := range selectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}
	return ""
}

func extractAuthor(doc *goquery.Document) string {
	if author, ok := doc.Find(`meta[name="author"]`).First().Attr("content"); ok {
		if a := strings.TrimSpace(author); a != "" {
			return a
		}
	}

	selectors := []string{
		`[rel="author"]`,
		".byline",
		".author",
	}
	for _, selector := range selectors {
		author := strings.TrimSpace(doc.Find(selector).First().Text())
		author = strings.TrimSpace(strings.TrimPrefix(author, "By "))
		if author != "" {
			return author
		}
	}
	return ""
}

func extractImage(doc *goquery.Document) string {
	if img, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		if i := strings.TrimSpace(img); i != "" {
			return i
		}
	}
	if img, ok := doc.Find(`meta[name="twitter:image"]`).First().Attr("content"); ok {
		return strings.TrimSpace(img)
	}
	return ""
}

// cleanContent strips boilerplate and reflows the text into paragraphs.
// The output feeds the scoring engine, so nothing here truncates.
func cleanContent(content string) string {
	if content == "" {
		return ""
	}

	junkPhrases := []string{
		"Sign up for our newsletter",
		"Subscribe to our newsletter",
		"Share this article",
		"Follow us on",
		"All rights reserved",
		"Read more:",
		"Related:",
		"Advertisement",
		"Terms of Service",
		"Privacy Policy",
	}
	for _, phrase := range junkPhrases {
		content = strings.ReplaceAll(content, phrase, "")
	}

	junkIndicators := []string{
		"cookie",
		"advertis",
		"newsletter",
		"click here",
		"follow us",
		"share this",
		"sign up",
		"all rights reserved",
	}

	var paragraphs []string
	var current strings.Builder

	flush := func() {
		paragraph := strings.TrimSpace(current.String())
		if len(paragraph) > 30 {
			paragraphs = append(paragraphs, paragraph)
		}
		current.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if len(line) < 8 {
			if current.Len() > 0 {
				flush()
			}
			continue
		}

		lower := strings.ToLower(line)
		isJunk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				isJunk = true
				break
			}
		}
		if isJunk {
			continue
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)

		if strings.HasSuffix(line, ".") || strings.HasSuffix(line, "!") || strings.HasSuffix(line, "?") {
			flush()
		}
	}
	if current.Len() > 0 {
		flush()
	}

	result := strings.Join(paragraphs, "\n\n")
	for strings.Contains(result, "  ") {
		result = strings.ReplaceAll(result, "  ", " ")
	}
	return strings.TrimSpace(result)
}
