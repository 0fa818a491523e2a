package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rmehta/equinews/internal/cache"
)

// minParagraphLen filters out nav stubs, captions, and cookie banners
// that publishers wrap in short p tags.
const minParagraphLen = 40

// scrapePage fetches an article page and extracts its paragraph text.
// Robots.txt disallow is an error here so the caller falls back to the
// feed description instead.
func (s *Source) scrapePage(ctx context.Context, pageURL string) (string, error) {
	if s.cache != nil {
		if data, ok := s.cache.Get(cache.PageKey(pageURL)); ok {
			return string(data), nil
		}
	}

	allowed, crawlDelay, err := s.robots.CanFetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("robots check: %w", err)
	}
	if !allowed {
		return "", fmt.Errorf("robots.txt disallows %s", pageURL)
	}

	if err := s.limiter.WaitWithDelay(ctx, pageURL, crawlDelay); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.HTTP.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, s.cfg.HTTP.MaxBodyBytes)
	text, err := extractPageText(body)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("no article text at %s", pageURL)
	}

	if s.cache != nil {
		if err := s.cache.Set(cache.PageKey(pageURL), []byte(text), s.cfg.Cache.TTL); err != nil {
			s.log.WithError(err).Debug("page cache write failed")
		}
	}

	return text, nil
}

// extractPageText pulls paragraph text out of an article page, preferring
// the article element when the publisher marks one up.
func extractPageText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	scope := doc.Find("article")
	if scope.Length() == 0 {
		scope = doc.Selection
	}

	var paragraphs []string
	scope.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) >= minParagraphLen {
			paragraphs = append(paragraphs, text)
		}
	})

	return strings.Join(paragraphs, "\n\n"), nil
}
