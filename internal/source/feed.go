package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/rmehta/equinews/internal/cache"
	"github.com/rmehta/equinews/internal/extract"
	"github.com/rmehta/equinews/internal/model"
)

// minScrapeLen is the raw-text length below which a feed entry is worth
// a follow-up page scrape. Google News style feeds often ship only a
// headline and a one-line description.
const minScrapeLen = 200

// fetchFeed queries one configured RSS source for the company and
// converts its entries to articles. Entries without a usable link or
// with empty raw text after extraction are dropped.
func (s *Source) fetchFeed(ctx context.Context, src model.SourceConfig, company string) ([]model.Article, error) {
	feedURL := fmt.Sprintf(src.Query, url.QueryEscape(company))

	if cached, ok := s.cachedFeed(src.Name, company); ok {
		return cached, nil
	}

	if err := s.limiter.Wait(ctx, feedURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.Name, err)
	}

	var articles []model.Article
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}

		article := model.Article{
			ID:          articleID(item.Link),
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			SourceName:  sourceHostName(src.Name, item.Link),
			PublishedAt: defaultPublished(item.PublishedParsed),
			RawText:     itemText(item),
		}

		if src.Scrape && len(article.RawText) < minScrapeLen {
			if body, err := s.scrapePage(ctx, item.Link); err != nil {
				s.log.WithField("url", item.Link).WithError(err).Debug("page scrape failed, keeping feed text")
			} else if len(body) > len(article.RawText) {
				article.RawText = body
			}
		}

		if article.RawText == "" {
			continue
		}

		articles = append(articles, article)
	}

	s.storeFeed(src.Name, company, articles)
	return articles, nil
}

// itemText prefers full content over the description and strips any
// embedded markup.
func itemText(item *gofeed.Item) string {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}
	if raw == "" {
		return ""
	}

	text, err := extract.VisibleText(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return text
}

func (s *Source) cachedFeed(sourceName, company string) ([]model.Article, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok := s.cache.Get(cache.FeedKey(sourceName, company))
	if !ok {
		return nil, false
	}

	var articles []model.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, false
	}
	return articles, true
}

func (s *Source) storeFeed(sourceName, company string, articles []model.Article) {
	if s.cache == nil || len(articles) == 0 {
		return
	}

	data, err := json.Marshal(articles)
	if err != nil {
		return
	}
	if err := s.cache.Set(cache.FeedKey(sourceName, company), data, s.cfg.Cache.TTL); err != nil {
		s.log.WithError(err).Debug("feed cache write failed")
	}
}
