// Package source implements article retrieval for a company name. Each
// configured feed is fetched independently on a bounded worker pool; a
// failed or empty source never aborts the others. When real retrieval
// falls below the configured minimum, deterministic synthetic articles
// top the set up to the target count so downstream stages always have
// input.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/cache"
	"github.com/rmehta/equinews/internal/model"
	"github.com/rmehta/equinews/internal/util"
	"github.com/rmehta/equinews/internal/worker"
)

// Source fetches article candidates for a company name.
type Source struct {
	cfg        *model.Config
	parser     *gofeed.Parser
	httpClient *http.Client
	cache      cache.Cache
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	log        *logrus.Entry
}

// New creates an article source from configuration. The cache may be nil
// to disable fetch caching.
func New(cfg *model.Config, c cache.Cache, log *logrus.Logger) *Source {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.HTTP.UserAgent

	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSec, 2)
	for _, src := range cfg.Sources {
		if src.RequestsPerSec <= 0 {
			continue
		}
		if host := queryHost(src.Query); host != "" {
			limiter.SetDomainRate(host, src.RequestsPerSec, 0)
		}
	}

	return &Source{
		cfg:    cfg,
		parser: parser,
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
			},
		},
		cache:   c,
		robots:  util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		limiter: limiter,
		log:     log.WithField("component", "source"),
	}
}

// Fetch returns up to the configured target count of articles for the
// company, newest first, every one with non-empty raw text. The second
// return value reports whether synthetic articles were substituted.
func (s *Source) Fetch(ctx context.Context, company string) ([]model.Article, bool, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, false, model.ErrInvalidInput
	}

	pool := worker.NewPool(ctx, s.cfg.Concurrency.FetchWorkers)
	pool.Start()
	defer pool.Shutdown()

	for _, src := range s.cfg.Sources {
		pool.Submit(&fetchJob{source: s, config: src, company: company})
	}

	// The merge step waits for every dispatched fetch (or its timeout)
	// before deciding whether to synthesize.
	var articles []model.Article
	for _, result := range pool.Wait() {
		fr := result.(*fetchResult)
		if fr.err != nil {
			s.log.WithField("source", fr.sourceName).WithError(fr.err).Warn("source unavailable, skipping")
			continue
		}
		articles = append(articles, fr.articles...)
	}

	// A caller abort is not a degraded fetch; surface it instead of
	// synthesizing from whatever happened to finish.
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	articles = dedupeByURL(articles)
	sortArticles(articles)

	target := s.cfg.Articles.Target
	if len(articles) > target {
		articles = articles[:target]
	}

	degraded := false
	if len(articles) < s.cfg.Articles.Minimum {
		need := target - len(articles)
		s.log.WithFields(logrus.Fields{
			"company": company,
			"fetched": len(articles),
			"need":    need,
		}).Warn("insufficient articles, synthesizing")
		articles = append(articles, SyntheticArticles(company, len(articles), need)...)
		degraded = true
	}

	return articles, degraded, nil
}

// fetchJob fetches one configured source for one company.
type fetchJob struct {
	source  *Source
	config  model.SourceConfig
	company string
}

type fetchResult struct {
	sourceName string
	articles   []model.Article
	err        error
}

func (r *fetchResult) GetError() error { return r.err }

func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	articles, err := j.source.fetchFeed(ctx, j.config, j.company)
	return &fetchResult{sourceName: j.config.Name, articles: articles, err: err}
}

func dedupeByURL(articles []model.Article) []model.Article {
	seen := make(map[string]bool, len(articles))
	out := articles[:0]
	for _, a := range articles {
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		out = append(out, a)
	}
	return out
}

func sortArticles(articles []model.Article) {
	sort.SliceStable(articles, func(a, b int) bool {
		if !articles[a].PublishedAt.Equal(articles[b].PublishedAt) {
			return articles[a].PublishedAt.After(articles[b].PublishedAt)
		}
		return articles[a].URL < articles[b].URL
	})
}

func articleID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:6])
}

func defaultPublished(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Time{}
}

// queryHost extracts the domain from a source query URL template so
// per-source rate overrides key on the same domain the limiter sees.
func queryHost(query string) string {
	query = strings.ReplaceAll(query, "%s", "")
	idx := strings.Index(query, "://")
	if idx < 0 {
		return ""
	}
	rest := query[idx+3:]
	if cut := strings.IndexAny(rest, "/?"); cut >= 0 {
		rest = rest[:cut]
	}
	return rest
}

func sourceHostName(name, link string) string {
	if name != "" {
		return name
	}
	if idx := strings.Index(link, "://"); idx > 0 {
		rest := link[idx+3:]
		if slash := strings.Index(rest, "/"); slash > 0 {
			return rest[:slash]
		}
		return rest
	}
	return "unknown"
}
