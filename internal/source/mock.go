package source

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/rmehta/equinews/internal/model"
)

// mockTemplate is one synthetic article shape. Title and body take the
// company name as their only substitution.
type mockTemplate struct {
	slug  string
	title string
	body  string
}

// The templates cover the recurring shapes of company news so the
// downstream sentiment distribution is not uniform: an earnings beat, a
// product launch, a regulatory probe, and a flat market note.
var mockTemplates = []mockTemplate{
	{
		slug:  "earnings",
		title: "%s Reports Strong Quarterly Earnings, Beats Analyst Expectations",
		body: "%s announced quarterly results that exceeded analyst expectations, with revenue growing significantly compared to the same period last year. " +
			"The company credited robust demand for its core products and disciplined cost management for the strong performance. " +
			"Management raised its full-year guidance, citing a healthy order pipeline and improving margins. " +
			"Shares rose in early trading as investors welcomed the upbeat outlook and the announcement of an expanded buyback program.",
	},
	{
		slug:  "product",
		title: "%s Unveils New Product Line at Annual Showcase Event",
		body: "%s introduced its latest product lineup at a launch event attended by industry analysts and partners. " +
			"The new offerings focus on performance improvements and tighter integration with the company's existing ecosystem. " +
			"Executives said the launch targets growing demand in emerging markets, where the company plans to expand distribution over the coming year. " +
			"Early reviews described the announcements as incremental, and pricing details for several regions are still pending.",
	},
	{
		slug:  "regulatory",
		title: "%s Faces Regulatory Scrutiny Over Compliance Practices",
		body: "Regulators have opened an inquiry into %s over alleged lapses in its compliance and disclosure practices, according to people familiar with the matter. " +
			"The investigation adds to mounting legal pressure on the company, which is already contesting penalties in two other jurisdictions. " +
			"Analysts warned that a prolonged probe could delay pending approvals and weigh on the stock, which fell on the news. " +
			"The company said it is cooperating fully with authorities and disputes any suggestion of wrongdoing.",
	},
	{
		slug:  "outlook",
		title: "%s Holds Steady as Markets Weigh Mixed Economic Signals",
		body: "Shares of %s traded in a narrow range this week as investors weighed mixed signals from the broader economy. " +
			"The company has not issued new guidance since its last earnings report, and analysts remain divided on its near-term trajectory. " +
			"Sector peers posted similarly muted moves, with trading volumes below recent averages. " +
			"Observers said the next catalyst is likely to be the upcoming quarterly report, expected later in the cycle.",
	},
}

// SyntheticArticles deterministically generates count articles for the
// company, starting at slot offset so generated IDs do not collide with
// a partial real fetch. The same company always yields the same
// rotation of templates.
func SyntheticArticles(company string, offset, count int) []model.Article {
	base := time.Now().UTC().Truncate(time.Hour)
	seed := companySeed(company)

	articles := make([]model.Article, 0, count)
	for i := 0; i < count; i++ {
		slot := offset + i
		tmpl := mockTemplates[(seed+slot)%len(mockTemplates)]
		url := fmt.Sprintf("https://news.example.com/%s/%s-%d", companySlug(company), tmpl.slug, slot+1)

		articles = append(articles, model.Article{
			ID:          articleID(url),
			Title:       fmt.Sprintf(tmpl.title, company),
			URL:         url,
			SourceName:  "synthetic",
			PublishedAt: base.Add(-time.Duration(slot) * 6 * time.Hour),
			RawText:     fmt.Sprintf(tmpl.body, company),
			Synthetic:   true,
		})
	}

	return articles
}

func companySeed(company string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(company)))
	return int(h.Sum32() % uint32(len(mockTemplates)))
}

func companySlug(company string) string {
	slug := strings.ToLower(strings.TrimSpace(company))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
