package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

const tecnoempleoMaxCards = 10

// Tecnoempleo reads the portal's RSS feed and falls back to a light scrape
// of the search results page when the feed fails. The fallback is a chained
// recovery, not a hard failure.
type Tecnoempleo struct {
	feedURL   string
	searchURL string
	browser   PageBrowser
	client    *http.Client
	parser    *gofeed.Parser
	log       *zap.Logger
}

func NewTecnoempleo(b PageBrowser) *Tecnoempleo {
	return &Tecnoempleo{
		feedURL:   "https://www.tecnoempleo.com/ofertas-empleo-rss.php",
		searchURL: "https://www.tecnoempleo.com/ofertas-trabajo/",
		browser:   b,
		client:    &http.Client{Timeout: apiTimeout},
		parser:    gofeed.NewParser(),
		log:       logger.Named("tecnoempleo"),
	}
}

func (a *Tecnoempleo) Name() string          { return "Tecnoempleo" }
func (a *Tecnoempleo) Source() domain.Source { return domain.SourceTecnoempleo }

func (a *Tecnoempleo) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	jobs, err := a.searchFeed(ctx, query, location)
	if err == nil {
		return jobs, nil
	}
	a.log.Warn("rss failed, falling back to light scraping", zap.Error(err))
	return a.searchScrape(ctx, query, location)
}

func (a *Tecnoempleo) searchFeed(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	params := url.Values{}
	params.Set("te", query)
	params.Set("lo", domain.StripCountry(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.feedURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tecnoempleo: build feed request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tecnoempleo: fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tecnoempleo: feed status %d", resp.StatusCode)
	}

	feed, err := a.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tecnoempleo: parse feed: %w", err)
	}

	jobs := make([]domain.JobRecord, 0, len(feed.Items))
	for i, item := range feed.Items {
		company := "Empresa Tech"
		if len(item.Authors) > 0 && item.Authors[0].Name != "" {
			company = item.Authors[0].Name
		}
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("te-rss", i),
			Title:       item.Title,
			Company:     company,
			Location:    location,
			URL:         item.Link,
			Source:      domain.SourceTecnoempleo,
			PostedAt:    domain.FormatDate(item.Published),
			Salary:      "Ver en Tecnoempleo",
			Tags:        []string{"Tech", "RSS"},
			Description: stripHTML(item.Description),
		}
		if !rec.Valid() {
			continue
		}
		jobs = append(jobs, rec)
	}
	return jobs, nil
}

var tecnoempleoCardSelectors = []string{"div.p-3.border.rounded.mb-3.bg-white"}

func (a *Tecnoempleo) searchScrape(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	pageCtx, release, err := a.browser.Page(pageTimeout)
	if err != nil {
		return nil, fmt.Errorf("tecnoempleo: borrow page: %w", err)
	}
	defer release()

	if err := preparePage(pageCtx, 1280, 800); err != nil {
		return nil, fmt.Errorf("tecnoempleo: prepare page: %w", err)
	}

	params := url.Values{}
	params.Set("te", query)
	params.Set("lo", domain.StripCountry(location))
	searchURL := a.searchURL + "?" + params.Encode()

	if err := navigate(pageCtx, searchURL, 20*time.Second); err != nil {
		a.log.Error("navigation failed", zap.Error(err))
		return nil, nil
	}

	doc, err := document(pageCtx)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return nil, nil
	}

	var jobs []domain.JobRecord
	doc.Find(tecnoempleoCardSelectors[0]).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= tecnoempleoMaxCards {
			return false
		}
		titleEl := card.Find("h3 a.font-weight-bold").First()
		title := trimText(titleEl)
		href, _ := titleEl.Attr("href")
		company := trimText(card.Find("a.text-primary.link-muted").First())
		if company == "" {
			company = "Empresa Tech"
		}
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("te-scrape", i),
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         absoluteURL(a.searchURL, href),
			Source:      domain.SourceTecnoempleo,
			PostedAt:    "Reciente",
			Salary:      "Ver en Tecnoempleo",
			Tags:        []string{"Tech"},
			Description: "Oferta de Tecnoempleo",
		}
		if rec.Valid() {
			jobs = append(jobs, rec)
		}
		return true
	})
	return jobs, nil
}
