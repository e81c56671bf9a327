package adapter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

var (
	infojobsCardSelectors = []string{
		".sui-AtomCard",
		`[data-test="offer-list-item"]`,
		"li.ij-OfferList-item",
		`article[class*="offer"]`,
	}
	infojobsTitleSelector   = `.ij-OfferCardContent-description-title-link, a[data-test="offer-title"], h2 a`
	infojobsCompanySelector = `.ij-OfferCardContent-description-subtitle-link, [data-test="company-name"], span[class*="company"]`

	infojobsChallengePhrases = []string{"¿Eres humano", "CAPTCHA", "robot"}
)

// InfoJobsScrape extracts offers from the public InfoJobs results page,
// used when the official API has no credentials or is restricted.
type InfoJobsScrape struct {
	baseURL string
	browser PageBrowser
	log     *zap.Logger
}

func NewInfoJobsScrape(b PageBrowser) *InfoJobsScrape {
	return &InfoJobsScrape{
		baseURL: "https://www.infojobs.net/jobsearch/search-results/list.xhtml",
		browser: b,
		log:     logger.Named("infojobs.scrape"),
	}
}

func (a *InfoJobsScrape) Name() string          { return "InfoJobs Scrape" }
func (a *InfoJobsScrape) Source() domain.Source { return domain.SourceInfoJobs }

// searchURL prefers a provinceId-scoped URL; the numeric id is more stable
// than city slugs. Unresolved cities fall back to an unscoped search.
func (a *InfoJobsScrape) searchURL(query, location string) string {
	params := url.Values{}
	params.Set("keywords", query)
	if domain.IsRemote(location) {
		params.Set("teleworkingIds", "2")
	} else if id := domain.InfoJobsProvinceID(location); id != "" {
		params.Set("provinceIds", id)
	}
	return a.baseURL + "?" + params.Encode()
}

func (a *InfoJobsScrape) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	pageCtx, release, err := a.browser.Page(pageTimeout)
	if err != nil {
		return nil, fmt.Errorf("infojobs scrape: borrow page: %w", err)
	}
	defer release()

	if err := preparePage(pageCtx, 1366, 768); err != nil {
		return nil, fmt.Errorf("infojobs scrape: prepare page: %w", err)
	}

	searchURL := a.searchURL(query, location)
	a.log.Info("visiting", zap.String("url", searchURL))

	if err := navigate(pageCtx, searchURL, navTimeout); err != nil {
		a.log.Error("navigation failed", zap.Error(err))
		return nil, nil
	}

	if challengeDetected(pageCtx, infojobsChallengePhrases) {
		a.log.Warn("challenge detected, skipping")
		return nil, nil
	}

	dismissCookies(pageCtx, "#didomi-notice-agree-button")

	matched, ok := waitAnySelector(pageCtx, infojobsCardSelectors, selectorTimeout)
	if !ok {
		a.log.Warn("no card selector matched",
			zap.String("title", pageTitle(pageCtx)),
			zap.String("url", currentURL(pageCtx)),
			zap.String("body", bodyText(pageCtx, 300)),
		)
		return nil, nil
	}
	a.log.Debug("cards found", zap.String("selector", matched))

	scrollBy(pageCtx, 400)

	doc, err := document(pageCtx)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return nil, nil
	}

	var jobs []domain.JobRecord
	doc.Find(matched).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCardsPerPage {
			return false
		}
		titleEl := card.Find(infojobsTitleSelector).First()
		title := trimText(titleEl)
		href, _ := titleEl.Attr("href")
		company := trimText(card.Find(infojobsCompanySelector).First())
		if company == "" {
			company = "Empresa en InfoJobs"
		}
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("ij-scrape", i),
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         absoluteURL(a.baseURL, href),
			Source:      domain.SourceInfoJobs,
			PostedAt:    "Reciente",
			Salary:      "Ver en InfoJobs",
			Tags:        []string{"InfoJobs"},
			Description: "Oferta extraída en tiempo real de InfoJobs",
		}
		if rec.Valid() {
			jobs = append(jobs, rec)
		}
		return true
	})

	a.log.Info("extracted", zap.Int("jobs", len(jobs)))
	return jobs, nil
}
