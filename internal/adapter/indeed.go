package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

// IndeedScrape extracts offers from the Spanish Indeed results page.
// Indeed sits behind an aggressive anti-bot interstitial, detected via the
// page title rather than body phrases.
type IndeedScrape struct {
	baseURL string
	browser PageBrowser
	log     *zap.Logger
}

func NewIndeedScrape(b PageBrowser) *IndeedScrape {
	return &IndeedScrape{
		baseURL: "https://es.indeed.com/jobs",
		browser: b,
		log:     logger.Named("indeed"),
	}
}

func (a *IndeedScrape) Name() string          { return "Indeed" }
func (a *IndeedScrape) Source() domain.Source { return domain.SourceIndeed }

func (a *IndeedScrape) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	pageCtx, release, err := a.browser.Page(pageTimeout)
	if err != nil {
		return nil, fmt.Errorf("indeed: borrow page: %w", err)
	}
	defer release()

	if err := preparePage(pageCtx, 1366, 768); err != nil {
		return nil, fmt.Errorf("indeed: prepare page: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("l", location)
	searchURL := a.baseURL + "?" + params.Encode()

	if err := navigate(pageCtx, searchURL, navTimeout); err != nil {
		a.log.Error("navigation failed", zap.Error(err))
		return nil, nil
	}

	title := pageTitle(pageCtx)
	if strings.Contains(title, "Just a moment") || strings.Contains(title, "Access denied") {
		a.log.Warn("blocked by interstitial", zap.String("title", title))
		return nil, nil
	}

	doc, err := document(pageCtx)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return nil, nil
	}

	var jobs []domain.JobRecord
	doc.Find(".job_seen_beacon").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCardsPerPage {
			return false
		}
		jobTitle := trimText(card.Find("h2.jobTitle span, h2.jobTitle a").First())
		company := trimText(card.Find(`[data-testid="company-name"]`).First())
		if company == "" {
			company = "Empresa"
		}
		href, _ := card.Find("h2.jobTitle a").First().Attr("href")
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("ind", i),
			Title:       jobTitle,
			Company:     company,
			Location:    location,
			URL:         absoluteURL("https://es.indeed.com", href),
			Source:      domain.SourceIndeed,
			PostedAt:    "Reciente",
			Salary:      "Ver en Indeed",
			Tags:        []string{"Indeed"},
			Description: "Oferta de Indeed",
		}
		if rec.Valid() {
			jobs = append(jobs, rec)
		}
		return true
	})

	a.log.Info("extracted", zap.Int("jobs", len(jobs)))
	return jobs, nil
}
