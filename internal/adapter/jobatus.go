package adapter

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

var jobatusResultSelectors = []string{".result", "a.out", "div.col-md-12 a.out"}

// JobatusScrape extracts offers from the Jobatus meta-search. The listing
// markup comes in two shapes: classic .result cards and flat organic link
// lists; both are tried in order.
type JobatusScrape struct {
	baseURL string
	browser PageBrowser
	log     *zap.Logger
}

func NewJobatusScrape(b PageBrowser) *JobatusScrape {
	return &JobatusScrape{
		baseURL: "https://www.jobatus.es/trabajo",
		browser: b,
		log:     logger.Named("jobatus"),
	}
}

func (a *JobatusScrape) Name() string          { return "Jobatus" }
func (a *JobatusScrape) Source() domain.Source { return domain.SourceJobatus }

func (a *JobatusScrape) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	pageCtx, release, err := a.browser.Page(pageTimeout)
	if err != nil {
		return nil, fmt.Errorf("jobatus: borrow page: %w", err)
	}
	defer release()

	if err := preparePage(pageCtx, 1280, 800); err != nil {
		return nil, fmt.Errorf("jobatus: prepare page: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("l", domain.StripCountry(location))
	searchURL := a.baseURL + "?" + params.Encode()
	a.log.Info("visiting", zap.String("url", searchURL))

	if err := navigate(pageCtx, searchURL, navTimeout); err != nil {
		a.log.Error("navigation failed", zap.Error(err))
		return nil, nil
	}

	dismissCookies(pageCtx, `button[id*="accept"], button[class*="accept"], #didomi-notice-agree-button`)

	// A promo modal occasionally covers the listing.
	attempt(pageCtx, 2*time.Second,
		chromedp.WaitVisible(`.modal-close, button[aria-label="Close"], .close-btn, [data-dismiss="modal"]`, chromedp.ByQuery),
		chromedp.Click(`.modal-close, button[aria-label="Close"], .close-btn, [data-dismiss="modal"]`, chromedp.ByQuery),
	)

	if _, ok := waitAnySelector(pageCtx, jobatusResultSelectors, selectorTimeout); !ok {
		a.log.Warn("no results selector found")
		return nil, nil
	}

	doc, err := document(pageCtx)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return nil, nil
	}

	jobs := a.extractCards(doc, location)
	if len(jobs) == 0 {
		jobs = a.extractLinks(doc, location)
	}

	a.log.Info("extracted", zap.Int("jobs", len(jobs)))
	return jobs, nil
}

// extractCards handles the classic .result card layout.
func (a *JobatusScrape) extractCards(doc *goquery.Document, location string) []domain.JobRecord {
	var jobs []domain.JobRecord
	doc.Find(".result").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCardsPerPage {
			return false
		}
		titleEl := card.Find("a.out, .jobtitle a").First()
		title := trimText(titleEl)
		href, _ := titleEl.Attr("href")
		company := trimText(card.Find(`a[href*="/empresas/"], .company a, .company span`).First())
		if rec, ok := a.record(i, title, company, href, location); ok {
			jobs = append(jobs, rec)
		}
		return true
	})
	return jobs
}

// extractLinks is the fallback strategy: grab organic job links from the
// listing and look up company names in the surrounding container.
func (a *JobatusScrape) extractLinks(doc *goquery.Document, location string) []domain.JobRecord {
	var jobs []domain.JobRecord
	doc.Find(`a.out[href*="jobatus"], a.out[href*="/trabajo/"]`).EachWithBreak(func(i int, link *goquery.Selection) bool {
		if i >= maxCardsPerPage {
			return false
		}
		title := trimText(link)
		href, _ := link.Attr("href")
		company := trimText(link.Closest("div, li, article").Find(`a[href*="/empresas/"], small, span.company`).First())
		if rec, ok := a.record(i, title, company, href, location); ok {
			jobs = append(jobs, rec)
		}
		return true
	})
	return jobs
}

func (a *JobatusScrape) record(i int, title, company, href, location string) (domain.JobRecord, bool) {
	if company == "" {
		company = "Empresa en Jobatus"
	}
	rec := domain.JobRecord{
		ID:          domain.SyntheticID("jb", i),
		Title:       title,
		Company:     company,
		Location:    location,
		URL:         absoluteURL(a.baseURL, href),
		Source:      domain.SourceJobatus,
		PostedAt:    "Reciente",
		Salary:      "Ver en Jobatus",
		Tags:        []string{"Jobatus"},
		Description: "Oferta extraída de Jobatus",
	}
	return rec, rec.Valid()
}
