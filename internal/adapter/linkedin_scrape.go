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

var (
	linkedinCardSelectors = []string{
		".base-card",
		".job-search-card",
		".base-search-card",
	}
	linkedinTitleSelector   = ".base-search-card__title, .job-search-card__title, h3"
	linkedinCompanySelector = ".base-search-card__subtitle, .job-search-card__subtitle, h4"
	linkedinLinkSelector    = "a.base-card__full-link, a.job-search-card__link, a"
	linkedinLogoSelector    = "img.artdeco-entity-image, img.static-badge__icon"
)

// LinkedInScrape extracts offers from the guest job search page, the
// fallback when the official API lacks partner access.
type LinkedInScrape struct {
	baseURL string
	browser PageBrowser
	log     *zap.Logger
}

func NewLinkedInScrape(b PageBrowser) *LinkedInScrape {
	return &LinkedInScrape{
		baseURL: "https://www.linkedin.com/jobs/search/",
		browser: b,
		log:     logger.Named("linkedin.scrape"),
	}
}

func (a *LinkedInScrape) Name() string          { return "LinkedIn Scrape" }
func (a *LinkedInScrape) Source() domain.Source { return domain.SourceLinkedIn }

var spainReplacer = strings.NewReplacer("españa", "Spain", "España", "Spain", "ESPAÑA", "Spain")

// searchLocation rewrites the location for the guest search. It needs
// "Spain" (not "España"); bare city names get ", Spain" appended or cities
// like Almeria resolve to the wrong country.
func searchLocation(location string) string {
	lower := strings.ToLower(location)
	switch {
	case strings.Contains(lower, "españa"):
		return spainReplacer.Replace(location)
	case strings.Contains(lower, "spain"), strings.Contains(lower, "remote"):
		return location
	default:
		return location + ", Spain"
	}
}

func (a *LinkedInScrape) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	pageCtx, release, err := a.browser.Page(pageTimeout)
	if err != nil {
		return nil, fmt.Errorf("linkedin scrape: borrow page: %w", err)
	}
	defer release()

	if err := preparePage(pageCtx, 1280, 800); err != nil {
		return nil, fmt.Errorf("linkedin scrape: prepare page: %w", err)
	}

	params := url.Values{}
	params.Set("keywords", query)
	params.Set("location", searchLocation(location))
	params.Set("position", "1")
	params.Set("pageNum", "0")
	searchURL := a.baseURL + "?" + params.Encode()
	a.log.Info("visiting", zap.String("url", searchURL))

	if err := navigate(pageCtx, searchURL, navTimeout); err != nil {
		a.log.Error("navigation failed", zap.Error(err))
		return nil, nil
	}

	// Guest search sometimes bounces to a login or checkpoint page; that
	// means the search is blocked for this session.
	loc := currentURL(pageCtx)
	if strings.Contains(loc, "login") || strings.Contains(loc, "checkpoint") {
		a.log.Warn("redirected to login/checkpoint, search blocked")
		return nil, nil
	}

	if dismissCookies(pageCtx, `button[data-tracking-control-name="ga-cookie.consent.accept"]`) {
		a.log.Debug("cookies accepted")
	}

	if _, ok := waitAnySelector(pageCtx, linkedinCardSelectors, shortAPITimeout); !ok {
		a.log.Warn("no job cards found",
			zap.String("body", bodyText(pageCtx, 300)),
		)
		return nil, nil
	}

	doc, err := document(pageCtx)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return nil, nil
	}

	var jobs []domain.JobRecord
	doc.Find(strings.Join(linkedinCardSelectors, ", ")).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCardsPerPage {
			return false
		}
		title := trimText(card.Find(linkedinTitleSelector).First())
		company := trimText(card.Find(linkedinCompanySelector).First())
		if company == "" {
			company = "Empresa"
		}
		href, _ := card.Find(linkedinLinkSelector).First().Attr("href")
		jobURL := absoluteURL(a.baseURL, href)
		if !strings.Contains(jobURL, "/jobs/") {
			return true
		}
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("li-scrape", i),
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         jobURL,
			Source:      domain.SourceLinkedIn,
			PostedAt:    "Reciente",
			Salary:      "Ver en LinkedIn",
			Tags:        []string{"LinkedIn", "Extraído"},
			Description: "Oferta extraída en tiempo real de LinkedIn",
		}
		if src, ok := card.Find(linkedinLogoSelector).First().Attr("src"); ok && src != "" {
			rec.Logo = &src
		}
		if rec.Valid() {
			jobs = append(jobs, rec)
		}
		return true
	})

	a.log.Info("extracted", zap.Int("jobs", len(jobs)))
	return jobs, nil
}
