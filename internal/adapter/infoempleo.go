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

// InfoempleoScrape extracts offers from Infoempleo, whose search URL embeds
// the city as a slug rather than a query parameter.
type InfoempleoScrape struct {
	baseURL string
	browser PageBrowser
	log     *zap.Logger
}

func NewInfoempleoScrape(b PageBrowser) *InfoempleoScrape {
	return &InfoempleoScrape{
		baseURL: "https://www.infoempleo.com/trabajo",
		browser: b,
		log:     logger.Named("infoempleo"),
	}
}

func (a *InfoempleoScrape) Name() string          { return "Infoempleo" }
func (a *InfoempleoScrape) Source() domain.Source { return domain.SourceInfoempleo }

func (a *InfoempleoScrape) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	pageCtx, release, err := a.browser.Page(pageTimeout)
	if err != nil {
		return nil, fmt.Errorf("infoempleo: borrow page: %w", err)
	}
	defer release()

	if err := preparePage(pageCtx, 1366, 768); err != nil {
		return nil, fmt.Errorf("infoempleo: prepare page: %w", err)
	}

	citySlug := strings.ReplaceAll(strings.ToLower(domain.StripCountry(location)), " ", "-")
	searchURL := fmt.Sprintf("%s/en_%s/?search=%s", a.baseURL, citySlug, url.QueryEscape(query))
	a.log.Info("visiting", zap.String("url", searchURL))

	if err := navigate(pageCtx, searchURL, navTimeout); err != nil {
		a.log.Error("navigation failed", zap.Error(err))
		return nil, nil
	}

	// Didomi is the usual banner; a couple of other consent vendors show
	// up on some pages.
	if !dismissCookies(pageCtx, "#didomi-notice-agree-button") {
		dismissCookies(pageCtx, `button[onclick*="accept"], .btn-accept, #onetrust-accept-btn-handler`)
	}

	doc, err := document(pageCtx)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return nil, nil
	}

	var jobs []domain.JobRecord
	doc.Find("li.info-b, .offerblock, article.offer").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCardsPerPage {
			return false
		}
		titleEl := card.Find("h2 a").First()
		title := trimText(titleEl)
		href, _ := titleEl.Attr("href")
		company := trimText(card.Find(`.company, p.company, a[href*="/empresa/"]`).First())
		if company == "" {
			company = "Empresa en Infoempleo"
		}
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("ie", i),
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         absoluteURL(a.baseURL, href),
			Source:      domain.SourceInfoempleo,
			PostedAt:    "Reciente",
			Salary:      "Ver en Infoempleo",
			Tags:        []string{"Infoempleo"},
			Description: "Oferta extraída de Infoempleo",
		}
		if rec.Valid() {
			jobs = append(jobs, rec)
		}
		return true
	})

	a.log.Info("extracted", zap.Int("jobs", len(jobs)))
	return jobs, nil
}
