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

// ComputrabajoScrape extracts offers from the Spanish Computrabajo listing.
type ComputrabajoScrape struct {
	baseURL string
	browser PageBrowser
	log     *zap.Logger
}

func NewComputrabajoScrape(b PageBrowser) *ComputrabajoScrape {
	return &ComputrabajoScrape{
		baseURL: "https://www.computrabajo.es/ofertas-de-trabajo/",
		browser: b,
		log:     logger.Named("computrabajo"),
	}
}

func (a *ComputrabajoScrape) Name() string          { return "Computrabajo" }
func (a *ComputrabajoScrape) Source() domain.Source { return domain.SourceComputrabajo }

func (a *ComputrabajoScrape) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	pageCtx, release, err := a.browser.Page(pageTimeout)
	if err != nil {
		return nil, fmt.Errorf("computrabajo: borrow page: %w", err)
	}
	defer release()

	if err := preparePage(pageCtx, 1366, 768); err != nil {
		return nil, fmt.Errorf("computrabajo: prepare page: %w", err)
	}

	citySlug := strings.ReplaceAll(strings.ToLower(domain.StripCountry(location)), " ", "-")
	params := url.Values{}
	params.Set("q", query)
	params.Set("l", citySlug)
	searchURL := a.baseURL + "?" + params.Encode()
	a.log.Info("visiting", zap.String("url", searchURL))

	if err := navigate(pageCtx, searchURL, navTimeout); err != nil {
		a.log.Error("navigation failed", zap.Error(err))
		return nil, nil
	}

	dismissCookies(pageCtx, "#onetrust-accept-btn-handler")

	doc, err := document(pageCtx)
	if err != nil {
		a.log.Error("snapshot failed", zap.Error(err))
		return nil, nil
	}

	var jobs []domain.JobRecord
	doc.Find("article.box_offer").EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCardsPerPage {
			return false
		}
		title := trimText(card.Find("h2 a").First())
		company := trimText(card.Find("p.fs16 a").First())
		if company == "" {
			company = trimText(card.Find("a.fc_base").First())
		}
		if company == "" {
			company = "Empresa en Computrabajo"
		}
		href, _ := card.Find("a.js-o-link").First().Attr("href")
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("ct", i),
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         absoluteURL(a.baseURL, href),
			Source:      domain.SourceComputrabajo,
			PostedAt:    "Reciente",
			Salary:      "Ver en Computrabajo",
			Tags:        []string{"Computrabajo"},
			Description: "Oferta extraída de Computrabajo",
		}
		if rec.Valid() {
			jobs = append(jobs, rec)
		}
		return true
	})

	a.log.Info("extracted", zap.Int("jobs", len(jobs)))
	return jobs, nil
}
