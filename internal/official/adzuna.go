// Package official integrates the Adzuna search API, the independent
// result set the merge stage combines with aggregated scraping output.
package official

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/config"
	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

const (
	adzunaTimeout     = 15 * time.Second
	defaultResultSize = 50
)

// Client queries the Adzuna Spain search endpoint. Without credentials,
// Search returns nil gracefully and the merge stage works from the
// aggregated set alone.
type Client struct {
	creds   config.Credentials
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewClient(creds config.Credentials) *Client {
	return &Client{
		creds:   creds,
		baseURL: "https://api.adzuna.com/v1/api/jobs/es/search/1",
		client:  &http.Client{Timeout: adzunaTimeout},
		log:     logger.Named("adzuna"),
	}
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	RedirectURL  string  `json:"redirect_url"`
	Created      string  `json:"created"`
	ContractTime string  `json:"contract_time"`
	Description  string  `json:"description"`
	Category     struct {
		Label string `json:"label"`
	} `json:"category"`
}

// NormalizeLocation scopes a bare city to Spain; already-scoped and remote
// locations pass through.
func NormalizeLocation(location string) string {
	if location == "" {
		return "España"
	}
	l := strings.ToLower(location)
	if strings.Contains(l, "españa") || strings.Contains(l, "spain") ||
		strings.Contains(l, "remote") || strings.Contains(l, "remoto") {
		return location
	}
	return location + ", España"
}

// Search fetches up to limit postings sorted by date.
func (c *Client) Search(ctx context.Context, query, location string, limit int) ([]domain.JobRecord, error) {
	if !c.creds.Configured() {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultResultSize
	}

	params := url.Values{}
	params.Set("app_id", c.creds.ClientID)
	params.Set("app_key", c.creds.ClientSecret)
	params.Set("results_per_page", fmt.Sprint(limit))
	params.Set("sort_by", "date")
	if query != "" {
		params.Set("what", query)
	}
	params.Set("where", NormalizeLocation(location))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna: status %d", resp.StatusCode)
	}

	var payload adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("adzuna: decode: %w", err)
	}

	jobs := make([]domain.JobRecord, 0, len(payload.Results))
	for _, res := range payload.Results {
		company := res.Company.DisplayName
		if company == "" {
			company = "Empresa Confidencial"
		}
		loc := res.Location.DisplayName
		if loc == "" {
			loc = "Ubicación no especificada"
		}
		rec := domain.JobRecord{
			ID:          res.ID.String(),
			Title:       stripTags(res.Title),
			Company:     company,
			Location:    loc,
			URL:         res.RedirectURL,
			Source:      domain.SourceAdzuna,
			PostedAt:    domain.FormatDate(res.Created),
			Salary:      formatSalary(res.SalaryMin, res.SalaryMax),
			Description: stripTags(res.Description),
		}
		if res.Category.Label != "" {
			rec.Tags = append(rec.Tags, res.Category.Label)
		}
		if !rec.Valid() {
			continue
		}
		jobs = append(jobs, rec)
	}

	c.log.Info("fetched", zap.Int("jobs", len(jobs)))
	return jobs, nil
}

var tagPattern = regexp.MustCompile(`</?[^>]+(>|$)`)

func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// formatSalary renders the salary range in euros, matching the card text
// the UI shows.
func formatSalary(min, max float64) string {
	switch {
	case min == 0 && max == 0:
		return "No especificado"
	case min != 0 && max != 0 && min == max:
		return fmt.Sprintf("%.0f€", min)
	case min != 0 && max != 0:
		return fmt.Sprintf("%.0f€ - %.0f€", min, max)
	case min != 0:
		return fmt.Sprintf("Desde %.0f€", min)
	default:
		return fmt.Sprintf("Hasta %.0f€", max)
	}
}
