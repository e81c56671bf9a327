package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/config"
	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

// tokenExpiryMargin is the safety window before expiry within which a cached
// token is no longer reused.
const tokenExpiryMargin = time.Minute

// LinkedInAPI queries the bearer-authenticated job search endpoint, keeping
// a client-credentials OAuth token cached until near expiry. Without
// credentials it stays silent; the scrape adapter covers the source.
type LinkedInAPI struct {
	creds    config.Credentials
	tokenURL string
	baseURL  string
	client   *http.Client
	log      *zap.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewLinkedInAPI(creds config.Credentials) *LinkedInAPI {
	return &LinkedInAPI{
		creds:    creds,
		tokenURL: "https://www.linkedin.com/oauth/v2/accessToken",
		baseURL:  "https://api.linkedin.com/v2/jobSearch",
		client:   &http.Client{Timeout: shortAPITimeout},
		log:      logger.Named("linkedin.api"),
	}
}

func (a *LinkedInAPI) Name() string          { return "LinkedIn API" }
func (a *LinkedInAPI) Source() domain.Source { return domain.SourceLinkedIn }

type linkedinTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type linkedinSearchResponse struct {
	Elements []linkedinJob `json:"elements"`
}

type linkedinJob struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	CompanyName string      `json:"companyName"`
	Location    string      `json:"location"`
	JobURL      string      `json:"jobUrl"`
	Description string      `json:"description"`
}

// accessToken returns a cached bearer token, refetching when absent or
// within the expiry margin.
func (a *LinkedInAPI) accessToken(ctx context.Context) (string, error) {
	if !a.creds.Configured() {
		return "", nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.tokenExpiry.Add(-tokenExpiryMargin)) {
		return a.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.creds.ClientID)
	form.Set("client_secret", a.creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("linkedin: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin: token exchange: %w", err)
	}
	defer resp.Body.Close()

	var payload linkedinTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("linkedin: decode token: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("linkedin: token endpoint returned no token (status %d)", resp.StatusCode)
	}

	a.token = payload.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return a.token, nil
}

func (a *LinkedInAPI) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		a.log.Error("auth failed, scrape fallback covers the source", zap.Error(err))
		return nil, nil
	}
	if token == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("location", location)
	params.Set("count", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Error("request failed", zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		a.log.Warn("job search requires partner access")
		return []domain.JobRecord{{
			ID:          "li-restricted",
			Title:       "Acceso Restringido a API de Empleo",
			Company:     "LinkedIn Partners",
			Location:    "-",
			URL:         "#",
			Source:      domain.SourceLinkedIn,
			PostedAt:    "Aviso",
			Salary:      "-",
			Tags:        []string{domain.TagRestricted},
			Description: "LinkedIn requiere ser \"Partner\" para buscar empleos vía API. Usando scraping avanzado como alternativa.",
		}}, nil
	}
	if resp.StatusCode != http.StatusOK {
		a.log.Error("unexpected status", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var payload linkedinSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		a.log.Error("decode failed", zap.Error(err))
		return nil, nil
	}

	jobs := make([]domain.JobRecord, 0, len(payload.Elements))
	for i, job := range payload.Elements {
		id := job.ID.String()
		if id == "" {
			id = fmt.Sprint(i)
		}
		rec := domain.JobRecord{
			ID:          "li-api-" + id,
			Title:       job.Title,
			Company:     job.CompanyName,
			Location:    job.Location,
			URL:         job.JobURL,
			Source:      domain.SourceLinkedIn,
			PostedAt:    "Reciente",
			Salary:      "Ver en LinkedIn",
			Tags:        []string{"API Oficial"},
			Description: job.Description,
		}
		if rec.Title == "" {
			rec.Title = "Oferta LinkedIn"
		}
		if rec.Company == "" {
			rec.Company = "Empresa"
		}
		if rec.Location == "" {
			rec.Location = location
		}
		if rec.URL == "" {
			rec.URL = "https://www.linkedin.com/jobs/view/" + id
		}
		if rec.Description == "" {
			rec.Description = "Oferta obtenida vía API de LinkedIn"
		}
		jobs = append(jobs, rec)
	}
	return jobs, nil
}
