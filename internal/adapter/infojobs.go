package adapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/config"
	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

const infojobsMaxResults = 20

// InfoJobsAPI queries the official InfoJobs offer endpoint with basic-auth
// client credentials. Missing or placeholder credentials short-circuit to an
// empty result without a network call.
type InfoJobsAPI struct {
	creds   config.Credentials
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewInfoJobsAPI(creds config.Credentials) *InfoJobsAPI {
	return &InfoJobsAPI{
		creds:   creds,
		baseURL: "https://api.infojobs.net/api/7/offer",
		client:  &http.Client{Timeout: apiTimeout},
		log:     logger.Named("infojobs.api"),
	}
}

func (a *InfoJobsAPI) Name() string          { return "InfoJobs API" }
func (a *InfoJobsAPI) Source() domain.Source { return domain.SourceInfoJobs }

type infojobsResponse struct {
	Offers []infojobsOffer `json:"offers"`
}

type infojobsOffer struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Link   string `json:"link"`
	Author struct {
		Name    string `json:"name"`
		LogoURL string `json:"logoUrl"`
	} `json:"author"`
	Province struct {
		Value string `json:"value"`
	} `json:"province"`
	Category struct {
		Value string `json:"value"`
	} `json:"category"`
	Published         string `json:"published"`
	SalaryDescription string `json:"salaryDescription"`
	RequirementMin    string `json:"requirementMin"`
}

func (a *InfoJobsAPI) Search(ctx context.Context, query, location string) ([]domain.JobRecord, error) {
	if !a.creds.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("province", domain.StripCountry(location))
	params.Set("maxResults", fmt.Sprint(infojobsMaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("infojobs: build request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(a.creds.ClientID + ":" + a.creds.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Error("request failed", zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusUnauthorized:
		return []domain.JobRecord{domain.AuthErrorRecord(
			domain.SourceInfoJobs, "ij-error-401",
			"Error de Autenticación InfoJobs (401)",
			"Las credenciales de la API de InfoJobs no son válidas.",
		)}, nil
	case http.StatusTooManyRequests:
		return []domain.JobRecord{domain.RateLimitRecord(
			domain.SourceInfoJobs, "ij-error-429",
			"Límite de Consultas (429)", "InfoJobs API",
			"Se ha alcanzado el límite de peticiones a la API de InfoJobs.",
		)}, nil
	case http.StatusForbidden:
		return []domain.JobRecord{domain.RestrictedRecord(
			domain.SourceInfoJobs, "ij-error-403",
			"Fuente Restringida (403)",
			"El acceso a la API de InfoJobs está restringido.",
		)}, nil
	default:
		a.log.Error("unexpected status", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var payload infojobsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		a.log.Error("decode failed", zap.Error(err))
		return nil, nil
	}

	jobs := make([]domain.JobRecord, 0, len(payload.Offers))
	for _, offer := range payload.Offers {
		rec := domain.JobRecord{
			ID:          "ij-" + offer.ID,
			Title:       offer.Title,
			Company:     offer.Author.Name,
			Location:    offer.Province.Value,
			URL:         offer.Link,
			Source:      domain.SourceInfoJobs,
			PostedAt:    domain.FormatDate(offer.Published),
			Salary:      offer.SalaryDescription,
			Tags:        []string{"InfoJobs"},
			Description: offer.RequirementMin,
		}
		if rec.Company == "" {
			rec.Company = "Empresa en InfoJobs"
		}
		if rec.Location == "" {
			rec.Location = location
		}
		if rec.Salary == "" {
			rec.Salary = "Ver en InfoJobs"
		}
		if rec.Description == "" {
			rec.Description = "Ver oferta completa en InfoJobs"
		}
		if offer.Category.Value != "" {
			rec.Tags = append(rec.Tags, offer.Category.Value)
		}
		if offer.Author.LogoURL != "" {
			logo := offer.Author.LogoURL
			rec.Logo = &logo
		}
		if !rec.Valid() {
			continue
		}
		jobs = append(jobs, rec)
	}
	return jobs, nil
}
