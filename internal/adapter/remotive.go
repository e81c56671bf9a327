package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

const remotiveLimit = 15

// Remotive queries the unauthenticated remote-jobs JSON endpoint. Location
// is ignored; everything it returns is remote.
type Remotive struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewRemotive() *Remotive {
	return &Remotive{
		baseURL: "https://remotive.com/api/remote-jobs",
		client:  &http.Client{Timeout: apiTimeout},
		log:     logger.Named("remotive"),
	}
}

func (a *Remotive) Name() string          { return "Remotive" }
func (a *Remotive) Source() domain.Source { return domain.SourceRemotive }

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	URL             string   `json:"url"`
	PublicationDate string   `json:"publication_date"`
	Salary          string   `json:"salary"`
	JobType         string   `json:"job_type"`
	Tags            []string `json:"tags"`
	Description     string   `json:"description"`
}

func (a *Remotive) Search(ctx context.Context, query, _ string) ([]domain.JobRecord, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", fmt.Sprint(remotiveLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("remotive: build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("request failed", zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.log.Warn("unexpected status", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var payload remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		a.log.Warn("decode failed", zap.Error(err))
		return nil, nil
	}

	jobs := make([]domain.JobRecord, 0, len(payload.Jobs))
	for i, job := range payload.Jobs {
		jobType := job.JobType
		if jobType == "" {
			jobType = "Tech"
		}
		tags := []string{"Remoto", jobType}
		for _, t := range job.Tags {
			if len(tags) == 4 {
				break
			}
			tags = append(tags, t)
		}
		salary := job.Salary
		if salary == "" {
			salary = "Ver en Remotive"
		}
		company := job.CompanyName
		if company == "" {
			company = "Empresa Remota"
		}
		rec := domain.JobRecord{
			ID:          domain.SyntheticID("rm", i),
			Title:       job.Title,
			Company:     company,
			Location:    "Remoto",
			URL:         job.URL,
			Source:      domain.SourceRemotive,
			PostedAt:    domain.FormatDate(job.PublicationDate),
			Salary:      salary,
			Tags:        tags,
			Description: truncate(stripHTML(job.Description), 200),
		}
		if !rec.Valid() {
			continue
		}
		jobs = append(jobs, rec)
	}
	return jobs, nil
}
