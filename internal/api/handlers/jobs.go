package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/internal/merge"
	"github.com/empleoradar/backend/internal/official"
	"github.com/empleoradar/backend/pkg/logger"
)

// OfficialSearcher is the independent official-API result source the merged
// view combines with aggregation output.
type OfficialSearcher interface {
	Search(ctx context.Context, query, location string, limit int) ([]domain.JobRecord, error)
}

// JobsHandler serves the merged, deduplicated view: aggregated sources plus
// the official search API in one response.
type JobsHandler struct {
	aggregator JobAggregator
	official   OfficialSearcher
	deadline   time.Duration
	log        *zap.Logger
}

func NewJobsHandler(aggregator JobAggregator, o OfficialSearcher, deadline time.Duration) *JobsHandler {
	if deadline <= 0 {
		deadline = 45 * time.Second
	}
	return &JobsHandler{
		aggregator: aggregator,
		official:   o,
		deadline:   deadline,
		log:        logger.Named("api.jobs"),
	}
}

type jobsResponse struct {
	Jobs []domain.JobRecord `json:"jobs"`
	Meta merge.Meta         `json:"meta"`
}

// Jobs handles GET /api/jobs?query=...&location=...&limit=...
// Both branches run concurrently; either one failing empty never fails the
// request.
func (h *JobsHandler) Jobs(c *fiber.Ctx) error {
	query := c.Query("query", defaultQuery)
	location := repairDoubleUTF8(c.Query("location", defaultLocation))
	limit := c.QueryInt("limit", 50)

	ctx, cancel := context.WithTimeout(c.UserContext(), h.deadline)
	defer cancel()

	var (
		wg           sync.WaitGroup
		externalJobs []domain.JobRecord
		officialJobs []domain.JobRecord
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		externalJobs = h.aggregator.Aggregate(ctx, query, official.NormalizeLocation(location))
	}()
	go func() {
		defer wg.Done()
		jobs, err := h.official.Search(ctx, query, location, limit)
		if err != nil {
			h.log.Warn("official search failed", zap.Error(err))
			return
		}
		officialJobs = jobs
	}()
	wg.Wait()

	unique, meta := merge.Merge(externalJobs, officialJobs)
	if unique == nil {
		unique = []domain.JobRecord{}
	}

	h.log.Info("merged",
		zap.Int("external", meta.External),
		zap.Int("official", meta.Official),
		zap.Int("unique", len(unique)),
	)

	return c.JSON(jobsResponse{Jobs: unique, Meta: meta})
}
