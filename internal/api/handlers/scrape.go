package handlers

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

// Fallback search terms when the caller omits parameters.
const (
	defaultQuery    = "empleo"
	defaultLocation = "madrid"
)

// JobAggregator is the aggregation engine the scrape handler fronts.
type JobAggregator interface {
	Aggregate(ctx context.Context, query, location string) []domain.JobRecord
}

// ScrapeHandler serves the aggregation endpoint consumed by the UI.
type ScrapeHandler struct {
	aggregator JobAggregator
	deadline   time.Duration
	log        *zap.Logger
}

func NewScrapeHandler(aggregator JobAggregator, deadline time.Duration) *ScrapeHandler {
	if deadline <= 0 {
		deadline = 45 * time.Second
	}
	return &ScrapeHandler{
		aggregator: aggregator,
		deadline:   deadline,
		log:        logger.Named("api.scrape"),
	}
}

// scrapeResponse is the wire shape of one aggregation round.
type scrapeResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Jobs    []domain.JobRecord `json:"jobs"`
}

// Scrape handles GET /api/scrape?query=...&location=...
func (h *ScrapeHandler) Scrape(c *fiber.Ctx) error {
	query := c.Query("query", defaultQuery)
	location := repairDoubleUTF8(c.Query("location", defaultLocation))

	h.log.Info("request",
		zap.String("query", query),
		zap.String("location", location),
	)

	ctx, cancel := context.WithTimeout(c.UserContext(), h.deadline)
	defer cancel()

	jobs := h.aggregator.Aggregate(ctx, query, location)
	if jobs == nil {
		jobs = []domain.JobRecord{}
	}

	return c.JSON(scrapeResponse{Success: true, Count: len(jobs), Jobs: jobs})
}

// repairDoubleUTF8 best-effort fixes values that arrive double-UTF8-encoded
// (e.g. "AlmerÃ­a" for "Almería"). Each rune of a mangled value is really a
// Latin-1 byte of the intended UTF-8 text; detection keys off the telltale
// "Ã"/"Â" runes. Values that don't round-trip cleanly are used as-is.
func repairDoubleUTF8(s string) string {
	if !strings.ContainsAny(s, "ÃÂ") {
		return s
	}

	raw := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return s
		}
		raw = append(raw, byte(r))
	}
	if !utf8.Valid(raw) {
		return s
	}
	return string(raw)
}
