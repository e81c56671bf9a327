// Package aggregate fans a search out over every configured source adapter
// and merges the partial results into one cached snapshot.
package aggregate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/adapter"
	"github.com/empleoradar/backend/internal/cache"
	"github.com/empleoradar/backend/internal/domain"
	"github.com/empleoradar/backend/pkg/logger"
)

// Options tunes aggregation behavior.
type Options struct {
	// IncludeDiagnostics keeps synthetic system-notice records in the
	// result so the UI can render a diagnostic card. The original
	// behavior; disable to serve real postings only.
	IncludeDiagnostics bool
}

// Aggregator coordinates one fan-out-and-merge cycle per (query, location)
// pair. Adapter order is fixed at construction; concatenation follows that
// order, not completion order, so grouping by source is deterministic.
type Aggregator struct {
	adapters []adapter.Adapter
	cache    cache.ResultCache
	opts     Options
	log      *zap.Logger
}

// New creates an aggregator over the given adapters. The slice order is the
// invocation and concatenation order.
func New(adapters []adapter.Adapter, c cache.ResultCache, opts Options) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		cache:    c,
		opts:     opts,
		log:      logger.Named("aggregate"),
	}
}

// Aggregate returns all jobs for the pair, consulting the cache first. Every
// adapter runs concurrently and independently; an adapter failing or
// returning nothing never affects the others. An empty round is returned but
// not cached, so the next identical request retries instead of serving a
// frozen "no results".
func (a *Aggregator) Aggregate(ctx context.Context, query, location string) []domain.JobRecord {
	if jobs, ok := a.cache.Get(ctx, query, location); ok {
		a.log.Info("cache hit",
			zap.String("query", query),
			zap.String("location", location),
		)
		return jobs
	}

	a.log.Info("aggregating",
		zap.String("query", query),
		zap.String("location", location),
		zap.Int("adapters", len(a.adapters)),
	)

	// Results are indexed by adapter position so concatenation preserves
	// invocation order regardless of which branch settles first.
	results := make([][]domain.JobRecord, len(a.adapters))

	var wg sync.WaitGroup
	for i, ad := range a.adapters {
		wg.Add(1)
		go func(i int, ad adapter.Adapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.log.Error("adapter panicked",
						zap.String("adapter", ad.Name()),
						zap.Any("panic", r),
					)
				}
			}()

			jobs, err := ad.Search(ctx, query, location)
			if err != nil {
				a.log.Warn("adapter failed",
					zap.String("adapter", ad.Name()),
					zap.Error(err),
				)
				return
			}
			results[i] = jobs
		}(i, ad)
	}
	wg.Wait()

	var all []domain.JobRecord
	counts := make(map[domain.Source]int)
	for _, jobs := range results {
		for _, job := range jobs {
			if job.IsDiagnostic() && !a.opts.IncludeDiagnostics {
				continue
			}
			all = append(all, job)
			counts[job.Source]++
		}
	}

	countFields := make([]zap.Field, 0, len(counts)+1)
	for source, n := range counts {
		countFields = append(countFields, zap.Int(string(source), n))
	}
	countFields = append(countFields, zap.Int("total", len(all)))
	a.log.Info("jobs by source", countFields...)

	if len(all) > 0 {
		a.cache.Put(ctx, query, location, all)
	}
	return all
}

// Counts tallies records per source tag.
func Counts(jobs []domain.JobRecord) map[domain.Source]int {
	counts := make(map[domain.Source]int)
	for _, job := range jobs {
		counts[job.Source]++
	}
	return counts
}
