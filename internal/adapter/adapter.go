// Package adapter translates heterogeneous upstreams (official APIs, RSS
// feeds, browser-driven scrapes) into the shared JobRecord schema under one
// uniform search contract.
package adapter

import (
	"context"
	"time"

	"github.com/empleoradar/backend/internal/domain"
)

// Adapter is the uniform contract every upstream integration satisfies.
// Implementations catch their own upstream failures and degrade to an empty
// list (optionally substituting a synthetic diagnostic record); a returned
// error means the adapter itself could not run and is logged, never
// propagated past the aggregator.
type Adapter interface {
	Name() string
	Source() domain.Source
	Search(ctx context.Context, query, location string) ([]domain.JobRecord, error)
}

// PageBrowser is what scrape adapters need from the browser session
// manager: a ready, isolated page with a bounded lifetime.
type PageBrowser interface {
	Page(timeout time.Duration) (context.Context, context.CancelFunc, error)
}

// Timeouts shared across adapters. Navigation gets the long automation
// timeout; best-effort steps get short ones whose expiry is swallowed.
const (
	apiTimeout      = 10 * time.Second
	shortAPITimeout = 5 * time.Second
	pageTimeout     = 40 * time.Second
	navTimeout      = 30 * time.Second
	selectorTimeout = 8 * time.Second
	cookieTimeout   = 3 * time.Second
)

// maxCardsPerPage caps how many candidate entries a scrape extracts.
const maxCardsPerPage = 15
