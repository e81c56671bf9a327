package aggregate

import (
	"github.com/empleoradar/backend/internal/adapter"
	"github.com/empleoradar/backend/internal/config"
)

// AdapterSet builds the ordered adapter list for a deployment mode. The
// constrained set is browser-free, for hosts where headless scrapers time
// out; the full set interleaves official APIs with their scrape fallbacks.
// The returned order is the invocation and display-grouping order.
func AdapterSet(cfg config.SourcesConfig, constrained bool, b adapter.PageBrowser) []adapter.Adapter {
	if constrained {
		return []adapter.Adapter{
			adapter.NewInfoJobsAPI(cfg.InfoJobs),
			adapter.NewLinkedInAPI(cfg.LinkedIn),
			adapter.NewTecnoempleo(b),
			adapter.NewRemotive(),
		}
	}

	set := []adapter.Adapter{
		adapter.NewLinkedInAPI(cfg.LinkedIn),
		adapter.NewLinkedInScrape(b),
		adapter.NewInfoJobsAPI(cfg.InfoJobs),
		adapter.NewInfoJobsScrape(b),
		adapter.NewTecnoempleo(b),
		adapter.NewIndeedScrape(b),
		adapter.NewJobatusScrape(b),
		adapter.NewInfoempleoScrape(b),
		adapter.NewRemotive(),
	}
	if cfg.EnableComputrabajo {
		set = append(set, adapter.NewComputrabajoScrape(b))
	}
	return set
}
