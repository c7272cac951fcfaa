package extraction

import (
	"context"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/sites"
)

// Result is what one site visit produced. SearchURL is always set once a URL
// could be built, even when Error is non-empty.
type Result struct {
	Jobs      []entities.RawJob
	Error     string
	SearchURL string
	Metadata  map[string]any
}

// Extractor turns a site and search parameters into raw job listings. Two
// implementations exist: the interactive browser-driven strategy and the
// generative one. Selection happens once at startup via configuration.
type Extractor interface {
	Extract(ctx context.Context, site sites.Site, params entities.SearchParams, maxJobs int) Result
}

// Factory builds an extractor bound to the API key of one session run; the
// trigger request may carry a user-supplied key.
type Factory func(apiKey string) Extractor

func resultFrom(response ModelResponse) Result {
	jobs := response.Jobs
	if jobs == nil {
		jobs = []entities.RawJob{}
	}
	return Result{Jobs: jobs, Error: response.Error, Metadata: response.Metadata}
}
