package tests

import (
	"context"
	"fmt"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/extraction"
	"github.com/Fender1992/RemoteFlow/internal/sites"
)

type mockExtractor struct {
	results map[sites.Site]extraction.Result
}

func (m mockExtractor) Extract(ctx context.Context, site sites.Site,
	params entities.SearchParams, maxJobs int) extraction.Result {

	if result, ok := m.results[site]; ok {
		return result
	}
	return extraction.Result{Jobs: []entities.RawJob{}, Error: fmt.Sprintf("Unknown site: %v", site)}
}

func staticFactory(extractor extraction.Extractor) extraction.Factory {
	return func(apiKey string) extraction.Extractor { return extractor }
}
