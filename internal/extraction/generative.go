package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/logger"
	"github.com/Fender1992/RemoteFlow/internal/sites"
	log "github.com/sirupsen/logrus"
)

const maxGeneratedJobs = 10

type textGenerator interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// GenerativeExtractor asks a language model to fabricate plausible, fictional
// listings for the query. It never fetches anything from the target site.
type GenerativeExtractor struct {
	generator textGenerator
	configs   map[sites.Site]sites.Config
}

func NewGenerativeExtractor(generator textGenerator, configs map[sites.Site]sites.Config) *GenerativeExtractor {
	return &GenerativeExtractor{generator: generator, configs: configs}
}

func (e *GenerativeExtractor) Extract(ctx context.Context, site sites.Site,
	params entities.SearchParams, maxJobs int) Result {

	searchURL := sites.BuildSearchURL(site, params)
	if searchURL == "" {
		return Result{Jobs: []entities.RawJob{}, Error: fmt.Sprintf("Unknown site: %v", site)}
	}

	count := maxJobs
	if count > maxGeneratedJobs {
		count = maxGeneratedJobs
	}

	response, err := e.generator.GenerateResponse(ctx, e.buildPrompt(site, params, count))
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
			Errorf("generation failed for %v: %v", site, err)
		return Result{Jobs: []entities.RawJob{}, Error: err.Error(), SearchURL: searchURL}
	}

	result := resultFrom(ParseModelResponse(response))
	result.SearchURL = searchURL
	return result
}

func (e *GenerativeExtractor) buildPrompt(site sites.Site, params entities.SearchParams, count int) string {

	config := e.configs[site]
	name := config.Name
	if name == "" {
		name = string(site)
	}

	return fmt.Sprintf(`Generate %d plausible but fictional job listings as they would appear on %v for this search:

Roles: %v
Location: %v

Follow %v's conventions for titles, company names, salary formats and URLs. Vary seniority, salary and posting age across listings.

Respond ONLY with JSON in this exact format:

`+"```json"+`
{
  "jobs": [
    {
      "title": "...",
      "company": "...",
      "location": "...",
      "salary": "...",
      "url": "...",
      "posted_date": "...",
      "description_preview": "...",
      "employment_type": "..."
    }
  ],
  "metadata": {
    "site": "%v",
    "total_found": %d
  }
}
`+"```", count, name, strings.Join(params.Roles, ", "), params.LocationOrDefault(), name, site, count)
}
