package services

import (
	"context"
	"time"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/logger"
	"github.com/Fender1992/RemoteFlow/internal/metrics"
	"github.com/Fender1992/RemoteFlow/internal/sites"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

type jobRepository interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	ExistsByTitleAndCompany(ctx context.Context, title string, company string) (bool, error)
	Create(ctx context.Context, job *entities.Job) error
}

// JobWriter normalizes extracted listings and inserts the new ones into the
// shared jobs store, counting duplicates. The store is insert-only here:
// existing rows are never touched.
type JobWriter struct {
	jobs     jobRepository
	urlCache *gocache.Cache
}

func NewJobWriter(jobs jobRepository) *JobWriter {
	return &JobWriter{
		jobs:     jobs,
		urlCache: gocache.New(30*time.Minute, time.Hour),
	}
}

// SaveJobs writes one site's batch. Jobs without a title or URL are silently
// skipped as a data-quality gate; URL matches and (title, company) matches
// count as duplicates. A failed insert is logged and skipped without aborting
// the batch; a failed duplicate lookup aborts it, since nothing can be
// written safely without the check.
func (w *JobWriter) SaveJobs(ctx context.Context, rawJobs []entities.RawJob,
	sessionID string, source sites.Site) (int, int, error) {

	imported, duplicates := 0, 0

	for _, raw := range rawJobs {

		job := NormalizeJob(raw, source)

		if job.Title == "" || job.URL == "" {
			continue
		}

		if _, seen := w.urlCache.Get(job.URL); seen {
			duplicates++
			continue
		}

		exists, err := w.jobs.ExistsByURL(ctx, job.URL)
		if err != nil {
			return imported, duplicates, err
		}
		if exists {
			duplicates++
			continue
		}

		exists, err = w.jobs.ExistsByTitleAndCompany(ctx, job.Title, job.Company)
		if err != nil {
			return imported, duplicates, err
		}
		if exists {
			duplicates++
			continue
		}

		if err = w.jobs.Create(ctx, &job); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("error inserting job %v for session %v: %v", job.URL, sessionID, err)
			continue
		}

		if err = w.urlCache.Add(job.URL, "", gocache.DefaultExpiration); err != nil {
			log.Errorf("failed to cache job url: %v", err)
		}
		imported++
	}

	metrics.ImportedJobsCounter.Add(float64(imported))
	metrics.DuplicateJobsCounter.Add(float64(duplicates))

	return imported, duplicates, nil
}
