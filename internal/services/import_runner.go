package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/events"
	"github.com/Fender1992/RemoteFlow/internal/extraction"
	"github.com/Fender1992/RemoteFlow/internal/logger"
	"github.com/Fender1992/RemoteFlow/internal/metrics"
	"github.com/Fender1992/RemoteFlow/internal/repositories"
	"github.com/Fender1992/RemoteFlow/internal/sites"
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const missingKeyMessage = "No API key configured. Please add your Anthropic API key in Preferences."

const defaultMaxJobs = 25

type sessionRepository interface {
	GetByID(ctx context.Context, id string) (*entities.ImportSession, error)
	MarkRunning(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errorMessage string) error
	MarkCompleted(ctx context.Context, id string, totals repositories.SessionTotals) error
}

type siteResultRepository interface {
	GetBySession(ctx context.Context, sessionID string) ([]entities.SiteResult, error)
	MarkRunning(ctx context.Context, id string, searchURL string) error
	MarkFinished(ctx context.Context, id string, outcome repositories.SiteOutcome) error
}

type jobSaver interface {
	SaveJobs(ctx context.Context, rawJobs []entities.RawJob, sessionID string, source sites.Site) (int, int, error)
}

// ImportRunner walks one session through its site results: builds the search
// URL, runs the extractor, persists what came back and records per-site and
// session-level counters. A failing site never fails the session; once the
// session is running the only terminal state is completed.
type ImportRunner struct {
	sessions      sessionRepository
	siteResults   siteResultRepository
	writer        jobSaver
	newExtractor  extraction.Factory
	siteConfigs   map[sites.Site]sites.Config
	defaultAPIKey string
	bus           EventBus.Bus
}

func NewImportRunner(
	sessions sessionRepository,
	siteResults siteResultRepository,
	writer jobSaver,
	newExtractor extraction.Factory,
	siteConfigs map[sites.Site]sites.Config,
	defaultAPIKey string,
	bus EventBus.Bus,
) *ImportRunner {
	return &ImportRunner{
		sessions:      sessions,
		siteResults:   siteResults,
		writer:        writer,
		newExtractor:  newExtractor,
		siteConfigs:   siteConfigs,
		defaultAPIKey: defaultAPIKey,
		bus:           bus,
	}
}

// Run processes the session end to end. A user-supplied API key takes
// precedence over the configured one; with neither the session is marked
// failed before any site work starts.
func (r *ImportRunner) Run(ctx context.Context, sessionID string, userAPIKey string) error {

	session, err := r.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "failed to load session")
	}
	if session == nil {
		return errors.Errorf("session %v not found", sessionID)
	}

	params, err := entities.ParseSearchParams(session.SearchParams)
	if err != nil {
		r.fail(ctx, sessionID, fmt.Sprintf("Invalid search parameters: %v", err))
		return nil
	}

	apiKey := userAPIKey
	if apiKey == "" {
		apiKey = r.defaultAPIKey
	}
	if apiKey == "" {
		r.fail(ctx, sessionID, missingKeyMessage)
		return nil
	}

	if err = r.sessions.MarkRunning(ctx, sessionID); err != nil {
		return errors.Wrap(err, "failed to mark session running")
	}

	started := time.Now()
	defer func() {
		metrics.SessionDuration.Observe(time.Since(started).Seconds())
	}()

	var totals repositories.SessionTotals
	var siteErrors []string

	siteResults, err := r.siteResults.GetBySession(ctx, sessionID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to load site results for session %v: %v", sessionID, err)
		siteErrors = append(siteErrors, fmt.Sprintf("failed to load site results: %v", err))
		siteResults = nil
	}

	extractor := r.newExtractor(apiKey)

	for _, result := range siteResults {
		outcome := r.processSite(ctx, extractor, result, params)

		totals.JobsFound += outcome.JobsFound
		totals.JobsImported += outcome.JobsImported
		totals.DuplicatesSkipped += outcome.DuplicatesSkipped
		if outcome.ErrorMessage != nil {
			siteErrors = append(siteErrors, fmt.Sprintf("%v: %v", result.SiteID, *outcome.ErrorMessage))
		}

		r.publishSiteProcessed(sessionID, result.SiteID, outcome)
	}

	if len(siteErrors) > 0 {
		joined := strings.Join(siteErrors, "; ")
		totals.ErrorMessage = &joined
	}

	if err = r.sessions.MarkCompleted(ctx, sessionID, totals); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to mark session %v completed: %v", sessionID, err)
	}

	r.publishSessionCompleted(sessionID, totals, siteErrors)

	log.Infof("session %v completed: %d found, %d imported, %d duplicates",
		sessionID, totals.JobsFound, totals.JobsImported, totals.DuplicatesSkipped)
	return nil
}

func (r *ImportRunner) processSite(
	ctx context.Context,
	extractor extraction.Extractor,
	result entities.SiteResult,
	params entities.SearchParams,
) repositories.SiteOutcome {

	site := sites.Site(result.SiteID)
	searchURL := sites.BuildSearchURL(site, params)

	if err := r.siteResults.MarkRunning(ctx, result.ID, searchURL); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to mark site result %v running: %v", result.ID, err)
	}

	maxJobs := defaultMaxJobs
	if cfg, ok := r.siteConfigs[site]; ok {
		maxJobs = cfg.MaxJobs
	}

	extractStart := time.Now()
	extracted := extractor.Extract(ctx, site, params, maxJobs)
	metrics.SiteStepDuration.WithLabelValues("extract").Observe(time.Since(extractStart).Seconds())

	outcome := repositories.SiteOutcome{JobsFound: len(extracted.Jobs)}
	siteError := extracted.Error

	if len(extracted.Jobs) > 0 {
		saveStart := time.Now()
		imported, duplicates, err := r.writer.SaveJobs(ctx, extracted.Jobs, result.SessionID, site)
		metrics.SiteStepDuration.WithLabelValues("save").Observe(time.Since(saveStart).Seconds())

		outcome.JobsImported = imported
		outcome.DuplicatesSkipped = duplicates
		if err != nil {
			siteError = err.Error()
		}
	}

	if siteError == "" {
		outcome.Status = entities.StatusCompleted
	} else {
		outcome.Status = entities.StatusFailed
		outcome.ErrorMessage = &siteError
	}

	if err := r.siteResults.MarkFinished(ctx, result.ID, outcome); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to mark site result %v finished: %v", result.ID, err)
	}

	return outcome
}

func (r *ImportRunner) fail(ctx context.Context, sessionID string, message string) {
	log.Warnf("session %v failed: %v", sessionID, message)
	if err := r.sessions.MarkFailed(ctx, sessionID, message); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to mark session %v failed: %v", sessionID, err)
	}
}

func (r *ImportRunner) publishSiteProcessed(sessionID string, siteID string, outcome repositories.SiteOutcome) {
	if r.bus == nil {
		return
	}

	event := events.SiteProcessed{
		SessionID:         sessionID,
		SiteID:            siteID,
		JobsFound:         outcome.JobsFound,
		JobsImported:      outcome.JobsImported,
		DuplicatesSkipped: outcome.DuplicatesSkipped,
	}
	if outcome.ErrorMessage != nil {
		event.Error = *outcome.ErrorMessage
	}
	r.bus.Publish(events.SiteProcessedTopic, event)
}

func (r *ImportRunner) publishSessionCompleted(sessionID string, totals repositories.SessionTotals, siteErrors []string) {
	if r.bus == nil {
		return
	}

	r.bus.Publish(events.SessionCompletedTopic, events.SessionCompleted{
		SessionID:         sessionID,
		JobsFound:         totals.JobsFound,
		JobsImported:      totals.JobsImported,
		DuplicatesSkipped: totals.DuplicatesSkipped,
		Errors:            siteErrors,
	})
}
