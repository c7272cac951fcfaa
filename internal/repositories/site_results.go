package repositories

import (
	"context"
	"time"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"gorm.io/gorm"
)

type SiteResults struct {
	db *gorm.DB
}

func NewSiteResultsRepository(db *gorm.DB) *SiteResults {
	return &SiteResults{db: db}
}

// GetBySession returns the session's work items in store order; the runner
// deliberately applies no sort of its own.
func (repo *SiteResults) GetBySession(ctx context.Context, sessionID string) ([]entities.SiteResult, error) {

	var results []entities.SiteResult
	if err := repo.db.WithContext(ctx).
		Find(&results, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (repo *SiteResults) MarkRunning(ctx context.Context, id string, searchURL string) error {
	return repo.db.WithContext(ctx).Model(&entities.SiteResult{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     entities.StatusRunning,
			"started_at": time.Now().UTC(),
			"search_url": searchURL,
		}).Error
}

// SiteOutcome carries everything written when a site finishes, whichever way
// it finished.
type SiteOutcome struct {
	Status            entities.ImportStatus
	JobsFound         int
	JobsImported      int
	DuplicatesSkipped int
	ErrorMessage      *string
}

func (repo *SiteResults) MarkFinished(ctx context.Context, id string, outcome SiteOutcome) error {
	return repo.db.WithContext(ctx).Model(&entities.SiteResult{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":             outcome.Status,
			"jobs_found":         outcome.JobsFound,
			"jobs_imported":      outcome.JobsImported,
			"duplicates_skipped": outcome.DuplicatesSkipped,
			"error_message":      outcome.ErrorMessage,
			"completed_at":       time.Now().UTC(),
		}).Error
}
