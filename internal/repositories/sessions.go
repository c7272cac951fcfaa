package repositories

import (
	"context"
	"time"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Sessions struct {
	db *gorm.DB
}

func NewSessionsRepository(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

func (repo *Sessions) GetByID(ctx context.Context, id string) (*entities.ImportSession, error) {

	var session entities.ImportSession
	err := repo.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (repo *Sessions) GetPending(ctx context.Context) ([]entities.ImportSession, error) {

	var sessions []entities.ImportSession
	if err := repo.db.WithContext(ctx).
		Find(&sessions, "status = ?", entities.StatusPending).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *Sessions) MarkRunning(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Model(&entities.ImportSession{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     entities.StatusRunning,
			"started_at": time.Now().UTC(),
		}).Error
}

func (repo *Sessions) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	return repo.db.WithContext(ctx).Model(&entities.ImportSession{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":        entities.StatusFailed,
			"error_message": errorMessage,
		}).Error
}

// SessionTotals carries the aggregate counters written on completion.
type SessionTotals struct {
	JobsFound         int
	JobsImported      int
	DuplicatesSkipped int
	ErrorMessage      *string
}

func (repo *Sessions) MarkCompleted(ctx context.Context, id string, totals SessionTotals) error {

	values := map[string]any{
		"status":                   entities.StatusCompleted,
		"total_jobs_found":         totals.JobsFound,
		"total_jobs_imported":      totals.JobsImported,
		"total_duplicates_skipped": totals.DuplicatesSkipped,
		"completed_at":             time.Now().UTC(),
		"error_message":            totals.ErrorMessage,
	}

	return repo.db.WithContext(ctx).Model(&entities.ImportSession{}).Where("id = ?", id).
		Updates(values).Error
}
