package repositories

import (
	"context"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

func (repo *Jobs) ExistsByURL(ctx context.Context, url string) (bool, error) {

	var job entities.Job
	err := repo.db.WithContext(ctx).Select("id").
		Where("url = ?", url).
		First(&job).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (repo *Jobs) ExistsByTitleAndCompany(ctx context.Context, title string, company string) (bool, error) {

	var job entities.Job
	err := repo.db.WithContext(ctx).Select("id").
		Where("title = ? AND company = ?", title, company).
		First(&job).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (repo *Jobs) Create(ctx context.Context, job *entities.Job) error {
	return repo.db.WithContext(ctx).Create(job).Error
}
