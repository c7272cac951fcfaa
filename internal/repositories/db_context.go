package repositories

import (
	"fmt"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(entities.ImportSession{})
	if err != nil {
		return fmt.Errorf("failed to migrate ImportSession entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.SiteResult{})
	if err != nil {
		return fmt.Errorf("failed to migrate SiteResult entity: %w", err)
	}

	err = c.DB.AutoMigrate(entities.Job{})
	if err != nil {
		return fmt.Errorf("failed to migrate Job entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_jobs_url ON jobs (url); " +
		"CREATE INDEX IF NOT EXISTS idx_jobs_title_company ON jobs (title, company);").
		Error; err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
