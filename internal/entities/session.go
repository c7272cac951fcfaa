package entities

import "time"

type ImportStatus string

const (
	StatusPending   ImportStatus = "pending"
	StatusRunning   ImportStatus = "running"
	StatusCompleted ImportStatus = "completed"
	StatusFailed    ImportStatus = "failed"
)

// ImportSession is one user-initiated import run. Created externally in
// pending state; the import runner owns all further transitions.
type ImportSession struct {
	ID                     string `gorm:"primaryKey"`
	Status                 ImportStatus
	SearchParams           string // JSON, sometimes double-encoded by the caller
	StartedAt              *time.Time
	CompletedAt            *time.Time
	TotalJobsFound         int
	TotalJobsImported      int
	TotalDuplicatesSkipped int
	ErrorMessage           *string
	CreatedAt              time.Time
}

func (ImportSession) TableName() string {
	return "import_sessions"
}

// SiteResult is one site's work item within a session, pre-created per
// enabled site before the session is picked up.
type SiteResult struct {
	ID                string `gorm:"primaryKey"`
	SessionID         string `gorm:"index"`
	SiteID            string
	Status            ImportStatus
	SearchURL         string
	JobsFound         int
	JobsImported      int
	DuplicatesSkipped int
	ErrorMessage      *string
	StartedAt         *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
}

func (SiteResult) TableName() string {
	return "import_site_results"
}
