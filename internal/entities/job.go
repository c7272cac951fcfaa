package entities

import "time"

type JobType string

const (
	JobTypeFullTime  JobType = "full_time"
	JobTypePartTime  JobType = "part_time"
	JobTypeContract  JobType = "contract"
	JobTypeFreelance JobType = "freelance"
)

// RawJob is an untrusted listing as emitted by an extraction engine. It is
// never persisted; it exists only until normalization.
type RawJob struct {
	Title              string `json:"title"`
	Company            string `json:"company"`
	Location           string `json:"location"`
	Salary             string `json:"salary"`
	URL                string `json:"url"`
	PostedDate         string `json:"posted_date"`
	Description        string `json:"description"`
	DescriptionPreview string `json:"description_preview"`
	EmploymentType     string `json:"employment_type"`
	RemoteType         string `json:"remote_type"`
}

// Job is the canonical record written to the shared jobs store. The worker
// only ever inserts; existing rows are never updated or deleted here.
type Job struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"size:500"`
	Company         string `gorm:"size:255"`
	Description     string
	SalaryMin       *int
	SalaryMax       *int
	Currency        string
	JobType         JobType
	Timezone        *string
	TechStack       string
	ExperienceLevel string
	URL             string `gorm:"size:2000"`
	Source          string
	PostedDate      *time.Time
	FetchedAt       time.Time
	IsActive        bool
	CreatedAt       time.Time
}

func (Job) TableName() string {
	return "jobs"
}
