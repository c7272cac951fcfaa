package events

var SessionCompletedTopic = "SessionCompletedEvent"

type SessionCompleted struct {
	SessionID         string
	JobsFound         int
	JobsImported      int
	DuplicatesSkipped int
	Errors            []string
}

var SiteProcessedTopic = "SiteProcessedEvent"

type SiteProcessed struct {
	SessionID         string
	SiteID            string
	JobsFound         int
	JobsImported      int
	DuplicatesSkipped int
	Error             string
}
