package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/extraction"
	"github.com/Fender1992/RemoteFlow/internal/repositories"
	"github.com/Fender1992/RemoteFlow/internal/services"
	"github.com/Fender1992/RemoteFlow/internal/sites"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchParamsJSON = `{"roles":["golang developer"],"location":"Remote"}`

func clearDb() {
	dbCtx.DB.Exec("DELETE from jobs WHERE TRUE")
	dbCtx.DB.Exec("DELETE from import_site_results WHERE TRUE")
	dbCtx.DB.Exec("DELETE from import_sessions WHERE TRUE")
}

func seedSession(t *testing.T, sessionID string, siteIDs ...sites.Site) {
	t.Helper()

	session := entities.ImportSession{
		ID:           sessionID,
		Status:       entities.StatusPending,
		SearchParams: searchParamsJSON,
	}
	require.NoError(t, dbCtx.DB.Create(&session).Error)

	for i, siteID := range siteIDs {
		result := entities.SiteResult{
			ID:        fmt.Sprintf("%v-r%d", sessionID, i+1),
			SessionID: sessionID,
			SiteID:    string(siteID),
			Status:    entities.StatusPending,
		}
		require.NoError(t, dbCtx.DB.Create(&result).Error)
	}
}

func newRunner(extractor extraction.Extractor) *services.ImportRunner {

	sessions := repositories.NewSessionsRepository(dbCtx.DB)
	siteResults := repositories.NewSiteResultsRepository(dbCtx.DB)
	writer := services.NewJobWriter(repositories.NewJobsRepository(dbCtx.DB))

	return services.NewImportRunner(sessions, siteResults, writer,
		staticFactory(extractor), sites.DefaultConfigs(), "sk-test-key", nil)
}

func Test_ImportSession_EndToEnd(t *testing.T) {

	defer clearDb()

	seedSession(t, "it-s1", sites.LinkedIn, sites.Indeed)

	extractor := mockExtractor{results: map[sites.Site]extraction.Result{
		sites.LinkedIn: {Jobs: []entities.RawJob{
			{Title: "Go Developer", Company: "Acme", URL: "https://li/1", Salary: "$120k - $150k"},
			{Title: "Backend Engineer", Company: "Initech", URL: "https://li/2"},
		}},
		sites.Indeed: {Jobs: []entities.RawJob{}, Error: "Max iterations reached"},
	}}

	err := newRunner(extractor).Run(context.Background(), "it-s1", "")
	require.NoError(t, err)

	sessions := repositories.NewSessionsRepository(dbCtx.DB)
	session, err := sessions.GetByID(context.Background(), "it-s1")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, entities.StatusCompleted, session.Status)
	assert.Equal(t, 2, session.TotalJobsFound)
	assert.Equal(t, 2, session.TotalJobsImported)
	assert.Equal(t, 0, session.TotalDuplicatesSkipped)
	require.NotNil(t, session.ErrorMessage)
	assert.Equal(t, "indeed: Max iterations reached", *session.ErrorMessage)
	assert.NotNil(t, session.StartedAt)
	assert.NotNil(t, session.CompletedAt)

	siteResults := repositories.NewSiteResultsRepository(dbCtx.DB)
	results, err := siteResults.GetBySession(context.Background(), "it-s1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[string]entities.SiteResult{}
	for _, result := range results {
		byID[result.SiteID] = result
	}

	linkedin := byID[string(sites.LinkedIn)]
	assert.Equal(t, entities.StatusCompleted, linkedin.Status)
	assert.Equal(t, 2, linkedin.JobsFound)
	assert.Equal(t, 2, linkedin.JobsImported)
	assert.Contains(t, linkedin.SearchURL, "linkedin.com/jobs/search")

	indeed := byID[string(sites.Indeed)]
	assert.Equal(t, entities.StatusFailed, indeed.Status)
	require.NotNil(t, indeed.ErrorMessage)
	assert.Equal(t, "Max iterations reached", *indeed.ErrorMessage)
}

func Test_ImportSession_Rerun_DuplicatesAreSkipped(t *testing.T) {

	defer clearDb()

	seedSession(t, "it-s1", sites.Dice)
	seedSession(t, "it-s2", sites.Dice)

	extractor := mockExtractor{results: map[sites.Site]extraction.Result{
		sites.Dice: {Jobs: []entities.RawJob{
			{Title: "SRE", Company: "Hooli", URL: "https://dice/1"},
			{Title: "Platform Engineer", Company: "Hooli", URL: "https://dice/2"},
		}},
	}}

	require.NoError(t, newRunner(extractor).Run(context.Background(), "it-s1", ""))
	require.NoError(t, newRunner(extractor).Run(context.Background(), "it-s2", ""))

	sessions := repositories.NewSessionsRepository(dbCtx.DB)

	first, err := sessions.GetByID(context.Background(), "it-s1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalJobsImported)
	assert.Equal(t, 0, first.TotalDuplicatesSkipped)

	second, err := sessions.GetByID(context.Background(), "it-s2")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, second.Status)
	assert.Equal(t, 0, second.TotalJobsImported)
	assert.Equal(t, 2, second.TotalDuplicatesSkipped)
	assert.Nil(t, second.ErrorMessage)

	var count int64
	dbCtx.DB.Model(&entities.Job{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
