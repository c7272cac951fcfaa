package extraction

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Fender1992/RemoteFlow/internal/browser"
	"github.com/Fender1992/RemoteFlow/internal/clients/anthropic"
	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/logger"
	"github.com/Fender1992/RemoteFlow/internal/sites"
	log "github.com/sirupsen/logrus"
)

const (
	maxIterations = 10
	captureDelay  = 500 * time.Millisecond
)

type pageSession interface {
	Navigate(url string) error
	Screenshot() ([]byte, error)
	Perform(input map[string]any) string
	Close()
}

type messagesClient interface {
	Messages(ctx context.Context, request anthropic.MessagesRequest) (*anthropic.MessagesResponse, error)
}

// InteractiveExtractor drives a real headless browser and a vision/tool-use
// model: observe a screenshot, execute the requested action, repeat until the
// model answers in plain text or the iteration bound is reached.
type InteractiveExtractor struct {
	client      messagesClient
	openSession func() (pageSession, error)
	configs     map[sites.Site]sites.Config
}

func NewInteractiveExtractor(client *anthropic.Client, launcher *browser.Launcher,
	configs map[sites.Site]sites.Config) *InteractiveExtractor {

	return &InteractiveExtractor{
		client: client,
		openSession: func() (pageSession, error) {
			return launcher.OpenSession()
		},
		configs: configs,
	}
}

func (e *InteractiveExtractor) Extract(ctx context.Context, site sites.Site,
	params entities.SearchParams, maxJobs int) Result {

	searchURL := sites.BuildSearchURL(site, params)
	if searchURL == "" {
		return Result{Jobs: []entities.RawJob{}, Error: fmt.Sprintf("Unknown site: %v", site)}
	}

	session, err := e.openSession()
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBrowser).
			Errorf("failed to open browser session for %v: %v", site, err)
		return Result{Jobs: []entities.RawJob{}, Error: err.Error(), SearchURL: searchURL}
	}
	defer session.Close()

	log.Infof("[%v] navigating to %v", site, searchURL)

	if err = session.Navigate(searchURL); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBrowser).
			Errorf("navigation failed for %v: %v", site, err)
		return Result{Jobs: []entities.RawJob{}, Error: err.Error(), SearchURL: searchURL}
	}

	screenshot, err := session.Screenshot()
	if err != nil {
		return Result{Jobs: []entities.RawJob{}, Error: err.Error(), SearchURL: searchURL}
	}

	prompt := e.buildExtractionPrompt(site, params, searchURL, maxJobs)
	messages := []anthropic.Message{
		anthropic.UserMessage(
			anthropic.ImageBlock(base64.StdEncoding.EncodeToString(screenshot)),
			anthropic.TextBlock(prompt),
		),
	}

	tools := []anthropic.Tool{anthropic.ComputerTool(browser.ViewportWidth, browser.ViewportHeight)}

	for iteration := 1; iteration <= maxIterations; iteration++ {

		log.Infof("[%v] extraction iteration %d", site, iteration)

		response, err := e.client.Messages(ctx, anthropic.MessagesRequest{
			Tools:    tools,
			Messages: messages,
		})
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
				Errorf("model call failed for %v: %v", site, err)
			return e.fallback(ctx, session, site, searchURL)
		}

		toolUse := response.FirstToolUse()
		if toolUse == nil {
			result := resultFrom(ParseModelResponse(response.JoinedText()))
			result.SearchURL = searchURL
			return result
		}

		actionResult := session.Perform(toolUse.Input)
		log.Infof("[%v] action %v -> %v", site, toolUse.Input["action"], actionResult)

		time.Sleep(captureDelay)
		screenshot, err = session.Screenshot()
		if err != nil {
			return Result{Jobs: []entities.RawJob{}, Error: err.Error(), SearchURL: searchURL}
		}

		messages = append(messages,
			anthropic.AssistantMessage(response.Content),
			anthropic.UserMessage(anthropic.ToolResultBlock(toolUse.ID, []anthropic.ContentBlock{
				anthropic.ImageBlock(base64.StdEncoding.EncodeToString(screenshot)),
				anthropic.TextBlock(actionResult),
			})),
		)
	}

	return Result{Jobs: []entities.RawJob{}, Error: "Max iterations reached", SearchURL: searchURL}
}

// fallback asks for a single non-interactive extraction of whatever the page
// currently shows. Used when the tool-use conversation itself errors out.
func (e *InteractiveExtractor) fallback(ctx context.Context, session pageSession,
	site sites.Site, searchURL string) Result {

	screenshot, err := session.Screenshot()
	if err != nil {
		return Result{Jobs: []entities.RawJob{}, Error: fmt.Sprintf("Fallback failed: %v", err), SearchURL: searchURL}
	}

	prompt := fmt.Sprintf(`Look at this job board screenshot and extract all visible job listings.

For each job, extract:
- title: Job title
- company: Company name
- location: Location
- salary: Salary if visible
- url: Placeholder URL

Return as JSON:
{"jobs": [{"title": "...", "company": "...", "location": "...", "salary": "...", "url": "https://%v.com/job/..."}]}`, site)

	response, err := e.client.Messages(ctx, anthropic.MessagesRequest{
		Messages: []anthropic.Message{
			anthropic.UserMessage(
				anthropic.ImageBlock(base64.StdEncoding.EncodeToString(screenshot)),
				anthropic.TextBlock(prompt),
			),
		},
	})
	if err != nil {
		return Result{Jobs: []entities.RawJob{}, Error: fmt.Sprintf("Fallback failed: %v", err), SearchURL: searchURL}
	}

	result := resultFrom(ParseModelResponse(response.JoinedText()))
	result.SearchURL = searchURL
	return result
}

func (e *InteractiveExtractor) buildExtractionPrompt(site sites.Site, params entities.SearchParams,
	searchURL string, maxJobs int) string {

	config := e.configs[site]
	name := config.Name
	if name == "" {
		name = string(site)
	}

	return fmt.Sprintf(`You are browsing %v to find job listings.

Current search: %v
URL: %v

%v

TASK: Extract job listings visible on this page. For each job, extract:
- title: Job title
- company: Company name
- location: Location (e.g., "Remote", "San Francisco, CA")
- salary: Salary if shown (e.g., "$120,000 - $150,000/year")
- url: The job URL if visible, otherwise use a placeholder

Look at the screenshot and:
1. If there are modals/popups blocking the view, use computer actions to dismiss them (click X or Close)
2. If you need to scroll to see more jobs, scroll down
3. Extract all visible job listings
4. Stop when you have extracted %d jobs or no more are visible

When you have finished extracting jobs OR after 3 scroll attempts with no new jobs, respond with the final JSON output:

`+"```json"+`
{
  "jobs": [
    {"title": "...", "company": "...", "location": "...", "salary": "...", "url": "..."}
  ],
  "metadata": {
    "site": "%v",
    "total_found": <number>
  }
}
`+"```", name, strings.Join(params.Roles, ", "), searchURL, config.SystemPrompt, maxJobs, site)
}
