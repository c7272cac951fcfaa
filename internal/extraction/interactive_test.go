package extraction

import (
	"context"
	"testing"

	"github.com/Fender1992/RemoteFlow/internal/clients/anthropic"
	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/sites"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSession struct {
	mock.Mock
}

func (m *mockSession) Navigate(url string) error {
	return m.Called(url).Error(0)
}

func (m *mockSession) Screenshot() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockSession) Perform(input map[string]any) string {
	return m.Called(input).String(0)
}

func (m *mockSession) Close() {
	m.Called()
}

type mockMessagesClient struct {
	mock.Mock
}

func (m *mockMessagesClient) Messages(ctx context.Context, request anthropic.MessagesRequest) (*anthropic.MessagesResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessagesResponse), args.Error(1)
}

func newTestExtractor(client messagesClient, session pageSession) *InteractiveExtractor {
	return &InteractiveExtractor{
		client:      client,
		openSession: func() (pageSession, error) { return session, nil },
		configs:     sites.DefaultConfigs(),
	}
}

func remoteParams() entities.SearchParams {
	return entities.SearchParams{Roles: []string{"python developer"}, Location: "Remote"}
}

func textResponse(text string) *anthropic.MessagesResponse {
	return &anthropic.MessagesResponse{
		Content:    []anthropic.ContentBlock{anthropic.TextBlock(text)},
		StopReason: "end_turn",
	}
}

func toolUseResponse(id string, input map[string]any) *anthropic.MessagesResponse {
	return &anthropic.MessagesResponse{
		Content: []anthropic.ContentBlock{
			{Type: "tool_use", ID: id, Name: "computer", Input: input},
		},
		StopReason: "tool_use",
	}
}

func Test_InteractiveExtract_WhenModelAnswersAfterOneAction_ShouldReturnJobs(t *testing.T) {

	session := &mockSession{}
	session.On("Navigate", mock.Anything).Return(nil)
	session.On("Screenshot").Return([]byte("png"), nil)
	session.On("Perform", mock.Anything).Return("Scrolled down by 3 units")
	session.On("Close").Return()

	client := &mockMessagesClient{}
	client.On("Messages", mock.Anything, mock.Anything).
		Return(toolUseResponse("toolu_1", map[string]any{"action": "scroll"}), nil).Once()
	client.On("Messages", mock.Anything, mock.Anything).
		Return(textResponse("```json\n{\"jobs\": [{\"title\": \"Python Developer\", \"company\": \"Acme\", \"url\": \"https://example.com/1\"}]}\n```"), nil).Once()

	extractor := newTestExtractor(client, session)
	result := extractor.Extract(context.Background(), sites.LinkedIn, remoteParams(), 25)

	assert.Empty(t, result.Error)
	assert.Len(t, result.Jobs, 1)
	assert.Equal(t, "Python Developer", result.Jobs[0].Title)
	assert.Contains(t, result.SearchURL, "linkedin.com")
	session.AssertCalled(t, "Close")
	client.AssertExpectations(t)
}

func Test_InteractiveExtract_WhenIterationBoundExhausted_ShouldReportMaxIterations(t *testing.T) {

	session := &mockSession{}
	session.On("Navigate", mock.Anything).Return(nil)
	session.On("Screenshot").Return([]byte("png"), nil)
	session.On("Perform", mock.Anything).Return("Scrolled down by 3 units")
	session.On("Close").Return()

	client := &mockMessagesClient{}
	client.On("Messages", mock.Anything, mock.Anything).
		Return(toolUseResponse("toolu_n", map[string]any{"action": "scroll"}), nil)

	extractor := newTestExtractor(client, session)
	result := extractor.Extract(context.Background(), sites.Indeed, remoteParams(), 25)

	assert.Equal(t, "Max iterations reached", result.Error)
	assert.Empty(t, result.Jobs)
	assert.Contains(t, result.SearchURL, "indeed.com")
	client.AssertNumberOfCalls(t, "Messages", maxIterations)
	session.AssertCalled(t, "Close")
}

func Test_InteractiveExtract_WhenModelCallFails_ShouldFallBackToVisionExtraction(t *testing.T) {

	session := &mockSession{}
	session.On("Navigate", mock.Anything).Return(nil)
	session.On("Screenshot").Return([]byte("png"), nil)
	session.On("Close").Return()

	client := &mockMessagesClient{}
	client.On("Messages", mock.Anything, mock.MatchedBy(func(req anthropic.MessagesRequest) bool {
		return len(req.Tools) > 0
	})).Return(nil, errors.New("api unreachable"))
	client.On("Messages", mock.Anything, mock.MatchedBy(func(req anthropic.MessagesRequest) bool {
		return len(req.Tools) == 0
	})).Return(textResponse(`{"jobs": [{"title": "Fallback Job", "company": "Acme", "url": "https://glassdoor.com/job/1"}]}`), nil)

	extractor := newTestExtractor(client, session)
	result := extractor.Extract(context.Background(), sites.Glassdoor, remoteParams(), 20)

	assert.Empty(t, result.Error)
	assert.Len(t, result.Jobs, 1)
	assert.Equal(t, "Fallback Job", result.Jobs[0].Title)
	assert.Contains(t, result.SearchURL, "glassdoor.com")
	session.AssertCalled(t, "Close")
}

func Test_InteractiveExtract_UnknownSite_ShouldFailWithoutOpeningBrowser(t *testing.T) {

	client := &mockMessagesClient{}

	extractor := &InteractiveExtractor{
		client: client,
		openSession: func() (pageSession, error) {
			t.Fatal("browser must not be opened for an unknown site")
			return nil, nil
		},
		configs: sites.DefaultConfigs(),
	}

	result := extractor.Extract(context.Background(), sites.Site("unknown_site"), remoteParams(), 10)

	assert.Contains(t, result.Error, "Unknown site")
	assert.Empty(t, result.SearchURL)
}

func Test_InteractiveExtract_WhenNavigationFails_ShouldReturnErrorWithSearchURL(t *testing.T) {

	session := &mockSession{}
	session.On("Navigate", mock.Anything).Return(errors.New("navigation failed: timeout"))
	session.On("Close").Return()

	client := &mockMessagesClient{}

	extractor := newTestExtractor(client, session)
	result := extractor.Extract(context.Background(), sites.Dice, remoteParams(), 25)

	assert.Contains(t, result.Error, "timeout")
	assert.Contains(t, result.SearchURL, "dice.com")
	session.AssertCalled(t, "Close")
	client.AssertNotCalled(t, "Messages", mock.Anything, mock.Anything)
}
