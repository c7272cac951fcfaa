package anthropic

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func Test_Messages_WhenModelRequestsTool_ShouldDecodeToolUseBlock(t *testing.T) {

	body := `{
		"content": [
			{"type": "text", "text": "Scrolling down."},
			{"type": "tool_use", "id": "toolu_1", "name": "computer",
			 "input": {"action": "scroll", "coordinate": [640, 400], "direction": "down", "amount": 3}}
		],
		"stop_reason": "tool_use"
	}`

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == apiURL &&
			req.Header.Get("x-api-key") == "test-key" &&
			req.Header.Get("anthropic-version") == apiVersion
	})).Return(jsonResponse(200, body), nil)

	client := NewClient("test-key", ModelSonnet4)
	client.SetHTTPClient(mockClient)

	resp, err := client.Messages(context.Background(), MessagesRequest{
		Tools:    []Tool{ComputerTool(1280, 800)},
		Messages: []Message{UserMessage(TextBlock("extract jobs"))},
	})

	assert.NoError(t, err)
	toolUse := resp.FirstToolUse()
	assert.NotNil(t, toolUse)
	assert.Equal(t, "toolu_1", toolUse.ID)
	assert.Equal(t, "scroll", toolUse.Input["action"])
	assert.Equal(t, "tool_use", resp.StopReason)
}

func Test_GenerateResponse_ShouldJoinTextBlocks(t *testing.T) {

	body := `{
		"content": [
			{"type": "text", "text": "hello "},
			{"type": "text", "text": "world"}
		],
		"stop_reason": "end_turn"
	}`

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(jsonResponse(200, body), nil)

	client := NewClient("test-key", ModelSonnet4)
	client.SetHTTPClient(mockClient)

	text, err := client.GenerateResponse(context.Background(), "say hello")

	assert.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func Test_Messages_WhenApiReturnsError_ShouldFail(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(jsonResponse(401, `{"error": "invalid api key"}`), nil)

	client := NewClient("bad-key", ModelSonnet4)
	client.SetHTTPClient(mockClient)

	_, err := client.Messages(context.Background(), MessagesRequest{
		Messages: []Message{UserMessage(TextBlock("hi"))},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func Test_Messages_WhenOverloaded_ShouldRetry(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(jsonResponse(529, `{"error": "overloaded"}`), nil).Once()
	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(200, `{"content": [{"type": "text", "text": "ok"}], "stop_reason": "end_turn"}`), nil).Once()

	client := NewClient("test-key", ModelSonnet4)
	client.SetHTTPClient(mockClient)

	resp, err := client.Messages(context.Background(), MessagesRequest{
		Messages: []Message{UserMessage(TextBlock("hi"))},
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", resp.JoinedText())
	mockClient.AssertExpectations(t)
}
