package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"

	defaultMaxTokens = 4096
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	apiKey            string
	model             Model
	httpClient        HTTPClient
	minuteRateLimiter *rate.Limiter
}

func NewClient(apiKey string, model Model) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

// Messages sends one turn of a conversation, retrying briefly when the API
// reports overload.
func (c *Client) Messages(ctx context.Context, request MessagesRequest) (*MessagesResponse, error) {

	if request.Model == "" {
		request.Model = c.model
	}
	if request.MaxTokens == 0 {
		request.MaxTokens = defaultMaxTokens
	}

	var resp *MessagesResponse
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("anthropic api overloaded, retrying...")
		}
		resp, err = c.waitAndSendMessages(ctx, request)
		return err, isOverloaded(err)
	})

	return resp, err
}

// GenerateResponse sends a single text prompt and returns the text of the
// answer. This is the text-only surface the generative strategy uses.
func (c *Client) GenerateResponse(ctx context.Context, text string) (string, error) {

	response, err := c.Messages(ctx, MessagesRequest{
		Messages: []Message{UserMessage(TextBlock(text))},
	})
	if err != nil {
		return "", err
	}

	joined := response.JoinedText()
	if joined == "" {
		return "", fmt.Errorf("response contains no text")
	}
	return joined, nil
}

func (c *Client) waitAndSendMessages(ctx context.Context, request MessagesRequest) (*MessagesResponse, error) {

	if c.minuteRateLimiter != nil {
		if err := c.minuteRateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := c.handleResponse(resp)
	if err != nil {
		return nil, err
	}

	var messagesResponse MessagesResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&messagesResponse); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return &messagesResponse, nil
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}

func isOverloaded(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "status 529") || strings.Contains(err.Error(), "status 500")
}
