package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu        sync.Mutex
	sessionID string
	apiKey    string
	ran       chan struct{}
}

func newRecordingRunner() *recordingRunner {
	return &recordingRunner{ran: make(chan struct{})}
}

func (r *recordingRunner) Run(ctx context.Context, sessionID string, userAPIKey string) error {
	r.mu.Lock()
	r.sessionID = sessionID
	r.apiKey = userAPIKey
	r.mu.Unlock()
	close(r.ran)
	return nil
}

func Test_HandleHealth_ShouldReportServiceInfo(t *testing.T) {

	server := NewServer(0, newRecordingRunner())
	recorder := httptest.NewRecorder()

	server.handleHealth(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "remoteflow-import-worker", body["service"])
}

func Test_HandleImport_WhenSessionIdMissing_ShouldReturnBadRequest(t *testing.T) {

	server := NewServer(0, newRecordingRunner())
	recorder := httptest.NewRecorder()

	request := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(`{}`))
	server.handleImport(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "session_id is required", body["error"])
}

func Test_HandleImport_WhenMethodNotPost_ShouldReturnMethodNotAllowed(t *testing.T) {

	server := NewServer(0, newRecordingRunner())
	recorder := httptest.NewRecorder()

	server.handleImport(recorder, httptest.NewRequest(http.MethodGet, "/import", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func Test_HandleImport_ShouldRespondImmediatelyAndRunInBackground(t *testing.T) {

	runner := newRecordingRunner()
	server := NewServer(0, runner)
	recorder := httptest.NewRecorder()

	payload := `{"session_id": "s1", "anthropic_api_key": "sk-user-key"}`
	request := httptest.NewRequest(http.MethodPost, "/import", strings.NewReader(payload))
	server.handleImport(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "started", body["status"])
	assert.Equal(t, "s1", body["session_id"])
	assert.Equal(t, "Import worker spawned successfully", body["message"])

	select {
	case <-runner.ran:
	case <-time.After(time.Second):
		t.Fatal("runner was not invoked")
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, "s1", runner.sessionID)
	assert.Equal(t, "sk-user-key", runner.apiKey)
}
