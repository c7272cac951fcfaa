package notifier

import (
	"testing"

	"github.com/Fender1992/RemoteFlow/internal/events"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(chattable botApi.Chattable) (botApi.Message, error) {
	args := m.Called(chattable)
	return args.Get(0).(botApi.Message), args.Error(1)
}

func Test_OnSessionCompleted_ShouldSendSummaryToConfiguredChat(t *testing.T) {

	api := new(mockSender)
	api.On("Send", mock.Anything).Return(botApi.Message{}, nil)

	notifier := &Telegram{api: api, chatID: 42}
	notifier.onSessionCompleted(events.SessionCompleted{
		SessionID:         "s1",
		JobsFound:         5,
		JobsImported:      3,
		DuplicatesSkipped: 2,
	})

	require.Len(t, api.Calls, 1)
	msg, ok := api.Calls[0].Arguments.Get(0).(botApi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Found: 5, imported: 3, duplicates: 2")
}

func Test_FormatSummary_WhenErrorsPresent_ShouldListThem(t *testing.T) {

	text := formatSummary(events.SessionCompleted{
		SessionID: "s1",
		Errors:    []string{"indeed: Max iterations reached"},
	})

	assert.Contains(t, text, "Errors:")
	assert.Contains(t, text, "indeed: Max iterations reached")
}
