package notifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Fender1992/RemoteFlow/internal/events"
	"github.com/Fender1992/RemoteFlow/internal/logger"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

type sender interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// Telegram posts a short summary to one chat whenever a session finishes.
type Telegram struct {
	api    sender
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	notifier := &Telegram{api: api, chatID: chatID}

	if err = bus.Subscribe(events.SessionCompletedTopic, notifier.onSessionCompleted); err != nil {
		return nil, err
	}
	return notifier, nil
}

func (t *Telegram) onSessionCompleted(event events.SessionCompleted) {
	msg := botApi.NewMessage(t.chatID, formatSummary(event))
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occured while sending message: %v", err)
	}
}

func formatSummary(event events.SessionCompleted) string {

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Import session %v finished\n", event.SessionID))
	sb.WriteString(fmt.Sprintf("Found: %d, imported: %d, duplicates: %d",
		event.JobsFound, event.JobsImported, event.DuplicatesSkipped))

	if len(event.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		sb.WriteString(strings.Join(event.Errors, "\n"))
	}
	return sb.String()
}
