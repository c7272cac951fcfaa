package services

import (
	"context"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/logger"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type pendingSessionSource interface {
	GetPending(ctx context.Context) ([]entities.ImportSession, error)
}

type sessionRunner interface {
	Run(ctx context.Context, sessionID string, userAPIKey string) error
}

// SessionPoller picks up sessions that were created without an explicit
// trigger request. Pending sessions have no user-supplied key, so runs use
// the configured one.
type SessionPoller struct {
	sessions pendingSessionSource
	runner   sessionRunner
	cron     *cron.Cron
}

func NewSessionPoller(sessions pendingSessionSource, runner sessionRunner) *SessionPoller {
	return &SessionPoller{
		sessions: sessions,
		runner:   runner,
		cron:     cron.New(),
	}
}

func (p *SessionPoller) Start(ctx context.Context) error {

	_, err := p.cron.AddFunc("@every 1m", func() {
		p.pollOnce(ctx)
	})
	if err != nil {
		return err
	}

	p.cron.Start()
	log.Info("session poller started")
	return nil
}

func (p *SessionPoller) pollOnce(ctx context.Context) {

	pending, err := p.sessions.GetPending(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to load pending sessions: %v", err)
		return
	}

	for _, session := range pending {
		if err = p.runner.Run(ctx, session.ID, ""); err != nil {
			log.Errorf("failed to run session %v: %v", session.ID, err)
		}
	}
}

func (p *SessionPoller) Stop() {
	p.cron.Stop()
}
