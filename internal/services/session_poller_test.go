package services

import (
	"context"
	"testing"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/stretchr/testify/mock"
)

type mockPendingSource struct {
	mock.Mock
}

func (m *mockPendingSource) GetPending(ctx context.Context) ([]entities.ImportSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ImportSession), args.Error(1)
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, sessionID string, userAPIKey string) error {
	return m.Called(ctx, sessionID, userAPIKey).Error(0)
}

func Test_PollOnce_WhenSessionsPending_ShouldRunEachWithoutUserKey(t *testing.T) {

	source := new(mockPendingSource)
	runner := new(mockRunner)

	source.On("GetPending", mock.Anything).Return([]entities.ImportSession{
		{ID: "s1", Status: entities.StatusPending},
		{ID: "s2", Status: entities.StatusPending},
	}, nil)
	runner.On("Run", mock.Anything, "s1", "").Return(nil)
	runner.On("Run", mock.Anything, "s2", "").Return(nil)

	poller := NewSessionPoller(source, runner)
	poller.pollOnce(context.Background())

	runner.AssertExpectations(t)
}

func Test_PollOnce_WhenLoadFails_ShouldNotRunAnything(t *testing.T) {

	source := new(mockPendingSource)
	runner := new(mockRunner)

	source.On("GetPending", mock.Anything).Return(nil, context.DeadlineExceeded)

	poller := NewSessionPoller(source, runner)
	poller.pollOnce(context.Background())

	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}
