package jobs_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/jobs"
	"marketplace/internal/pkg/logging"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionCanceller struct {
	mock.Mock
}

func (m *MockSessionCanceller) CancelAll() int {
	return m.Called().Int(0)
}

func TestJobManager_StopAllCancelsSessions(t *testing.T) {
	ticker := jobs.NewCronTicker(logging.Discard())
	sessions := new(MockSessionCanceller)
	sessions.On("CancelAll").Return(3).Once()

	manager := jobs.NewJobManager(ticker, sessions, logging.Discard())
	require.NoError(t, manager.StartAll())

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	manager.StopAll(ctx)

	sessions.AssertExpectations(t)
}

func TestJobManager_StopAllWaitsForRunningTicks(t *testing.T) {
	ticker := jobs.NewCronTicker(logging.Discard())
	sessions := new(MockSessionCanceller)
	sessions.On("CancelAll").Return(0).Once()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	_, err := ticker.Every(time.Second, func() {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})
	require.NoError(t, err)

	manager := jobs.NewJobManager(ticker, sessions, logging.Discard())
	require.NoError(t, manager.StartAll())

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("tick never started")
	}

	stopped := make(chan struct{})
	go func() {
		manager.StopAll(t.Context())
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("StopAll returned while a tick was running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("StopAll did not return")
	}
}
