package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/service"
)

func TestStartNotificationWorker(t *testing.T) {
	StartNotificationWorker(nil)

	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartNotificationWorker(service.NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventComplaintSubmitted, ComplaintID: 9}))
	assert.Equal(t, 1, logs.FilterMessage("ComplaintSubmitted").Len())
}
