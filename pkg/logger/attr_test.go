package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("event", slog.String("type", "task.created"), slog.Int("n", 2))
	require.Equal(t, "event", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "type", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{"user id", logger.UserID("u1"), "user_id", "u1"},
		{"event type", logger.EventType("task.created"), "event_type", "task.created"},
		{"channel", logger.Channel("email"), "channel", "email"},
		{"notification id", logger.NotificationID("n1"), "notification_id", "n1"},
		{"message id", logger.MessageID("m1"), "message_id", "m1"},
		{"reason", logger.Reason("cooldown"), "reason", "cooldown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	t.Run("empty ids produce empty attrs", func(t *testing.T) {
		assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))
		assert.True(t, logger.NotificationID("").Equal(slog.Attr{}))
		assert.True(t, logger.MessageID("").Equal(slog.Attr{}))
	})
}
