package memory

import (
	"context"
	"testing"
	"time"

	"prolearn/internal/core/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationQueue_RoundTrip(t *testing.T) {
	q := NewNotificationQueue(1)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, &notification.Event{Type: notification.TypeFollow}))
	assert.ErrorIs(t, q.Enqueue(ctx, &notification.Event{}), ErrQueueFull)

	ev, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, notification.TypeFollow, ev.Type)

	ev, err = q.Dequeue(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestNotificationQueue_ContextCancel(t *testing.T) {
	q := NewNotificationQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
