package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestEventServiceLocalFanOut(t *testing.T) {
	svc := NewEventService(nil, nil, "melodia", zerolog.Nop())
	svc.Start(context.Background())

	stream, cleanup := svc.Subscribe()
	defer cleanup()

	svc.Publish(context.Background(), "course", EventUpdated, 7)

	select {
	case event := <-stream:
		require.Equal(t, "course", event.Resource)
		require.Equal(t, EventUpdated, event.Action)
		require.Equal(t, uint(7), event.EntityID)
		require.False(t, event.SentAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}
}

func TestEventServiceUnsubscribeStopsDelivery(t *testing.T) {
	svc := NewEventService(nil, nil, "melodia", zerolog.Nop())

	stream, cleanup := svc.Subscribe()
	cleanup()

	svc.Publish(context.Background(), "availability", EventDeleted, 4)

	select {
	case _, ok := <-stream:
		require.False(t, ok, "channel should be closed after unsubscribe")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("unsubscribed channel should be closed")
	}
}

func TestEventServiceSlowSubscriberDoesNotBlock(t *testing.T) {
	svc := NewEventService(nil, nil, "melodia", zerolog.Nop())

	_, cleanup := svc.Subscribe()
	defer cleanup()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < eventBufferSize*2; i++ {
			svc.Publish(context.Background(), "course", EventUpdated, uint(i+1))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish should drop events for slow subscribers instead of blocking")
	}
}
