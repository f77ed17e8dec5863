package events

import (
	"context"
	"errors"
	"testing"

	"badgehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversToExactAndPatternHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	var got []string
	record := func(id string) EventHandlerFunc {
		return EventHandlerFunc{ID: id, Func: func(ctx context.Context, e Event) error {
			got = append(got, id+":"+e.GetEventType())
			return nil
		}}
	}

	require.NoError(t, bus.Subscribe(BadgeCreatedEventType, record("exact")))
	require.NoError(t, bus.SubscribePattern("badge.*", record("prefix")))
	require.NoError(t, bus.SubscribePattern("*", record("all")))

	require.NoError(t, bus.Publish(context.Background(), NewBadgeCreatedEvent(models.Badge{ID: "1"})))
	assert.ElementsMatch(t, []string{
		"exact:badge.created",
		"prefix:badge.created",
		"all:badge.created",
	}, got)

	got = nil
	require.NoError(t, bus.Publish(context.Background(), NewWalletConnectedEvent("0xabc")))
	assert.Equal(t, []string{"all:wallet.connected"}, got)
}

func TestPublishReportsFailingAndPanickingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	require.NoError(t, bus.Subscribe(NotificationEventType, EventHandlerFunc{
		ID:   "fails",
		Func: func(ctx context.Context, e Event) error { return errors.New("boom") },
	}))
	require.NoError(t, bus.Subscribe(NotificationEventType, EventHandlerFunc{
		ID:   "panics",
		Func: func(ctx context.Context, e Event) error { panic("bad handler") },
	}))

	err := bus.Publish(context.Background(), NewNotificationEvent(NotificationInfo, "hi"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 out of 2")

	stats := bus.Stats()
	assert.Equal(t, int64(1), stats.EventsPublished)
	assert.Equal(t, int64(1), stats.EventsFailed)
	assert.Equal(t, 2, stats.HandlersCount)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil, zap.NewNop())

	calls := 0
	h := EventHandlerFunc{ID: "h", Func: func(ctx context.Context, e Event) error {
		calls++
		return nil
	}}

	require.NoError(t, bus.SubscribePattern("*", h))
	require.NoError(t, bus.Publish(context.Background(), NewWalletDisconnectedEvent("user")))
	require.NoError(t, bus.Unsubscribe("*", h))
	require.NoError(t, bus.Publish(context.Background(), NewWalletDisconnectedEvent("user")))

	assert.Equal(t, 1, calls)
	assert.Error(t, bus.Unsubscribe("*", h))
	assert.Equal(t, 0, bus.Stats().HandlersCount)
}

func TestPublishRejectsNilEvent(t *testing.T) {
	bus := NewInMemoryEventBus(nil, nil)
	assert.Error(t, bus.Publish(context.Background(), nil))
}

func TestMatchesPattern(t *testing.T) {
	assert.True(t, matchesPattern("badge.created", "*"))
	assert.True(t, matchesPattern("badge.created", "badge.*"))
	assert.True(t, matchesPattern("badge.created", "badge.created"))
	assert.False(t, matchesPattern("wallet.connected", "badge.*"))
	assert.False(t, matchesPattern("badge", "badge.*"))
}

func TestGenerateEventIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateEventID()
		require.False(t, seen[id])
		seen[id] = true
	}
}
