package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"badgehub/internal/events"
	"badgehub/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixedNow is the clock every service test runs against.
var fixedNow = time.Date(2024, time.January, 25, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// recorder captures every event published on a bus.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecorder(t *testing.T) (events.EventBus, *recorder) {
	t.Helper()
	bus := events.NewInMemoryEventBus(events.DefaultEventBusConfig(), zap.NewNop())
	rec := &recorder{}
	require.NoError(t, bus.SubscribePattern("*", events.EventHandlerFunc{
		ID: "recorder",
		Func: func(ctx context.Context, event events.Event) error {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.events = append(rec.events, event)
			return nil
		},
	}))
	return bus, rec
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.GetEventType())
	}
	return out
}

// notifications returns the messages of notification events at level.
func (r *recorder) notifications(level events.NotificationLevel) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if n, ok := e.(*events.NotificationEvent); ok && n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

// stubRegistrar answers with fixed errors, optionally waiting on gate first.
type stubRegistrar struct {
	mu          sync.Mutex
	registerErr error
	awardErr    error
	gate        chan struct{}
	registered  int
	awarded     int
}

func (r *stubRegistrar) wait(ctx context.Context) error {
	if r.gate == nil {
		return nil
	}
	select {
	case <-r.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *stubRegistrar) Register(ctx context.Context, form models.BadgeCreationForm, creator string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered++
	return r.registerErr
}

func (r *stubRegistrar) Award(ctx context.Context, badgeID, recipient string) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awarded++
	return r.awardErr
}

func (r *stubRegistrar) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registered, r.awarded
}

func validForm() *models.BadgeCreationForm {
	return &models.BadgeCreationForm{
		Name:        "Bug Hunter",
		Symbol:      "bug",
		Description: "Found a real bug",
		Criteria:    "Report a confirmed defect",
		Category:    models.CategorySkill,
		Rarity:      models.RarityEpic,
		MaxSupply:   100,
	}
}
