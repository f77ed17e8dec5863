package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"badgehub/internal/models"
)

// Registrar performs the backing round-trip for badge registration and
// awards. The registry only mutates its list after the call returns nil.
type Registrar interface {
	Register(ctx context.Context, form models.BadgeCreationForm, creator string) error
	Award(ctx context.Context, badgeID, recipient string) error
}

// SimulatedRegistrar stands in for a real registration backend with fixed
// delays. Cancelling ctx aborts the wait with ctx.Err().
type SimulatedRegistrar struct {
	CreateDelay time.Duration
	AwardDelay  time.Duration
}

// NewSimulatedRegistrar returns a registrar with the given delays.
func NewSimulatedRegistrar(createDelay, awardDelay time.Duration) *SimulatedRegistrar {
	return &SimulatedRegistrar{CreateDelay: createDelay, AwardDelay: awardDelay}
}

func (r *SimulatedRegistrar) Register(ctx context.Context, form models.BadgeCreationForm, creator string) error {
	return sleepCtx(ctx, r.CreateDelay)
}

func (r *SimulatedRegistrar) Award(ctx context.Context, badgeID, recipient string) error {
	return sleepCtx(ctx, r.AwardDelay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IDGenerator hands out decimal Unix-millisecond ids. Ids are strictly
// increasing, so two calls in the same millisecond still differ.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator reading the given clock; nil means time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
