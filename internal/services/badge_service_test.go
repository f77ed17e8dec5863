package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"badgehub/internal/events"
	"badgehub/internal/models"
	"badgehub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const creator = "0xAbC0000000000000000000000000000000000001"

func newTestBadgeService(t *testing.T, registrar Registrar, strict bool) (BadgeService, repositories.BadgeRepository, *recorder) {
	t.Helper()
	repo, err := repositories.NewMemoryBadgeRepository(repositories.DefaultSeedBadges(), zap.NewNop())
	require.NoError(t, err)
	if registrar == nil {
		registrar = &stubRegistrar{}
	}
	bus, rec := newRecorder(t)
	svc := NewBadgeService(repo, registrar, bus, zap.NewNop(), &BadgeServiceConfig{
		StrictAward: strict,
		Clock:       fixedClock,
	})
	return svc, repo, rec
}

func TestInitialStateIsSeeded(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, nil, false)

	state, err := svc.State(context.Background())
	require.NoError(t, err)

	require.Len(t, state.Badges, 3)
	assert.Equal(t, "1", state.Badges[0].ID)
	assert.Equal(t, "Web3 Pioneer", state.Badges[0].Name)
	assert.False(t, state.IsLoading)
	assert.Nil(t, state.Error)
}

func TestCreateBadgePrependsWithZeroRecipients(t *testing.T) {
	svc, _, rec := newTestBadgeService(t, nil, false)
	ctx := context.Background()

	badge, err := svc.CreateBadge(ctx, validForm(), creator)
	require.NoError(t, err)

	assert.Equal(t, "BUG", badge.Symbol)
	assert.Equal(t, creator, badge.Creator)
	assert.Equal(t, "2024-01-25", badge.CreatedAt)
	assert.Zero(t, badge.Recipients)
	assert.NotEmpty(t, badge.ID)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Badges, 4)
	assert.Equal(t, badge.ID, state.Badges[0].ID)
	assert.Equal(t, "1", state.Badges[1].ID)

	assert.Contains(t, rec.types(), events.BadgeCreatedEventType)
	assert.Equal(t, []string{msgBadgeCreated}, rec.notifications(events.NotificationSuccess))
}

func TestCreateBadgeDateIsUTC(t *testing.T) {
	repo, err := repositories.NewMemoryBadgeRepository(nil, zap.NewNop())
	require.NoError(t, err)

	// 23:30 on the 24th in UTC-5 is already the 25th in UTC.
	eastern := time.FixedZone("UTC-5", -5*60*60)
	clock := func() time.Time { return time.Date(2024, time.January, 24, 23, 30, 0, 0, eastern) }
	svc := NewBadgeService(repo, &stubRegistrar{}, nil, zap.NewNop(), &BadgeServiceConfig{Clock: clock})

	badge, err := svc.CreateBadge(context.Background(), validForm(), creator)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-25", badge.CreatedAt)
}

func TestCreateBadgeTwiceYieldsDistinctIDs(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, nil, false)
	ctx := context.Background()

	first, err := svc.CreateBadge(ctx, validForm(), creator)
	require.NoError(t, err)
	second, err := svc.CreateBadge(ctx, validForm(), creator)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Badges, 5)
	assert.Equal(t, second.ID, state.Badges[0].ID)
	assert.Equal(t, first.ID, state.Badges[1].ID)
}

func TestCreateBadgeRejectsInvalidInput(t *testing.T) {
	registrar := &stubRegistrar{}
	svc, _, _ := newTestBadgeService(t, registrar, false)
	ctx := context.Background()

	tests := []struct {
		name    string
		form    *models.BadgeCreationForm
		creator string
	}{
		{"nil form", nil, creator},
		{"missing name", func() *models.BadgeCreationForm { f := validForm(); f.Name = "  "; return f }(), creator},
		{"unknown rarity", func() *models.BadgeCreationForm { f := validForm(); f.Rarity = "Mythic"; return f }(), creator},
		{"zero supply", func() *models.BadgeCreationForm { f := validForm(); f.MaxSupply = 0; return f }(), creator},
		{"no creator", validForm(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBadge(ctx, tt.form, tt.creator)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}

	registered, _ := registrar.counts()
	assert.Zero(t, registered)
}

func TestCreateBadgeRegistrationFailureLeavesListUnchanged(t *testing.T) {
	registrar := &stubRegistrar{registerErr: errors.New("registry contract reverted")}
	svc, _, rec := newTestBadgeService(t, registrar, false)
	ctx := context.Background()

	_, err := svc.CreateBadge(ctx, validForm(), creator)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegistration)

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Badges, 3)
	assert.False(t, state.IsLoading)
	require.NotNil(t, state.Error)
	assert.Equal(t, "registry contract reverted", *state.Error)
	assert.Equal(t, []string{"registry contract reverted"}, rec.notifications(events.NotificationError))

	// The next operation clears the error.
	registrar.mu.Lock()
	registrar.registerErr = nil
	registrar.mu.Unlock()

	_, err = svc.CreateBadge(ctx, validForm(), creator)
	require.NoError(t, err)
	state, err = svc.State(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.Error)
}

func TestCreateBadgeCanceledContext(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, NewSimulatedRegistrar(time.Hour, time.Hour), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateBadge(ctx, validForm(), creator)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	state, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Badges, 3)
}

func TestStateIsLoadingWhileInFlight(t *testing.T) {
	registrar := &stubRegistrar{gate: make(chan struct{})}
	svc, _, _ := newTestBadgeService(t, registrar, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.CreateBadge(ctx, validForm(), creator)
		assert.NoError(t, err)
	}()

	assert.Eventually(t, func() bool {
		state, err := svc.State(ctx)
		return err == nil && state.IsLoading
	}, time.Second, 5*time.Millisecond)

	close(registrar.gate)
	wg.Wait()

	state, err := svc.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsLoading)
	assert.Len(t, state.Badges, 4)
}

func TestAwardBadgeIncrementsOnlyTarget(t *testing.T) {
	svc, _, rec := newTestBadgeService(t, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.AwardBadge(ctx, "2", "0xrecipient"))

	state, err := svc.State(ctx)
	require.NoError(t, err)
	byID := map[string]int{}
	for _, b := range state.Badges {
		byID[b.ID] = b.Recipients
	}
	assert.Equal(t, map[string]int{"1": 125, "2": 46, "3": 89}, byID)

	assert.Contains(t, rec.types(), events.BadgeAwardedEventType)
	assert.Equal(t, []string{msgBadgeAwarded}, rec.notifications(events.NotificationSuccess))
}

func TestAwardUnknownBadge(t *testing.T) {
	ctx := context.Background()

	t.Run("lenient", func(t *testing.T) {
		svc, _, _ := newTestBadgeService(t, nil, false)
		require.NoError(t, svc.AwardBadge(ctx, "missing", "0xrecipient"))

		state, err := svc.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, 125, state.Badges[0].Recipients)
		assert.Nil(t, state.Error)
	})

	t.Run("strict", func(t *testing.T) {
		svc, _, _ := newTestBadgeService(t, nil, true)
		err := svc.AwardBadge(ctx, "missing", "0xrecipient")
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))

		state, err := svc.State(ctx)
		require.NoError(t, err)
		require.NotNil(t, state.Error)
	})
}

func TestAwardBadgeFailure(t *testing.T) {
	registrar := &stubRegistrar{awardErr: errors.New("user rejected")}
	svc, _, rec := newTestBadgeService(t, registrar, false)
	ctx := context.Background()

	err := svc.AwardBadge(ctx, "1", "0xrecipient")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAward)

	badge, err := svc.GetBadge(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 125, badge.Recipients)
	assert.Equal(t, []string{"user rejected"}, rec.notifications(events.NotificationError))
}

func TestAwardBadgeRequiresInputs(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, nil, false)
	ctx := context.Background()

	assert.True(t, IsValidationError(svc.AwardBadge(ctx, "", "0xrecipient")))
	assert.True(t, IsValidationError(svc.AwardBadge(ctx, "1", " ")))
}

func TestGetBadgesByCreatorIgnoresCase(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, nil, false)
	ctx := context.Background()

	_, err := svc.CreateBadge(ctx, validForm(), creator)
	require.NoError(t, err)

	mine, err := svc.GetBadgesByCreator(ctx, "0xabc0000000000000000000000000000000000001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Bug Hunter", mine[0].Name)

	none, err := svc.GetBadgesByCreator(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetBadgeNotFound(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, nil, false)
	_, err := svc.GetBadge(context.Background(), "404")
	assert.True(t, IsNotFoundError(err))
}

func TestListBadgesFilters(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, nil, false)
	ctx := context.Background()

	all, err := svc.ListBadges(ctx, BadgeFilter{Category: FilterAll, Rarity: FilterAll})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	epic, err := svc.ListBadges(ctx, BadgeFilter{Rarity: "Epic"})
	require.NoError(t, err)
	require.Len(t, epic, 1)
	assert.Equal(t, "2", epic[0].ID)
}

func TestGetDashboard(t *testing.T) {
	svc, _, _ := newTestBadgeService(t, nil, false)
	ctx := context.Background()

	_, err := svc.CreateBadge(ctx, validForm(), creator)
	require.NoError(t, err)
	require.NoError(t, svc.AwardBadge(ctx, mustFirstID(t, svc), "0xrecipient"))

	dash, err := svc.GetDashboard(ctx, creator)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.BadgesCreated)
	assert.Equal(t, 1, dash.TotalRecipients)
	assert.Equal(t, 1, dash.MostPopular)
	assert.Equal(t, 1, dash.ThisMonth)
	assert.Len(t, dash.RecentBadges, 1)
}

func mustFirstID(t *testing.T, svc BadgeService) string {
	t.Helper()
	state, err := svc.State(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, state.Badges)
	return state.Badges[0].ID
}
