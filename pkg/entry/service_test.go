package entry

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/timetrack/internal/config"
	"github.com/klokku/timetrack/internal/event_bus"
	"github.com/klokku/timetrack/internal/utils"
	"github.com/klokku/timetrack/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var location, _ = time.LoadLocation("Europe/Warsaw")

var ctx = context.Background()

func setupServiceTest(t *testing.T) (*ServiceImpl, *RepositoryStub, *utils.MockClock, *event_bus.EventBus) {
	catalogRepo := activity.NewRepositoryStub(
		activity.Activity{Path: []string{"Project"}, Name: "Docs", BillingCode: "CC1", DefaultDescription: "Draft"},
		activity.Activity{Name: "Mail", BillingCode: "ADM"},
	)
	repo := NewRepositoryStub()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 3, 9, 0, 0, 0, location)}
	bus := event_bus.NewEventBus()
	service := NewService(repo, activity.NewService(catalogRepo, nil), config.Defaults(), location, bus, clock)
	t.Cleanup(func() {
		repo.Cleanup()
	})
	return service, repo, clock, bus
}

func TestServiceImpl_Start(t *testing.T) {
	t.Run("should capture catalog data at write time", func(t *testing.T) {
		service, repo, clock, _ := setupServiceTest(t)

		// when
		start, err := service.Start(ctx, StartRequest{Activity: "Project/Docs"})

		// then
		require.NoError(t, err)
		assert.Equal(t, Start{
			Time:           clock.Now(),
			Activity:       "Project/Docs",
			AttendanceType: "Office",
			BillingCode:    "CC1",
			Description:    "Draft",
		}, start)
		entries, _ := repo.LoadAll(ctx)
		assert.Equal(t, []Entry{start}, entries)
	})

	t.Run("should use explicit description and attendance alias", func(t *testing.T) {
		service, _, _, _ := setupServiceTest(t)

		start, err := service.Start(ctx, StartRequest{Activity: "Project/Docs", AttendanceType: "r", Description: "Review"})

		require.NoError(t, err)
		assert.Equal(t, "Remote", start.AttendanceType)
		assert.Equal(t, "Review", start.Description)
	})

	t.Run("should start built-in Idle", func(t *testing.T) {
		service, _, _, _ := setupServiceTest(t)

		start, err := service.Start(ctx, StartRequest{Activity: activity.IdleName})

		require.NoError(t, err)
		assert.Equal(t, "Idle", start.BillingCode)
	})

	t.Run("should fail for unknown activity", func(t *testing.T) {
		service, repo, _, _ := setupServiceTest(t)

		_, err := service.Start(ctx, StartRequest{Activity: "Docs"})

		assert.ErrorIs(t, err, activity.ErrNotFound)
		entries, _ := repo.LoadAll(ctx)
		assert.Empty(t, entries)
	})

	t.Run("should reject start before last entry", func(t *testing.T) {
		service, _, clock, _ := setupServiceTest(t)

		// given
		_, err := service.Start(ctx, StartRequest{Activity: "Mail"})
		require.NoError(t, err)

		// when
		_, err = service.Start(ctx, StartRequest{Activity: "Project/Docs", At: clock.Now().Add(-time.Minute)})

		// then
		assert.ErrorIs(t, err, ErrOutOfOrder)
	})

	t.Run("should publish started event", func(t *testing.T) {
		service, _, _, bus := setupServiceTest(t)

		// given
		var received []event_bus.TrackingStarted
		event_bus.SubscribeTyped(bus, event_bus.EntryStarted, func(e event_bus.EventT[event_bus.TrackingStarted]) error {
			received = append(received, e.Data)
			return nil
		})

		// when
		_, err := service.Start(ctx, StartRequest{Activity: "Mail"})

		// then
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, "Mail", received[0].Activity)
		assert.Equal(t, "ADM", received[0].BillingCode)
	})
}

func TestServiceImpl_End(t *testing.T) {
	t.Run("should end current activity", func(t *testing.T) {
		service, repo, clock, bus := setupServiceTest(t)

		// given
		var ended []event_bus.TrackingEnded
		event_bus.SubscribeTyped(bus, event_bus.EntryEnded, func(e event_bus.EventT[event_bus.TrackingEnded]) error {
			ended = append(ended, e.Data)
			return nil
		})
		_, err := service.Start(ctx, StartRequest{Activity: "Mail"})
		require.NoError(t, err)
		clock.Advance(45 * time.Minute)

		// when
		end, err := service.End(ctx, time.Time{})

		// then
		require.NoError(t, err)
		assert.Equal(t, End{Time: clock.Now()}, end)
		last, _ := repo.Last(ctx)
		assert.Equal(t, end, last)
		require.Len(t, ended, 1)
		assert.Equal(t, 45*time.Minute, ended[0].Duration)
		current, err := service.Current(ctx)
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("should fail when nothing is tracked", func(t *testing.T) {
		service, _, _, _ := setupServiceTest(t)

		_, err := service.End(ctx, time.Time{})

		assert.ErrorIs(t, err, ErrNotTracking)
	})

	t.Run("should fail when already ended", func(t *testing.T) {
		service, _, clock, _ := setupServiceTest(t)

		// given
		_, err := service.Start(ctx, StartRequest{Activity: "Mail"})
		require.NoError(t, err)
		_, err = service.End(ctx, clock.Advance(time.Minute))
		require.NoError(t, err)

		// when
		_, err = service.End(ctx, clock.Advance(time.Minute))

		// then
		assert.ErrorIs(t, err, ErrNotTracking)
	})
}

func TestServiceImpl_Current(t *testing.T) {
	service, _, clock, _ := setupServiceTest(t)

	// given
	_, err := service.Start(ctx, StartRequest{Activity: "Mail"})
	require.NoError(t, err)
	clock.Advance(time.Hour)
	started, err := service.Start(ctx, StartRequest{Activity: "Project/Docs"})
	require.NoError(t, err)

	// when
	current, err := service.Current(ctx)

	// then
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, started, *current)
}

func TestServiceImpl_Recent(t *testing.T) {
	service, _, clock, _ := setupServiceTest(t)

	// given
	_, err := service.Start(ctx, StartRequest{Activity: "Mail"})
	require.NoError(t, err)
	clock.Advance(25 * time.Hour)
	latest, err := service.Start(ctx, StartRequest{Activity: "Project/Docs"})
	require.NoError(t, err)

	// when
	today, err := service.Recent(ctx, Range{Unit: Days})
	require.NoError(t, err)
	lastTwo, err := service.Recent(ctx, Range{Count: 2})
	require.NoError(t, err)

	// then
	assert.Equal(t, []Entry{latest}, today)
	assert.Len(t, lastTwo, 2)
}
