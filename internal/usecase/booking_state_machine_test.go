package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/service"
	"marketplace-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplyEveryStatusPair(t *testing.T) {
	for _, from := range entity.AllBookingStatuses() {
		for _, to := range entity.AllBookingStatuses() {
			from, to := from, to
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				env := newTestEnv(t)
				m := seedPlumbing(env)
				booking := env.fx.DirectBooking(m.client, m.provider, m.service, fixedNow.Add(24*time.Hour))
				env.fx.SetStatus(booking, from)

				updated, err := env.machine.apply(context.Background(), booking, m.provider.UserID, transition{to: to})

				if from.CanTransitionTo(to) {
					require.NoError(t, err)
					assert.Equal(t, to, updated.Status)
					rows := env.history(t, booking.ID)
					require.Len(t, rows, 1)
					assert.Equal(t, from, *rows[0].FromStatus)
					assert.Equal(t, to, rows[0].ToStatus)
					return
				}

				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTransition))
				assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))
				assert.Equal(t, from, env.reload(t, booking.ID).Status)
				assert.Empty(t, env.history(t, booking.ID))
			})
		}
	}
}

func TestApplyReportsCurrentStatusWhenRaceLost(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	booking := env.fx.DirectBooking(m.client, m.provider, m.service, fixedNow.Add(24*time.Hour))

	stale := *booking
	env.fx.SetStatus(booking, entity.BookingStatusCancelled)

	_, err := env.machine.apply(context.Background(), &stale, m.provider.UserID, transition{to: entity.BookingStatusAccepted})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Contains(t, err.Error(), "from CANCELLED to ACCEPTED")
	assert.Empty(t, env.history(t, booking.ID))
}

func TestApplyRollsBackWhenAfterHookFails(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	booking := env.fx.DirectBooking(m.client, m.provider, m.service, fixedNow.Add(24*time.Hour))

	_, err := env.machine.apply(context.Background(), booking, m.provider.UserID, transition{
		to:    entity.BookingStatusAccepted,
		after: func(tx *gorm.DB) error { return errors.New("counter unavailable") },
	})

	require.Error(t, err)
	assert.Equal(t, entity.BookingStatusRequested, env.reload(t, booking.ID).Status)
	assert.Empty(t, env.history(t, booking.ID))
}

func TestSweepConflictsCancelsOnlyRequestsInsideWindow(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	target := fixedNow.Add(48 * time.Hour)

	schedule := map[string]time.Duration{
		"T-3h":    -3 * time.Hour,
		"T-1h":    -time.Hour,
		"T+1h30m": 90 * time.Minute,
		"T+3h":    3 * time.Hour,
	}
	siblings := map[string]*entity.Booking{}
	for label, offset := range schedule {
		siblings[label] = env.fx.DirectBooking(env.fx.User(entity.RoleClient, label), m.provider, m.service, target.Add(offset))
	}
	accepted := env.fx.DirectBooking(m.client, m.provider, m.service, target)

	result, err := env.lifecycle.Accept(context.Background(), m.providerActor(), accepted.ID, "")
	require.NoError(t, err)

	assert.Equal(t, string(entity.BookingStatusAccepted), result.Booking.Status)
	assert.Equal(t, []uuid.UUID{siblings["T-1h"].ID, siblings["T+1h30m"].ID}, result.Conflicts.CancelledIDs)
	assert.Empty(t, result.Conflicts.Failed)

	for _, label := range []string{"T-1h", "T+1h30m"} {
		swept := env.reload(t, siblings[label].ID)
		assert.Equal(t, entity.BookingStatusCancelled, swept.Status, label)
		require.NotNil(t, swept.CancelledBy)
		assert.Equal(t, entity.CancelledBySystem, *swept.CancelledBy)
		assert.Equal(t, ConflictCancellationReason, *swept.CancellationReason)

		rows := env.history(t, swept.ID)
		require.Len(t, rows, 1)
		assert.Equal(t, ConflictCancellationReason, *rows[0].Note)
	}
	for _, label := range []string{"T-3h", "T+3h"} {
		assert.Equal(t, entity.BookingStatusRequested, env.reload(t, siblings[label].ID).Status, label)
	}

	conflictEvents := env.notifier.events(service.EventBookingConflictCancelled)
	require.Len(t, conflictEvents, 2)
	notified := []uuid.UUID{conflictEvents[0].UserID, conflictEvents[1].UserID}
	assert.ElementsMatch(t, []uuid.UUID{siblings["T-1h"].ClientID, siblings["T+1h30m"].ClientID}, notified)
	assert.Len(t, env.notifier.events(service.EventBookingAccepted), 1)
}

func TestSweepConflictsIgnoresOtherProvidersAndStatuses(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	other := env.fx.Provider("Marta", nil, nil, 4.0, 1)
	env.fx.Offer(other, m.service, "70000")
	target := fixedNow.Add(48 * time.Hour)

	otherProviders := env.fx.DirectBooking(m.client, other, m.service, target.Add(30*time.Minute))
	quoted := env.fx.DirectBooking(m.client, m.provider, m.service, target.Add(30*time.Minute))
	env.fx.SetStatus(quoted, entity.BookingStatusQuoted)
	accepted := env.fx.DirectBooking(m.client, m.provider, m.service, target)

	result, err := env.lifecycle.Accept(context.Background(), m.providerActor(), accepted.ID, "")
	require.NoError(t, err)

	assert.Empty(t, result.Conflicts.CancelledIDs)
	assert.Equal(t, entity.BookingStatusRequested, env.reload(t, otherProviders.ID).Status)
	assert.Equal(t, entity.BookingStatusQuoted, env.reload(t, quoted.ID).Status)
}
