package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-booking/internal/delivery/dto"
	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directRequest(m plumbingMarket, scheduledAt time.Time) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		ProviderID:  &m.provider.ID,
		ServiceID:   &m.service.ID,
		ScheduledAt: scheduledAt,
		Description: "Kitchen sink is leaking under the cabinet",
		Address:     "Calle 10 # 43-12",
		Latitude:    testutil.Float(6.2442),
		Longitude:   testutil.Float(-75.5812),
	}
}

func openRequest(slug string, scheduledAt time.Time) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		CategorySlug: slug,
		ScheduledAt:  scheduledAt,
		Description:  "Water heater stopped working this morning",
		Address:      "Carrera 70 # 1-20",
		Latitude:     testutil.Float(6.2442),
		Longitude:    testutil.Float(-75.5812),
	}
}

func TestCreateBookingSchedulingWindow(t *testing.T) {
	tests := []struct {
		name    string
		offset  time.Duration
		wantErr error
	}{
		{"59 minutes ahead", 59 * time.Minute, ErrScheduleTooSoon},
		{"exactly one hour ahead", time.Hour, nil},
		{"61 minutes ahead", 61 * time.Minute, nil},
		{"29 days ahead", 29 * 24 * time.Hour, nil},
		{"31 days ahead", 31 * 24 * time.Hour, ErrScheduleTooFar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			m := seedPlumbing(env)

			booking, err := env.bookings.CreateBooking(context.Background(), actorOf(m.client), directRequest(m, fixedNow.Add(tt.offset)))

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(entity.BookingStatusRequested), booking.Status)
		})
	}
}

func TestCreateDirectBookingWritesInitialHistory(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	req := directRequest(m, fixedNow.Add(24*time.Hour))
	req.Notes = "Bring a wrench"

	booking, err := env.bookings.CreateBooking(context.Background(), actorOf(m.client), req)
	require.NoError(t, err)

	assert.Equal(t, m.provider.ID, *booking.ProviderID)
	assert.Equal(t, m.service.ID, *booking.ServiceID)
	assert.Nil(t, booking.CategoryID)
	assert.Equal(t, "Luis", booking.Provider.FirstName)
	assert.Equal(t, entity.DefaultEstimatedDuration, booking.EstimatedDuration)

	rows := env.history(t, booking.ID)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].FromStatus)
	assert.Equal(t, entity.BookingStatusRequested, rows[0].ToStatus)
	assert.Equal(t, m.client.ID, rows[0].ChangedBy)
	assert.Equal(t, "Bring a wrench", *rows[0].Note)
}

func TestCreateBookingRejectsInvalidTargets(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	ctx := context.Background()
	when := fixedNow.Add(24 * time.Hour)

	both := directRequest(m, when)
	both.CategoryID = &m.category.ID
	_, err := env.bookings.CreateBooking(ctx, actorOf(m.client), both)
	assert.True(t, errors.Is(err, ErrBookingTarget))

	neither := directRequest(m, when)
	neither.ProviderID = nil
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), neither)
	assert.True(t, errors.Is(err, ErrBookingTarget))

	unknown := directRequest(m, when)
	missing := uuid.New()
	unknown.ProviderID = &missing
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), unknown)
	assert.True(t, errors.Is(err, ErrProviderNotFound))

	_, err = env.bookings.CreateBooking(ctx, m.providerActor(), directRequest(m, when))
	assert.True(t, errors.Is(err, ErrSelfBooking))

	otherService := env.fx.Service(m.category, "Destapes")
	notOffered := directRequest(m, when)
	notOffered.ServiceID = &otherService.ID
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), notOffered)
	assert.True(t, errors.Is(err, ErrServiceNotOffered))

	inactive := env.fx.Offer(m.provider, otherService, "50000")
	env.fx.Deactivate(inactive)
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), notOffered)
	assert.True(t, errors.Is(err, ErrServiceNotOffered))

	offMap := directRequest(m, when)
	offMap.Latitude = testutil.Float(91)
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), offMap)
	assert.True(t, errors.Is(err, ErrInvalidLocation))

	require.NoError(t, env.db.Model(&m.provider.User).Update("status", entity.UserStatusSuspended).Error)
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), directRequest(m, when))
	assert.True(t, errors.Is(err, ErrProviderInactive))

	require.NoError(t, env.db.Model(m.provider).Update("verification_status", entity.VerificationSuspended).Error)
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), directRequest(m, when))
	assert.True(t, errors.Is(err, ErrProviderNotApproved))

	var count int64
	require.NoError(t, env.db.Model(&entity.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOpenRequest(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	ctx := context.Background()

	req := openRequest("plomeria", fixedNow.Add(24*time.Hour))
	budget := decimal.NewFromInt(120000)
	req.Budget = &budget

	booking, err := env.bookings.CreateBooking(ctx, actorOf(m.client), req)
	require.NoError(t, err)
	assert.Nil(t, booking.ProviderID)
	assert.Equal(t, m.category.ID, *booking.CategoryID)
	assert.Equal(t, "plomeria", booking.Category.Slug)
	assert.True(t, budget.Equal(*booking.QuotedPrice))

	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), openRequest("jardineria", fixedNow.Add(24*time.Hour)))
	assert.True(t, errors.Is(err, ErrCategoryUnavailable))

	env.fx.Deactivate(m.category)
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), openRequest("plomeria", fixedNow.Add(24*time.Hour)))
	assert.True(t, errors.Is(err, ErrCategoryUnavailable))

	negative := decimal.NewFromInt(-1)
	withNegative := openRequest("", fixedNow.Add(24*time.Hour))
	electrical := env.fx.Category("Electricidad", "electricidad")
	withNegative.CategoryID = &electrical.ID
	withNegative.Budget = &negative
	_, err = env.bookings.CreateBooking(ctx, actorOf(m.client), withNegative)
	assert.True(t, errors.Is(err, ErrNegativeBudget))
}

func TestGetBookingVisibility(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	ctx := context.Background()

	direct, err := env.bookings.CreateBooking(ctx, actorOf(m.client), directRequest(m, fixedNow.Add(24*time.Hour)))
	require.NoError(t, err)
	open, err := env.bookings.CreateBooking(ctx, actorOf(m.client), openRequest("plomeria", fixedNow.Add(24*time.Hour)))
	require.NoError(t, err)

	stranger := env.fx.User(entity.RoleClient, "Pedro")
	otherProvider := env.fx.Provider("Marta", nil, nil, 4.0, 1)
	otherProviderActor := entity.Actor{UserID: otherProvider.UserID, Role: entity.RoleProvider}
	admin := entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}

	got, err := env.bookings.GetBooking(ctx, actorOf(m.client), direct.ID)
	require.NoError(t, err)
	require.Len(t, got.StatusHistory, 1)

	_, err = env.bookings.GetBooking(ctx, m.providerActor(), direct.ID)
	assert.NoError(t, err)
	_, err = env.bookings.GetBooking(ctx, admin, direct.ID)
	assert.NoError(t, err)
	_, err = env.bookings.GetBooking(ctx, actorOf(stranger), direct.ID)
	assert.True(t, errors.Is(err, ErrNotBookingParty))
	_, err = env.bookings.GetBooking(ctx, otherProviderActor, direct.ID)
	assert.True(t, errors.Is(err, ErrNotBookingParty))

	_, err = env.bookings.GetBooking(ctx, otherProviderActor, open.ID)
	assert.NoError(t, err)
	_, err = env.bookings.GetBooking(ctx, actorOf(stranger), open.ID)
	assert.True(t, errors.Is(err, ErrNotBookingParty))

	_, err = env.bookings.GetBooking(ctx, admin, uuid.New())
	assert.True(t, errors.Is(err, ErrBookingNotFound))
}

func TestListClientBookingsPagination(t *testing.T) {
	env := newTestEnv(t)
	m := seedPlumbing(env)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := env.bookings.CreateBooking(ctx, actorOf(m.client), directRequest(m, fixedNow.Add(time.Duration(24+i)*time.Hour)))
		require.NoError(t, err)
	}

	seen := map[uuid.UUID]bool{}
	for page := 1; page <= 3; page++ {
		result, err := env.bookings.ListClientBookings(ctx, actorOf(m.client), entity.BookingFilter{Page: page, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.Total)
		assert.Equal(t, page, result.Page)
		assert.Equal(t, 2, result.Limit)
		for _, b := range result.Bookings {
			assert.False(t, seen[b.ID])
			seen[b.ID] = true
		}
	}
	assert.Len(t, seen, 5)

	defaults, err := env.bookings.ListClientBookings(ctx, actorOf(m.client), entity.BookingFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, entity.MaxBookingPageLimit, defaults.Limit)

	providerView, err := env.bookings.ListProviderBookings(ctx, m.providerActor(), entity.BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), providerView.Total)

	_, err = env.bookings.ListProviderBookings(ctx, actorOf(m.client), entity.BookingFilter{})
	assert.True(t, errors.Is(err, ErrProviderProfileRequired))
}
