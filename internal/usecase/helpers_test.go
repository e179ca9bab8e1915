package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/infrastructure/database"
	"marketplace-booking/internal/repository"
	"marketplace-booking/internal/service"
	"marketplace-booking/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []service.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification service.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) events(event service.NotificationEvent) []service.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []service.Notification
	for _, s := range n.sent {
		if s.Event == event {
			out = append(out, s)
		}
	}
	return out
}

type testEnv struct {
	db       *gorm.DB
	fx       *testutil.Fixtures
	notifier *recordingNotifier

	machine      *bookingStateMachine
	bookings     BookingUsecase
	lifecycle    BookingLifecycleUsecase
	openRequests OpenRequestUsecase
	search       ProviderSearchUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithOptions(t, OpenRequestOptions{})
}

func newTestEnvWithOptions(t *testing.T, opts OpenRequestOptions) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	now := func() time.Time { return fixedNow }

	transactor := database.NewTransactor(db)
	bookingRepo := repository.NewBookingRepository()
	providerRepo := repository.NewProviderRepository()
	catalogRepo := repository.NewCatalogRepository()
	historyService := service.NewBookingHistoryService(log, repository.NewBookingHistoryRepository())
	categoryCache := service.NewCategoryCache(db, nil, log, catalogRepo, time.Minute)
	notifier := &recordingNotifier{}

	return &testEnv{
		db:           db,
		fx:           testutil.NewFixtures(t, db),
		notifier:     notifier,
		machine:      newBookingStateMachine(db, log, transactor, bookingRepo, historyService, notifier, now),
		bookings:     NewBookingUsecase(db, log, transactor, bookingRepo, providerRepo, catalogRepo, historyService, categoryCache, now),
		lifecycle:    NewBookingLifecycleUsecase(db, log, transactor, bookingRepo, providerRepo, historyService, notifier, now),
		openRequests: NewOpenRequestUsecase(db, log, transactor, bookingRepo, providerRepo, historyService, notifier, now, opts),
		search:       NewProviderSearchUsecase(db, log, providerRepo, service.NewProviderRanker(), categoryCache),
	}
}

func (e *testEnv) reload(t *testing.T, id uuid.UUID) *entity.Booking {
	t.Helper()
	var booking entity.Booking
	require.NoError(t, e.db.Where("id = ?", id).First(&booking).Error)
	return &booking
}

func (e *testEnv) history(t *testing.T, id uuid.UUID) []entity.BookingStatusHistory {
	t.Helper()
	var rows []entity.BookingStatusHistory
	require.NoError(t, e.db.Where("booking_id = ?", id).Order("id ASC").Find(&rows).Error)
	return rows
}

func actorOf(user *entity.User) entity.Actor {
	return entity.Actor{UserID: user.ID, Role: user.Role}
}

// plumbingMarket seeds one category with a service and a provider offering it.
type plumbingMarket struct {
	category *entity.ServiceCategory
	service  *entity.Service
	provider *entity.Provider
	client   *entity.User
}

func seedPlumbing(e *testEnv) plumbingMarket {
	category := e.fx.Category("Plomería", "plomeria")
	svc := e.fx.Service(category, "Reparación de fugas")
	provider := e.fx.Provider("Luis", testutil.Float(6.2442), testutil.Float(-75.5812), 4.7, 12)
	e.fx.Offer(provider, svc, "80000")
	return plumbingMarket{
		category: category,
		service:  svc,
		provider: provider,
		client:   e.fx.User(entity.RoleClient, "Ana"),
	}
}

func (m plumbingMarket) providerActor() entity.Actor {
	return entity.Actor{UserID: m.provider.UserID, Role: entity.RoleProvider}
}
