package repository

import (
	"testing"

	"marketplace-booking/internal/domain/entity"
	"marketplace-booking/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindActiveCategoryIDsSkipsInactiveOffers(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewProviderRepository()

	plumbing := fx.Category("Plomería", "plomeria")
	electrical := fx.Category("Electricidad", "electricidad")
	provider := fx.Provider("Luis", nil, nil, 4.5, 10)
	fx.Offer(provider, fx.Service(plumbing, "Fugas"), "80000")
	fx.Offer(provider, fx.Service(plumbing, "Destapes"), "60000")
	fx.Deactivate(fx.Offer(provider, fx.Service(electrical, "Tomas"), "50000"))

	ids, err := repo.FindActiveCategoryIDs(db, provider.ID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{plumbing.ID}, ids)
}

func TestIncrementTotalBookings(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewProviderRepository()

	provider := fx.Provider("Luis", nil, nil, 4.5, 10)

	require.NoError(t, repo.IncrementTotalBookings(db, provider.ID))
	require.NoError(t, repo.IncrementTotalBookings(db, provider.ID))
	assert.Error(t, repo.IncrementTotalBookings(db, uuid.New()))

	stored, err := repo.FindByID(db, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalBookings)
}

func TestFindSearchCandidatesFilters(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewProviderRepository()

	plumbing := fx.Category("Plomería", "plomeria")
	electrical := fx.Category("Electricidad", "electricidad")
	leaks := fx.Service(plumbing, "Fugas")
	sockets := fx.Service(electrical, "Tomas")

	luis := fx.Provider("Luis", nil, nil, 4.5, 10)
	fx.Offer(luis, leaks, "80000")
	marta := fx.Provider("Marta", nil, nil, 3.9, 40)
	fx.Offer(marta, sockets, "50000")
	idle := fx.Provider("Jorge", nil, nil, 5.0, 2)
	fx.Deactivate(fx.Offer(idle, leaks, "70000"))

	pending := fx.Provider("Pendiente", nil, nil, 5.0, 1)
	require.NoError(t, db.Model(pending).Update("verification_status", entity.VerificationDocumentsSubmitted).Error)
	suspended := fx.Provider("Suspendido", nil, nil, 5.0, 1)
	require.NoError(t, db.Model(&suspended.User).Update("status", entity.UserStatusSuspended).Error)

	all, err := repo.FindSearchCandidates(db, entity.ProviderSearchFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{luis.ID, marta.ID, idle.ID}, candidateIDs(all))

	byCategory, err := repo.FindSearchCandidates(db, entity.ProviderSearchFilter{CategoryID: &plumbing.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{luis.ID}, candidateIDs(byCategory))

	bySlug, err := repo.FindSearchCandidates(db, entity.ProviderSearchFilter{CategorySlug: "electricidad"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{marta.ID}, candidateIDs(bySlug))

	byText, err := repo.FindSearchCandidates(db, entity.ProviderSearchFilter{Query: "  MARTA "})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{marta.ID}, candidateIDs(byText))

	minRating := 4.5
	byRating, err := repo.FindSearchCandidates(db, entity.ProviderSearchFilter{MinRating: &minRating})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{luis.ID, idle.ID}, candidateIDs(byRating))

	fx.Deactivate(plumbing)

	byInactiveCategory, err := repo.FindSearchCandidates(db, entity.ProviderSearchFilter{CategoryID: &plumbing.ID})
	require.NoError(t, err)
	assert.Empty(t, byInactiveCategory)

	byInactiveSlug, err := repo.FindSearchCandidates(db, entity.ProviderSearchFilter{CategorySlug: "plomeria"})
	require.NoError(t, err)
	assert.Empty(t, byInactiveSlug)
}

func TestFindMinActivePrices(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewProviderRepository()

	plumbing := fx.Category("Plomería", "plomeria")
	luis := fx.Provider("Luis", nil, nil, 4.5, 10)
	fx.Offer(luis, fx.Service(plumbing, "Fugas"), "80000")
	fx.Offer(luis, fx.Service(plumbing, "Destapes"), "60000.50")
	fx.Offer(luis, fx.Service(plumbing, "Visita"), "0")
	fx.Deactivate(fx.Offer(luis, fx.Service(plumbing, "Calentadores"), "10000"))
	unpriced := fx.Provider("Marta", nil, nil, 4.0, 1)
	fx.Offer(unpriced, fx.Service(plumbing, "Diagnóstico"), "0")

	prices, err := repo.FindMinActivePrices(db, []uuid.UUID{luis.ID, unpriced.ID})

	require.NoError(t, err)
	require.Contains(t, prices, luis.ID)
	assert.True(t, decimal.RequireFromString("60000.50").Equal(prices[luis.ID]))
	assert.NotContains(t, prices, unpriced.ID)
}

func TestFindByIDsWithServicesHydratesActiveOffers(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewProviderRepository()

	plumbing := fx.Category("Plomería", "plomeria")
	luis := fx.Provider("Luis", nil, nil, 4.5, 10)
	fx.Offer(luis, fx.Service(plumbing, "Fugas"), "80000")
	fx.Deactivate(fx.Offer(luis, fx.Service(plumbing, "Destapes"), "60000"))

	providers, err := repo.FindByIDsWithServices(db, []uuid.UUID{luis.ID})

	require.NoError(t, err)
	require.Len(t, providers, 1)
	require.Len(t, providers[0].Services, 1)
	assert.Equal(t, "Fugas", providers[0].Services[0].Service.Name)
	assert.Equal(t, "plomeria", providers[0].Services[0].Service.Category.Slug)
	assert.Equal(t, "Luis", providers[0].User.FirstName)
}

func TestFindAvailabilityByDay(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewProviderRepository()

	luis := fx.Provider("Luis", nil, nil, 4.5, 10)
	afternoon := &entity.ProviderAvailability{ProviderID: luis.ID, DayOfWeek: 1, StartTime: "14:00", EndTime: "18:00", IsActive: true}
	morning := &entity.ProviderAvailability{ProviderID: luis.ID, DayOfWeek: 1, StartTime: "08:00", EndTime: "12:00", IsActive: true}
	other := &entity.ProviderAvailability{ProviderID: luis.ID, DayOfWeek: 2, StartTime: "08:00", EndTime: "12:00", IsActive: true}
	require.NoError(t, db.Create(afternoon).Error)
	require.NoError(t, db.Create(morning).Error)
	require.NoError(t, db.Create(other).Error)

	slots, err := repo.FindAvailabilityByDay(db, luis.ID, 1)

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "14:00", slots[1].StartTime)
}

func TestCatalogLookups(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewCatalogRepository()

	plumbing := fx.Category("Plomería", "plomeria")
	leaks := fx.Service(plumbing, "Fugas")
	luis := fx.Provider("Luis", nil, nil, 4.5, 10)
	offer := fx.Offer(luis, leaks, "80000")
	fx.Deactivate(offer)

	category, err := repo.FindCategoryBySlug(db, "plomeria")
	require.NoError(t, err)
	assert.Equal(t, plumbing.ID, category.ID)

	missing, err := repo.FindCategoryBySlug(db, "jardineria")
	require.NoError(t, err)
	assert.Nil(t, missing)

	found, err := repo.FindProviderService(db, luis.ID, leaks.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.IsActive)
}

func candidateIDs(candidates []entity.ProviderCandidate) []uuid.UUID {
	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	return ids
}
