package repository_test

import (
	"context"
	"testing"
	"time"

	"account-storefront/internal/apperr"
	"account-storefront/internal/dbtest"
	"account-storefront/internal/model"
	"account-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrder(externalID string, createdAt time.Time) *model.Order {
	return &model.Order{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		ProductID:  "net-x",
		Quantity:   2,
		Total:      30000,
		QRPayload:  "https://qr.example/" + externalID,
		CreatedAt:  createdAt,
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	repo := repository.NewOrderRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder("ext-1", time.Now())))

	got, err := repo.FindByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, got.Status)
	assert.Equal(t, 2, got.Quantity)
	assert.EqualValues(t, 30000, got.Total)
	assert.Empty(t, got.DeliveredAccounts)

	_, err = repo.FindByExternalID(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)
}

func TestOrderRepository_MarkSettledIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ext-1", time.Now())))

	first := []string{"a@x.com:pw1", "b@x.com:pw2"}
	var settled *model.Order
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		settled, err = repo.MarkSettled(ctx, tx, "ext-1", first)
		return err
	}))
	assert.Equal(t, model.OrderSettlement, settled.Status)
	assert.Equal(t, first, []string(settled.DeliveredAccounts))

	// a second settlement with a different list leaves the stored one untouched
	var again *model.Order
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		again, err = repo.MarkSettled(ctx, tx, "ext-1", []string{"c@x.com:pw3", "d@x.com:pw4"})
		return err
	}))
	assert.Equal(t, first, []string(again.DeliveredAccounts))

	stored, err := repo.FindByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, first, []string(stored.DeliveredAccounts))
}

func TestOrderRepository_MarkExpired(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newOrder("ext-1", time.Now())))
	require.NoError(t, repo.Create(ctx, newOrder("ext-2", time.Now())))

	expired, err := repo.MarkExpired(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderExpired, expired.Status)

	// expired is terminal: settlement no longer applies
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := repo.MarkSettled(ctx, tx, "ext-1", []string{"a@x.com:pw"})
		return err
	})
	assert.Error(t, err)

	// settled is terminal: expiry no longer applies
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := repo.MarkSettled(ctx, tx, "ext-2", []string{"a@x.com:pw"})
		return err
	}))
	got, err := repo.MarkExpired(ctx, "ext-2")
	require.NoError(t, err)
	assert.Equal(t, model.OrderSettlement, got.Status)

	_, err = repo.MarkExpired(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)
}

func TestOrderRepository_ListAllMostRecentFirst(t *testing.T) {
	repo := repository.NewOrderRepository(dbtest.New(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, newOrder("ext-old", base)))
	require.NoError(t, repo.Create(ctx, newOrder("ext-new", base.Add(30*time.Minute))))
	require.NoError(t, repo.Create(ctx, newOrder("ext-mid", base.Add(10*time.Minute))))

	orders, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	got := []string{orders[0].ExternalID, orders[1].ExternalID, orders[2].ExternalID}
	assert.Equal(t, []string{"ext-new", "ext-mid", "ext-old"}, got)
}

func TestOrderRepository_ExternalIDIsUnique(t *testing.T) {
	repo := repository.NewOrderRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder("ext-1", time.Now())))
	assert.Error(t, repo.Create(ctx, newOrder("ext-1", time.Now())))
}
