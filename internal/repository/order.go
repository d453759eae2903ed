package repository

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByExternalID(ctx context.Context, externalID string) (*model.Order, error)
	LockByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*model.Order, error)
	MarkSettled(ctx context.Context, tx *gorm.DB, externalID string, delivered []string) (*model.Order, error)
	MarkExpired(ctx context.Context, externalID string) (*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	order.Status = model.OrderPending
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByExternalID(ctx context.Context, externalID string) (*model.Order, error) {
	return findByExternalID(r.db.WithContext(ctx), externalID)
}

func (r *orderRepoImpl) LockByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*model.Order, error) {
	q := tx.WithContext(ctx)
	if supportsRowLocks(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return findByExternalID(q, externalID)
}

// MarkSettled moves a pending order to settlement with its delivered credentials.
// An order that is already settled is returned unchanged.
func (r *orderRepoImpl) MarkSettled(ctx context.Context, tx *gorm.DB, externalID string, delivered []string) (*model.Order, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where(`
			external_id = ?
			AND status = ?
		`,
			externalID,
			model.OrderPending,
		).
		Updates(map[string]interface{}{
			"status":             model.OrderSettlement,
			"delivered_accounts": datatypes.NewJSONSlice(delivered),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	order, err := findByExternalID(tx.WithContext(ctx), externalID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 && order.Status != model.OrderSettlement {
		return nil, fmt.Errorf("order %s is %s, not pending", externalID, order.Status)
	}

	return order, nil
}

func (r *orderRepoImpl) MarkExpired(ctx context.Context, externalID string) (*model.Order, error) {
	var order *model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("external_id = ? AND status = ?", externalID, model.OrderPending).
			Updates(map[string]interface{}{
				"status":     model.OrderExpired,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}

		var err error
		order, err = findByExternalID(tx, externalID)
		return err
	})

	return order, err
}

func (r *orderRepoImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func findByExternalID(db *gorm.DB, externalID string) (*model.Order, error) {
	var order model.Order
	err := db.Where("external_id = ?", externalID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", externalID, apperr.ErrOrderNotFound)
		}
		return nil, err
	}

	return &order, nil
}
