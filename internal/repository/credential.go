package repository

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/model"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CredentialRepository interface {
	CountAvailable(ctx context.Context, productID string) (int64, error)
	ReserveAndConsume(ctx context.Context, tx *gorm.DB, productID, orderID string, quantity int) ([]string, error)
	AddBulk(ctx context.Context, productID string, inputs []model.CredentialInput) (int, error)
	FindByOrderID(ctx context.Context, orderID string) ([]*model.Credential, error)
	// InvalidateCount must be called after the transaction that ran ReserveAndConsume commits.
	InvalidateCount(ctx context.Context, productID string)
}

type credentialRepoImpl struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepoImpl{
		db: db,
	}
}

func (r *credentialRepoImpl) CountAvailable(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Credential{}).
		Where("product_id = ?", productID).
		Where("status = ?", model.CredentialAvailable).
		Count(&count).Error

	return count, err
}

// ReserveAndConsume flips exactly quantity available credentials of the product to sold,
// oldest first, and returns their payloads. It must run inside tx; on ErrInsufficientStock
// the caller rolls back.
func (r *credentialRepoImpl) ReserveAndConsume(ctx context.Context, tx *gorm.DB, productID, orderID string, quantity int) ([]string, error) {
	if quantity <= 0 {
		return nil, apperr.ErrInvalidQuantity
	}

	query := tx.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, model.CredentialAvailable).
		Order("id ASC").
		Limit(quantity)
	if supportsRowLocks(tx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}

	var credentials []*model.Credential
	if err := query.Find(&credentials).Error; err != nil {
		return nil, fmt.Errorf("select available credentials: %w", err)
	}
	if len(credentials) < quantity {
		return nil, fmt.Errorf("product %s has %d of %d: %w", productID, len(credentials), quantity, apperr.ErrInsufficientStock)
	}

	ids := make([]uint, len(credentials))
	payloads := make([]string, len(credentials))
	for i, c := range credentials {
		ids[i] = c.ID
		payloads[i] = c.Payload()
	}

	// test-and-set: a row sold by anyone else since the select is not counted
	result := tx.WithContext(ctx).Model(&model.Credential{}).
		Where("id IN ? AND status = ?", ids, model.CredentialAvailable).
		Updates(map[string]interface{}{
			"status":   model.CredentialSold,
			"order_id": orderID,
			"sold_at":  time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("mark credentials sold: %w", result.Error)
	}
	if result.RowsAffected != int64(quantity) {
		return nil, fmt.Errorf("claimed %d of %d credentials: %w", result.RowsAffected, quantity, apperr.ErrInsufficientStock)
	}

	return payloads, nil
}

func (r *credentialRepoImpl) AddBulk(ctx context.Context, productID string, inputs []model.CredentialInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}

	credentials := make([]*model.Credential, len(inputs))
	for i, in := range inputs {
		credentials[i] = &model.Credential{
			ProductID: productID,
			Username:  in.Username,
			Password:  in.Password,
			Status:    model.CredentialAvailable,
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(credentials, 500).Error; err != nil {
		return 0, err
	}

	return len(credentials), nil
}

func (r *credentialRepoImpl) FindByOrderID(ctx context.Context, orderID string) ([]*model.Credential, error) {
	var credentials []*model.Credential
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&credentials).Error

	if err != nil {
		return nil, err
	}

	return credentials, nil
}

func (r *credentialRepoImpl) InvalidateCount(ctx context.Context, productID string) {}

// supportsRowLocks reports whether SELECT ... FOR UPDATE is available.
func supportsRowLocks(tx *gorm.DB) bool {
	switch tx.Dialector.Name() {
	case "mysql", "postgres":
		return true
	default:
		return false
	}
}
