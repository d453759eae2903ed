package service

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/client"
	"account-storefront/internal/model"
	"account-storefront/internal/repository"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettlementService interface {
	PlaceOrder(ctx context.Context, productID string, quantity int) (*model.Order, error)
	PollAndSettle(ctx context.Context, externalOrderID string) (*SettlementResult, error)
	CountAvailable(ctx context.Context, productID string) (int64, error)
	BulkAddCredentials(ctx context.Context, productID, raw string) (int, error)
	ListOrders(ctx context.Context) ([]*model.Order, error)
}

// SettlementResult is what a poll observed. DeliveredAccounts is set only for settlement.
type SettlementResult struct {
	Status            model.OrderStatus
	DeliveredAccounts []string
	Order             *model.Order
}

type settlementServiceImpl struct {
	db             *gorm.DB
	gatewayClient  client.GatewayClient
	eventPublisher client.EventPublisher
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	credentialRepo repository.CredentialRepository
}

func NewSettlementService(
	db *gorm.DB,
	gatewayClient client.GatewayClient,
	eventPublisher client.EventPublisher,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	credentialRepo repository.CredentialRepository,
) SettlementService {
	if eventPublisher == nil {
		eventPublisher = client.NoopEventPublisher{}
	}

	return &settlementServiceImpl{
		db:             db,
		gatewayClient:  gatewayClient,
		eventPublisher: eventPublisher,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		credentialRepo: credentialRepo,
	}
}

func (s *settlementServiceImpl) PlaceOrder(ctx context.Context, productID string, quantity int) (*model.Order, error) {
	if quantity <= 0 {
		return nil, apperr.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	// advisory only; the settlement transaction is authoritative
	available, err := s.credentialRepo.CountAvailable(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("count available credentials: %w", err)
	}
	if int64(quantity) > available {
		return nil, fmt.Errorf("product %s has %d available, %d requested: %w",
			productID, available, quantity, apperr.ErrInsufficientStock)
	}

	total := product.Price * int64(quantity)
	charge, err := s.gatewayClient.CreateCharge(ctx, total)
	if err != nil {
		return nil, fmt.Errorf("gateway create charge: %w", err)
	}

	order := &model.Order{
		ID:         uuid.NewString(),
		ExternalID: charge.ExternalOrderID,
		ProductID:  productID,
		Quantity:   quantity,
		Total:      charge.AmountToPay,
		QRPayload:  charge.QRPayload,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}

	slog.InfoContext(ctx, "order placed",
		"external_order_id", order.ExternalID,
		"product_id", productID,
		"quantity", quantity,
		"total", order.Total,
	)

	return order, nil
}

func (s *settlementServiceImpl) PollAndSettle(ctx context.Context, externalOrderID string) (*SettlementResult, error) {
	order, err := s.orderRepo.FindByExternalID(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return resultOf(order), nil
	}

	status, err := s.gatewayClient.GetChargeStatus(ctx, externalOrderID)
	if err != nil {
		if !errors.Is(err, apperr.ErrGatewayUnavailable) {
			return nil, fmt.Errorf("gateway charge status: %w", err)
		}
		slog.WarnContext(ctx, "gateway status unavailable, treating as pending",
			"external_order_id", externalOrderID,
			"error", err,
		)
		status = model.ChargePending
	}

	switch status {
	case model.ChargeExpired:
		return s.expire(ctx, externalOrderID)
	case model.ChargePaid:
		return s.settle(ctx, order)
	default:
		return resultOf(order), nil
	}
}

func (s *settlementServiceImpl) expire(ctx context.Context, externalOrderID string) (*SettlementResult, error) {
	order, err := s.orderRepo.MarkExpired(ctx, externalOrderID)
	if err != nil {
		return nil, fmt.Errorf("mark order expired: %w", err)
	}

	if order.Status == model.OrderExpired {
		slog.InfoContext(ctx, "order expired",
			"external_order_id", externalOrderID,
			"product_id", order.ProductID,
		)
		s.publish(ctx, client.EventOrderExpired, order)
	}

	return resultOf(order), nil
}

func (s *settlementServiceImpl) settle(ctx context.Context, pending *model.Order) (*SettlementResult, error) {
	externalOrderID := pending.ExternalID

	var settled *model.Order
	alreadySettled := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByExternalID(ctx, tx, externalOrderID)
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		switch order.Status {
		case model.OrderSettlement:
			settled = order
			alreadySettled = true
			return nil
		case model.OrderExpired:
			return fmt.Errorf("order %s expired before settlement", externalOrderID)
		}

		delivered, err := s.credentialRepo.ReserveAndConsume(ctx, tx, order.ProductID, order.ID, order.Quantity)
		if err != nil {
			return fmt.Errorf("reserve credentials: %w", err)
		}

		settled, err = s.orderRepo.MarkSettled(ctx, tx, externalOrderID, delivered)
		if err != nil {
			return fmt.Errorf("mark order settled: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInsufficientStock) {
			slog.ErrorContext(ctx, "paid order cannot be fulfilled, stock exhausted",
				"external_order_id", externalOrderID,
				"product_id", pending.ProductID,
				"quantity", pending.Quantity,
			)
		} else {
			slog.ErrorContext(ctx, "settlement failed",
				"external_order_id", externalOrderID,
				"error", err,
			)
		}
		return nil, &apperr.SettlementError{ExternalOrderID: externalOrderID, Err: err}
	}

	if !alreadySettled {
		s.credentialRepo.InvalidateCount(ctx, settled.ProductID)

		slog.InfoContext(ctx, "order settled",
			"external_order_id", externalOrderID,
			"product_id", settled.ProductID,
			"quantity", settled.Quantity,
		)
		s.publish(ctx, client.EventOrderSettled, settled)
	}

	return resultOf(settled), nil
}

// publish runs after commit. A lost event never undoes a settlement.
func (s *settlementServiceImpl) publish(ctx context.Context, eventType string, order *model.Order) {
	err := s.eventPublisher.Publish(ctx, client.OrderEvent{
		Type:            eventType,
		OrderID:         order.ID,
		ExternalOrderID: order.ExternalID,
		ProductID:       order.ProductID,
		Quantity:        order.Quantity,
		Total:           order.Total,
		OccurredAt:      time.Now().UTC(),
	})
	if err != nil {
		slog.WarnContext(ctx, "publish order event failed",
			"event_type", eventType,
			"external_order_id", order.ExternalID,
			"error", err,
		)
	}
}

func (s *settlementServiceImpl) CountAvailable(ctx context.Context, productID string) (int64, error) {
	return s.credentialRepo.CountAvailable(ctx, productID)
}

func (s *settlementServiceImpl) BulkAddCredentials(ctx context.Context, productID, raw string) (int, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return 0, fmt.Errorf("get product: %w", err)
	}

	inserted, err := s.credentialRepo.AddBulk(ctx, productID, ParseBulk(raw))
	if err != nil {
		return 0, fmt.Errorf("insert credentials: %w", err)
	}

	slog.InfoContext(ctx, "credentials stocked", "product_id", productID, "inserted", inserted)
	return inserted, nil
}

func (s *settlementServiceImpl) ListOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

func resultOf(order *model.Order) *SettlementResult {
	result := &SettlementResult{
		Status: order.Status,
		Order:  order,
	}
	if order.Status == model.OrderSettlement {
		result.DeliveredAccounts = []string(order.DeliveredAccounts)
	}
	return result
}
