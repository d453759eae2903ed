package handler

import (
	"account-storefront/internal/dto"
	"account-storefront/internal/model"
	"account-storefront/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type StorefrontHandler struct {
	settlementService service.SettlementService
	catalogService    service.CatalogService
}

func NewStorefrontHandler(settlementService service.SettlementService, catalogService service.CatalogService) *StorefrontHandler {
	return &StorefrontHandler{
		settlementService: settlementService,
		catalogService:    catalogService,
	}
}

func (h *StorefrontHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	order, err := h.settlementService.PlaceOrder(ctx, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPlaceOrderResponse(order))
}

// OrderStatus is polled by the buyer until the order settles or expires.
func (h *StorefrontHandler) OrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderID")
	result, err := h.settlementService.PollAndSettle(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OrderStatusResponse{
		OrderID:           orderID,
		Status:            string(result.Status),
		DeliveredAccounts: result.DeliveredAccounts,
	})
}

func (h *StorefrontHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *StorefrontHandler) Stock(c echo.Context) error {
	ctx := c.Request().Context()

	productID := c.Param("productID")
	if _, err := h.catalogService.GetProduct(ctx, productID); err != nil {
		return err
	}

	available, err := h.settlementService.CountAvailable(ctx, productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.StockResponse{
		ProductID: productID,
		Available: available,
	})
}

func toPlaceOrderResponse(order *model.Order) dto.PlaceOrderResponse {
	return dto.PlaceOrderResponse{
		OrderID:   order.ExternalID,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Total:     order.Total,
		QRPayload: order.QRPayload,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
	}
}
