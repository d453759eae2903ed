package handler

import (
	"account-storefront/internal/dto"
	"account-storefront/internal/service"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxBulkBody = 8 << 20

type AdminHandler struct {
	catalogService    service.CatalogService
	settlementService service.SettlementService
}

func NewAdminHandler(catalogService service.CatalogService, settlementService service.SettlementService) *AdminHandler {
	return &AdminHandler{
		catalogService:    catalogService,
		settlementService: settlementService,
	}
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.CreateProduct(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.UpdateProduct(ctx, c.Param("productID"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	if err := h.catalogService.DeleteProduct(c.Request().Context(), c.Param("productID")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// AddCredentials accepts either a text body or {"raw": "..."}.
func (h *AdminHandler) AddCredentials(c echo.Context) error {
	ctx := c.Request().Context()

	var raw string
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var req dto.BulkCredentialsRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
		}
		raw = req.Raw
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBulkBody))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
		}
		raw = string(body)
	}

	inserted, err := h.settlementService.BulkAddCredentials(ctx, c.Param("productID"), raw)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.BulkCredentialsResponse{Inserted: inserted})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.settlementService.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}
