package server

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/dto"
	"account-storefront/internal/handler"
	"account-storefront/internal/middleware"
	"account-storefront/internal/service"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo              *echo.Echo
	adminService      service.AdminService
	storefrontHandler *handler.StorefrontHandler
	adminHandler      *handler.AdminHandler
	authHandler       *handler.AuthHandler
}

func NewServer(settlementService service.SettlementService, catalogService service.CatalogService, adminService service.AdminService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:              e,
		adminService:      adminService,
		storefrontHandler: handler.NewStorefrontHandler(settlementService, catalogService),
		adminHandler:      handler.NewAdminHandler(catalogService, settlementService),
		authHandler:       handler.NewAuthHandler(adminService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.storefrontHandler.ListProducts)
	api.GET("/products/:productID/stock", s.storefrontHandler.Stock)
	api.POST("/orders", s.storefrontHandler.PlaceOrder)
	api.GET("/orders/:orderID/status", s.storefrontHandler.OrderStatus)

	// -------- admin --------
	api.POST("/admin/login", s.authHandler.Login)

	admin := api.Group("/admin", middleware.AdminAuth(s.adminService))
	admin.GET("/products", s.adminHandler.ListProducts)
	admin.POST("/products", s.adminHandler.CreateProduct)
	admin.PUT("/products/:productID", s.adminHandler.UpdateProduct)
	admin.DELETE("/products/:productID", s.adminHandler.DeleteProduct)
	admin.POST("/products/:productID/credentials", s.adminHandler.AddCredentials)
	admin.GET("/orders", s.adminHandler.ListOrders)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// errorHandler renders every failure as {"error": {"kind", "message"}}. Gateway and
// internal failures get a fixed message so transport details never reach the buyer.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := renderError(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"kind", body.Kind,
			"path", c.Path(),
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, dto.ErrorResponse{Error: body})
	}
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "write error response", "error", err)
	}
}

func renderError(err error) (int, dto.ErrorBody) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, dto.ErrorBody{
			Kind:    kindForStatus(httpErr.Code),
			Message: messageOf(httpErr),
		}
	}

	kind := apperr.Kind(err)
	status := apperr.HTTPStatus(err)

	message := err.Error()
	switch kind {
	case "settlement_stock_exhausted":
		message = "payment received but stock ran out; the order is held for an operator"
	case "settlement_failure":
		message = "payment received but the order could not be completed; retry polling"
	case "gateway_unavailable":
		message = apperr.ErrGatewayUnavailable.Error()
	case "unauthorized":
		message = apperr.ErrUnauthorized.Error()
	case "timeout", "canceled", "internal":
		message = http.StatusText(status)
	}

	return status, dto.ErrorBody{Kind: kind, Message: message}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		if status >= http.StatusInternalServerError {
			return "internal"
		}
		return "bad_request"
	}
}

func messageOf(httpErr *echo.HTTPError) string {
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}
	return http.StatusText(httpErr.Code)
}
