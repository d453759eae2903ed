// Package qrpayfake is an in-memory QR payment gateway speaking the deposit/status API.
// Charges stay pending until SetStatus or the simulate endpoint moves them.
package qrpayfake

import (
	"account-storefront/internal/model"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusSettlement = "settlement"
	StatusExpired    = "expired"
)

type charge struct {
	amountToPay int64
	status      string
}

type Gateway struct {
	echo   *echo.Echo
	apiKey string

	mu      sync.Mutex
	seq     int64
	charges map[string]*charge
}

type simulateRequest struct {
	Status string `json:"status"`
}

// New returns a gateway that requires apiKey on every call when it is non-empty.
func New(apiKey string) *Gateway {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	g := &Gateway{
		echo:    e,
		apiKey:  apiKey,
		charges: map[string]*charge{},
	}

	api := e.Group("/api/payment", g.requireAPIKey)
	api.POST("/deposit", g.deposit)
	api.GET("/status/:orderID", g.status)
	api.POST("/simulate/:orderID", g.simulate)

	return g
}

func (g *Gateway) Handler() http.Handler {
	return g.echo
}

func (g *Gateway) Start(address string) error {
	return g.echo.Start(address)
}

func (g *Gateway) Shutdown() error {
	return g.echo.Close()
}

// SetStatus moves a charge to settlement, expired or back to pending.
func (g *Gateway) SetStatus(orderID, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case StatusPending, StatusSettlement, StatusExpired:
	default:
		return fmt.Errorf("unknown charge status %q", status)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.charges[orderID]
	if !ok {
		return fmt.Errorf("charge %s not found", orderID)
	}
	c.status = status
	return nil
}

func (g *Gateway) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if g.apiKey != "" && c.QueryParam("apikey") != g.apiKey {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid apikey"})
		}
		return next(c)
	}
}

func (g *Gateway) deposit(c echo.Context) error {
	var req model.GatewayDepositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "amount must be positive"})
	}

	g.mu.Lock()
	g.seq++
	// a small unique suffix lets the provider match the transfer to the charge
	amountToPay := req.Amount + g.seq%100
	orderID := "QR-" + strings.ToUpper(uuid.NewString()[:8])
	g.charges[orderID] = &charge{amountToPay: amountToPay, status: StatusPending}
	g.mu.Unlock()

	return c.JSON(http.StatusOK, model.GatewayDepositResponse{
		OrderID:     orderID,
		AmountToPay: decimal.NewNullDecimal(decimal.NewFromInt(amountToPay)),
		QRCodeURL:   fmt.Sprintf("https://qr.example/pay/%s?amount=%d", orderID, amountToPay),
	})
}

func (g *Gateway) status(c echo.Context) error {
	orderID := c.Param("orderID")

	g.mu.Lock()
	ch, ok := g.charges[orderID]
	var status string
	if ok {
		status = ch.status
	}
	g.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "order not found"})
	}

	return c.JSON(http.StatusOK, model.GatewayStatusResponse{
		OrderID: orderID,
		Status:  status,
	})
}

func (g *Gateway) simulate(c echo.Context) error {
	var req simulateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	if err := g.SetStatus(c.Param("orderID"), req.Status); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	return c.JSON(http.StatusOK, model.GatewayStatusResponse{
		OrderID: c.Param("orderID"),
		Status:  strings.ToLower(strings.TrimSpace(req.Status)),
	})
}
