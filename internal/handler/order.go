package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"winnerstore/internal/dto"
	"winnerstore/internal/middleware"
	"winnerstore/internal/repository"
	"winnerstore/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.orderService.Checkout(ctx, email, &req)
	if errors.Is(err, repository.ErrInsufficientBalance) {
		return c.JSON(http.StatusOK, dto.CheckoutResponse{
			Success: false,
			Error:   "WinnerPoints insuficientes",
		})
	}
	if errors.Is(err, repository.ErrInsufficientStock) {
		return c.JSON(http.StatusOK, dto.CheckoutResponse{
			Success: false,
			Error:   "stock insuficiente",
		})
	}
	if errors.Is(err, service.ErrProductNotFound) {
		return c.JSON(http.StatusOK, dto.CheckoutResponse{
			Success: false,
			Error:   "algunos productos no están disponibles",
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CheckoutResponse{
		Success:       true,
		OrderID:       order.ID,
		PaymentStatus: order.PaymentStatus,
	})
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	orders, err := h.orderService.ListByEmail(ctx, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}

	// Buyers only see their own orders, admins see all.
	isAdmin, _ := c.Get(middleware.ContextIsAdmin).(bool)
	if !isAdmin && order.UserEmail != middleware.EmailFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}

	items, err := h.orderService.GetItems(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

func (h *OrderHandler) SubmitPaymentProof(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	method := c.FormValue("payment_method")
	if method == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing payment_method")
	}

	amount := decimal.Zero
	if raw := c.FormValue("amount"); raw != "" {
		amount, err = decimal.NewFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
		}
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing proof file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	proof, err := h.orderService.SubmitPaymentProof(ctx, id, method, filepath.Ext(fileHeader.Filename), file, amount)
	if errors.Is(err, service.ErrOrderNotPending) {
		return c.JSON(http.StatusOK, dto.Result{
			Success: false,
			Error:   "el pedido no está pendiente de verificación",
		})
	}
	if errors.Is(err, service.ErrProofPending) {
		return c.JSON(http.StatusOK, dto.Result{
			Success: false,
			Error:   "ya hay un comprobante en revisión para este pedido",
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, proof)
}
