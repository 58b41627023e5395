package handler

import (
	"net/http"
	"winnerstore/internal/dto"
	"winnerstore/internal/service"

	"github.com/labstack/echo/v4"
)

// AdminHandler covers the back-office surface: payment verification,
// order management and business settings.
type AdminHandler struct {
	orderService        service.OrderService
	verificationService service.VerificationService
	settingsService     service.SettingsService
}

func NewAdminHandler(
	orderService service.OrderService,
	verificationService service.VerificationService,
	settingsService service.SettingsService,
) *AdminHandler {
	return &AdminHandler{
		orderService:        orderService,
		verificationService: verificationService,
		settingsService:     settingsService,
	}
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) ListPendingVerification(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListPendingVerification(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) ListPaymentProofs(c echo.Context) error {
	ctx := c.Request().Context()

	proofs, err := h.verificationService.ListProofs(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, proofs)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.orderService.UpdateStatus(ctx, id, req.Status); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Result{Success: true})
}

func (h *AdminHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.verificationService.VerifyDirectPayment(ctx, id, req.Approved, req.AdminNotes)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) GetSettings(c echo.Context) error {
	ctx := c.Request().Context()

	settings, err := h.settingsService.GetAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdateSetting(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SettingInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.settingsService.Set(ctx, req.Key, req.Value); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Result{Success: true})
}
