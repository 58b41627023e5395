package handler

import (
	"errors"
	"net/http"
	"winnerstore/internal/dto"
	"winnerstore/internal/middleware"
	"winnerstore/internal/repository"
	"winnerstore/internal/service"

	"github.com/labstack/echo/v4"
)

type WithdrawalHandler struct {
	withdrawalService service.WithdrawalService
}

func NewWithdrawalHandler(withdrawalService service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

func (h *WithdrawalHandler) Request(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	var req dto.WithdrawalRequestInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	request, err := h.withdrawalService.Request(ctx, email, &req)
	if errors.Is(err, repository.ErrInsufficientBalance) || errors.Is(err, service.ErrNoCreditAccount) {
		return c.JSON(http.StatusOK, dto.Result{
			Success: false,
			Error:   "WinnerPoints insuficientes para este retiro",
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, request)
}

func (h *WithdrawalHandler) MyRequests(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	requests, err := h.withdrawalService.ListByEmail(ctx, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, requests)
}

func (h *WithdrawalHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	requests, err := h.withdrawalService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, requests)
}

func (h *WithdrawalHandler) Process(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProcessWithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.withdrawalService.Process(ctx, id, req.Approved, req.AdminNotes)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
