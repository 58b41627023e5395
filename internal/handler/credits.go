package handler

import (
	"net/http"
	"winnerstore/internal/dto"
	"winnerstore/internal/middleware"
	"winnerstore/internal/service"

	"github.com/labstack/echo/v4"
)

type CreditsHandler struct {
	creditsService service.CreditsService
}

func NewCreditsHandler(creditsService service.CreditsService) *CreditsHandler {
	return &CreditsHandler{
		creditsService: creditsService,
	}
}

func (h *CreditsHandler) Balance(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	balance, err := h.creditsService.Balance(ctx, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balance)
}

func (h *CreditsHandler) History(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	entries, err := h.creditsService.History(ctx, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *CreditsHandler) AddCredits(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCreditsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.creditsService.AddUserCredits(ctx, req.Email, req.Amount, req.Description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CreditsHandler) ListAccounts(c echo.Context) error {
	ctx := c.Request().Context()

	accounts, err := h.creditsService.ListAccounts(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accounts)
}
