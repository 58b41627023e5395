package handler

import (
	"net/http"
	"winnerstore/internal/dto"
	"winnerstore/internal/service"

	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

func (h *ContactHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.contactService.Submit(ctx, &req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Result{Success: true, Message: "mensaje recibido"})
}

func (h *ContactHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	messages, err := h.contactService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messages)
}

func (h *ContactHandler) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.contactService.MarkRead(ctx, id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.Result{Success: true})
}
