package handler

import (
	"errors"
	"net/http"
	"strconv"
	"winnerstore/internal/dto"
	"winnerstore/internal/middleware"
	"winnerstore/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AffiliateHandler struct {
	affiliateService  service.AffiliateService
	commissionService service.CommissionService
}

func NewAffiliateHandler(affiliateService service.AffiliateService, commissionService service.CommissionService) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateService:  affiliateService,
		commissionService: commissionService,
	}
}

func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func (h *AffiliateHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterAffiliateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	affiliate, err := h.affiliateService.Register(ctx, &req)
	if errors.Is(err, service.ErrAlreadyRegistered) {
		return c.JSON(http.StatusOK, dto.RegisterAffiliateResponse{
			Success: false,
			Error:   "este correo ya tiene un código de afiliado",
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.RegisterAffiliateResponse{
		Success:       true,
		AffiliateCode: affiliate.AffiliateCode,
	})
}

func (h *AffiliateHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	affiliate, err := h.affiliateService.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not an affiliate")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, affiliate)
}

func (h *AffiliateHandler) MyCommissions(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	affiliate, err := h.affiliateService.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not an affiliate")
	}
	if err != nil {
		return err
	}

	commissions, err := h.commissionService.ListByAffiliate(ctx, affiliate.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, commissions)
}

func (h *AffiliateHandler) MyDownline(c echo.Context) error {
	ctx := c.Request().Context()
	email := middleware.EmailFromContext(c)

	affiliate, err := h.affiliateService.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not an affiliate")
	}
	if err != nil {
		return err
	}

	downline, err := h.affiliateService.GetDownline(ctx, affiliate.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, downline)
}

func (h *AffiliateHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	affiliates, err := h.affiliateService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, affiliates)
}

func (h *AffiliateHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.affiliateService.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "affiliate not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.Result{Success: true})
}
