package handler

import (
	"net/http"
	"path/filepath"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ListProducts(ctx, false)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) ListAllProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ListProducts(ctx, true)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogService.GetProduct(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.catalogService.CreateProduct(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	product, err := h.catalogService.UpdateProduct(ctx, id, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing image file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.catalogService.UploadProductImage(ctx, id, filepath.Ext(fileHeader.Filename), file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"image_url": url})
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalogService.ListCategories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := h.catalogService.CreateCategory(ctx, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) ListPaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()

	methods, err := h.catalogService.ListPaymentMethods(ctx, false)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, methods)
}

func (h *CatalogHandler) CreatePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	var method model.PaymentMethod
	if err := c.Bind(&method); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.catalogService.CreatePaymentMethod(ctx, &method); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, method)
}

func (h *CatalogHandler) UpdatePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var method model.PaymentMethod
	if err := c.Bind(&method); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	method.ID = id

	if err := h.catalogService.UpdatePaymentMethod(ctx, &method); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, method)
}

func (h *CatalogHandler) UploadPaymentQR(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("qr")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing qr file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := h.catalogService.UploadPaymentQR(ctx, id, filepath.Ext(fileHeader.Filename), file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"qr_url": url})
}
