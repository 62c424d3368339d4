package handlers

import (
	"errors"
	"strconv"

	"rema-partners/internal/adapters/http/middleware"
	"rema-partners/internal/core/domain"
	"rema-partners/internal/core/services"
	"rema-partners/internal/pkg/pagination"
	"rema-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetAll lists published products (public)
// @Summary List products
// @Description List published products with pagination
// @Tags Products
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} pagination.Response
// @Router /vendedor/producto/getAll [get]
func (h *ProductHandler) GetAll(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	products, total, err := h.productService.ListPublished(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}

	return c.JSON(pagination.NewResponse(products, params, total))
}

// GetByID gets a product by id (public)
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vendedor/producto/getById/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	product, err := h.productService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to get product")
	}

	return response.Success(c, "", product)
}

// Create creates a product owned by the authenticated seller
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Param body body services.CreateInput true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Security BearerAuth
// @Router /vendedor/producto/new [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req services.CreateInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sellerID := middleware.UserID(c)

	product, err := h.productService.Create(c.Context(), sellerID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Title and a positive price are required")
		}
		return response.InternalServerError(c, "Failed to create product")
	}

	return response.Created(c, "Product created", product)
}
