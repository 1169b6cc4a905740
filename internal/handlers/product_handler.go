package handlers

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes. Reads are public; writes run behind adminGuards.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, adminGuards ...fiber.Handler) {
	guarded := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, adminGuards...), handler)
	}

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", guarded(h.HandleCreateProduct)...)
	productRoutes.Put("/:id", guarded(h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", guarded(h.HandleDeleteProduct)...)
	productRoutes.Post("/:id/restock", guarded(h.HandleRestock)...)
	productRoutes.Get("/:id/movements", guarded(h.HandleGetMovements)...)
}

// ProductRequest is the body of create and update calls.
type ProductRequest struct {
	Name  string             `json:"name" validate:"required,min=3,max=100"`
	Price decimal.Decimal    `json:"price"`
	Stock int                `json:"stock" validate:"gte=0"`
	Meta  models.ProductMeta `json:"meta"`
}

// RestockRequest is the body of a restock call.
type RestockRequest struct {
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
}

// HandleGetProducts lists in-stock products, 12 per page.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	products, total, err := h.service.ListProducts(c.UserContext(), page)
	if err != nil {
		return respondError(c, "Could not retrieve products", err)
	}
	if page < 1 {
		page = 1
	}
	return c.JSON(fiber.Map{
		"data":      products,
		"page":      page,
		"page_size": services.ProductsPerPage,
		"total":     total,
	})
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product := &models.Product{Name: req.Name, Price: req.Price, Stock: req.Stock, Meta: req.Meta}
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct changes name, price and metadata. Stock in the body is ignored.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	id := c.Params("id")
	product := &models.Product{ID: id, Name: req.Name, Price: req.Price, Meta: req.Meta}
	if err := h.service.UpdateProduct(c.UserContext(), product); err != nil {
		return respondError(c, "Could not update product", err)
	}
	updated, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(updated)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

func (h *ProductHandler) HandleRestock(c *fiber.Ctx) error {
	var req RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.Restock(c.UserContext(), c.Params("id"), req.Quantity, req.Description)
	if err != nil {
		return respondError(c, "Could not restock product", err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleGetMovements(c *fiber.Ctx) error {
	movements, err := h.service.ListMovements(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve stock movements", err)
	}
	return c.JSON(movements)
}
