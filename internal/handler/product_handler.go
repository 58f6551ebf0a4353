package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
	"github.com/ahmad-hanafi1/product-store-pern/internal/service"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/response"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles GET /api/product
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	response.Success(c, products)
}

// Get handles GET /api/product/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, product)
}

// Create handles POST /api/product
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, "Product created", product)
}

// Update handles PUT /api/product/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Product updated", product)
}

// Delete handles DELETE /api/product/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Product deleted", dto.DeletedResponse{ID: id})
}
