package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/leadstack-go/internal/application/services"
	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
)

// CommerceHandlers contains the storefront HTTP handlers
type CommerceHandlers struct {
	commerceService *services.CommerceService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewCommerceHandlers creates commerce handlers with injected dependencies
func NewCommerceHandlers(commerceService *services.CommerceService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CommerceHandlers {
	return &CommerceHandlers{
		commerceService: commerceService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetProducts handles GET /api/v1/products
func (h *CommerceHandlers) GetProducts(c *gin.Context) {
	products, err := h.commerceService.ListProducts()
	if err != nil {
		h.logger.Commerce().Error("Catalog listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /api/v1/products/:id
func (h *CommerceHandlers) GetProduct(c *gin.Context) {
	product, err := h.commerceService.GetProduct(c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		h.logger.Commerce().Error("Product lookup failed", "productId", c.Param("id"), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// PostOrder handles POST /api/v1/orders
func (h *CommerceHandlers) PostOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	order, err := h.commerceService.CreateOrder(&req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
			return
		}
		h.logger.Commerce().Error("Order creation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// GetOrders handles GET /api/v1/orders - admin listing, newest first
func (h *CommerceHandlers) GetOrders(c *gin.Context) {
	orders, err := h.commerceService.ListOrders()
	if err != nil {
		h.logger.Commerce().Error("Order listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
