package services

import (
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/apperrors"
	"github.com/sellermetrics/leadstack-go/internal/domain/commerce"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/performance"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
)

// CreateOrderItem is one requested line in an order submission.
type CreateOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest carries an order submission from the storefront.
type CreateOrderRequest struct {
	Email string            `json:"email"`
	Items []CreateOrderItem `json:"items"`
}

// CommerceService handles the storefront catalog and order flow.
// Totals are always computed server side from catalog prices; client
// supplied prices are never trusted. Payment is out of scope.
type CommerceService struct {
	products    commerce.ProductRepository
	orders      commerce.OrderRepository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewCommerceService creates a new commerce service.
func NewCommerceService(products commerce.ProductRepository, orders commerce.OrderRepository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CommerceService {
	return &CommerceService{
		products:    products,
		orders:      orders,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ListProducts returns the active catalog.
func (s *CommerceService) ListProducts() ([]*commerce.Product, error) {
	start := time.Now()

	var marker *performance.Marker
	if s.perfTracker != nil {
		marker = s.perfTracker.StartOperation("commerce:catalog_query")
	}

	products, err := s.products.FindAllActive()

	if marker != nil {
		marker.SetSuccess(err == nil)
		if err != nil {
			marker.SetError(err)
		}
		s.perfTracker.CompleteOperation(marker)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Commerce().Debug("Catalog listed", "count", len(products), "duration", time.Since(start))
	return products, nil
}

// GetProduct returns one product by ID, apperrors.ErrNotFound when absent.
func (s *CommerceService) GetProduct(id string) (*commerce.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.ErrNotFound
	}
	return product, nil
}

// CreateOrder validates the requested items against the catalog,
// computes the total from current prices, and persists the order.
func (s *CommerceService) CreateOrder(req *CreateOrderRequest) (*commerce.Order, error) {
	start := time.Now()

	var marker *performance.Marker
	if s.perfTracker != nil {
		marker = s.perfTracker.StartOperation("commerce:order_creation")
	}
	complete := func(err error) {
		if marker == nil {
			return
		}
		marker.SetSuccess(err == nil)
		if err != nil {
			marker.SetError(err)
		}
		s.perfTracker.CompleteOperation(marker)
	}

	if req.Email == "" || len(req.Items) == 0 {
		complete(apperrors.ErrValidation)
		return nil, apperrors.ErrValidation
	}

	var items []commerce.OrderItem
	var totalCents int64
	for _, requested := range req.Items {
		if requested.Quantity <= 0 {
			complete(apperrors.ErrValidation)
			return nil, apperrors.ErrValidation
		}

		product, err := s.products.FindByID(requested.ProductID)
		if err != nil {
			complete(err)
			return nil, err
		}
		if product == nil || !product.Active {
			s.logger.Commerce().Warn("Order rejected, unknown or inactive product", "productId", requested.ProductID)
			complete(apperrors.ErrValidation)
			return nil, apperrors.ErrValidation
		}

		items = append(items, commerce.OrderItem{
			ProductID:      product.ID,
			Quantity:       requested.Quantity,
			UnitPriceCents: product.PriceCents,
		})
		totalCents += product.PriceCents * int64(requested.Quantity)
	}

	order := &commerce.Order{
		ID:         security.GenerateULID(),
		Email:      req.Email,
		Items:      items,
		TotalCents: totalCents,
		Status:     commerce.OrderPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.orders.Store(order); err != nil {
		complete(err)
		return nil, apperrors.ErrInternal
	}

	complete(nil)
	s.logger.Commerce().Info("Order created", "orderId", order.ID, "items", len(items), "totalCents", totalCents, "duration", time.Since(start))
	return order, nil
}

// ListOrders returns every order, newest first, for the admin dashboard.
func (s *CommerceService) ListOrders() ([]*commerce.Order, error) {
	return s.orders.FindAll()
}
