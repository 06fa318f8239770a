package commerce

import (
	"database/sql"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/commerce"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/database"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
)

// SQLOrderRepository is the SQL-based implementation of the OrderRepository.
type SQLOrderRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLOrderRepository creates a new instance of the repository.
func NewSQLOrderRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLOrderRepository {
	return &SQLOrderRepository{
		db:     db,
		logger: logger,
	}
}

// Store saves a new Order and its line items in a single transaction.
func (r *SQLOrderRepository) Store(order *commerce.Order) error {
	const orderQuery = `
		INSERT INTO orders (id, email, total_cents, status, created_at)
		VALUES (?, ?, ?, ?, ?)`
	const itemQuery = `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price_cents)
		VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing order insert", "id", order.ID, "email", order.Email, "items", len(order.Items))

	tx, err := r.db.Begin()
	if err != nil {
		r.logger.Database().Error("Failed to begin order transaction", "error", err.Error(), "id", order.ID)
		return err
	}

	_, err = tx.Exec(orderQuery, order.ID, order.Email, order.TotalCents, string(order.Status), order.CreatedAt)
	if err != nil {
		tx.Rollback()
		r.logger.Database().Error("Order insert failed", "error", err.Error(), "id", order.ID)
		return err
	}

	for _, item := range order.Items {
		_, err = tx.Exec(itemQuery, security.GenerateULID(), order.ID, item.ProductID, item.Quantity, item.UnitPriceCents)
		if err != nil {
			tx.Rollback()
			r.logger.Database().Error("Order item insert failed", "error", err.Error(), "orderId", order.ID, "productId", item.ProductID)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Database().Error("Order transaction commit failed", "error", err.Error(), "id", order.ID)
		return err
	}

	r.logger.Database().Info("Order insert completed", "id", order.ID, "email", order.Email, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, orderQuery, time.Since(start))
	return nil
}

// FindByID retrieves an Order with its line items.
func (r *SQLOrderRepository) FindByID(id string) (*commerce.Order, error) {
	const query = `
		SELECT id, email, total_cents, status, created_at
		FROM orders
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading order by ID", "id", id)

	var order commerce.Order
	var status string
	err := r.db.QueryRow(query, id).Scan(
		&order.ID,
		&order.Email,
		&order.TotalCents,
		&status,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("Order not found by ID", "id", id)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load order by ID", "error", err.Error(), "id", id)
		return nil, err
	}
	order.Status = commerce.OrderStatus(status)

	items, err := r.loadItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	r.logger.Database().Info("Order loaded by ID", "id", id, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return &order, nil
}

// FindAll retrieves every Order with line items, newest first.
func (r *SQLOrderRepository) FindAll() ([]*commerce.Order, error) {
	const query = `
		SELECT id, email, total_cents, status, created_at
		FROM orders
		ORDER BY created_at DESC`

	start := time.Now()
	r.logger.Database().Debug("Loading all orders")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to load orders", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var orders []*commerce.Order
	for rows.Next() {
		var order commerce.Order
		var status string
		if err := rows.Scan(
			&order.ID,
			&order.Email,
			&order.TotalCents,
			&status,
			&order.CreatedAt,
		); err != nil {
			r.logger.Database().Error("Failed to scan order row", "error", err.Error())
			return nil, err
		}
		order.Status = commerce.OrderStatus(status)
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.loadItems(order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	r.logger.Database().Info("Orders loaded", "count", len(orders), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return orders, nil
}

func (r *SQLOrderRepository) loadItems(orderID string) ([]commerce.OrderItem, error) {
	const query = `
		SELECT product_id, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = ?`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		r.logger.Database().Error("Failed to load order items", "error", err.Error(), "orderId", orderID)
		return nil, err
	}
	defer rows.Close()

	var items []commerce.OrderItem
	for rows.Next() {
		var item commerce.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
