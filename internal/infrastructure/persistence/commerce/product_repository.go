// Package commerce provides the concrete SQL-based implementations of
// the storefront repositories (Product, Order).
package commerce

import (
	"database/sql"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/commerce"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/database"
)

// SQLProductRepository is the SQL-based implementation of the ProductRepository.
type SQLProductRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLProductRepository creates a new instance of the repository.
func NewSQLProductRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProductRepository {
	return &SQLProductRepository{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves a Product by its unique identifier.
func (r *SQLProductRepository) FindByID(id string) (*commerce.Product, error) {
	const query = `
		SELECT id, title, sku, price_cents, active, created_at
		FROM products
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading product by ID", "id", id)

	var product commerce.Product
	err := r.db.QueryRow(query, id).Scan(
		&product.ID,
		&product.Title,
		&product.SKU,
		&product.PriceCents,
		&product.Active,
		&product.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("Product not found by ID", "id", id)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load product by ID", "error", err.Error(), "id", id)
		return nil, err
	}

	r.logger.Database().Info("Product loaded by ID", "id", id, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return &product, nil
}

// FindAllActive retrieves every active Product ordered by title.
func (r *SQLProductRepository) FindAllActive() ([]*commerce.Product, error) {
	const query = `
		SELECT id, title, sku, price_cents, active, created_at
		FROM products
		WHERE active = 1
		ORDER BY title`

	start := time.Now()
	r.logger.Database().Debug("Loading active products")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to load active products", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var products []*commerce.Product
	for rows.Next() {
		var product commerce.Product
		if err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.SKU,
			&product.PriceCents,
			&product.Active,
			&product.CreatedAt,
		); err != nil {
			r.logger.Database().Error("Failed to scan product row", "error", err.Error())
			return nil, err
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Info("Active products loaded", "count", len(products), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return products, nil
}
