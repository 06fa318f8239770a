// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent adds the default catalog entries required for the
// storefront to function on a fresh database.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	// Idempotently create the starter product.
	var productExists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM products WHERE sku = 'SELLER-TOOLKIT')").Scan(&productExists)
	if err != nil {
		return fmt.Errorf("failed to check for starter product: %w", err)
	}

	if !productExists {
		productID := security.GenerateULID()
		now := time.Now().UTC()
		_, err = db.Exec(`INSERT INTO products (id, title, sku, price_cents, active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			productID, "Seller Toolkit", "SELLER-TOOLKIT", 4900, true, now)
		if err != nil {
			return fmt.Errorf("failed to insert starter product: %w", err)
		}
	}

	return nil
}

// Schema definitions
var tables = []string{
	`CREATE TABLE IF NOT EXISTS leads (id TEXT PRIMARY KEY, email TEXT NOT NULL, name TEXT NOT NULL, calculator_type TEXT NOT NULL, score INTEGER NOT NULL, results TEXT NOT NULL, status TEXT NOT NULL, source TEXT, expected_value REAL NOT NULL DEFAULT 0, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, updated_at TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, name TEXT NOT NULL, password_hash TEXT, two_factor_enabled BOOLEAN DEFAULT 0, is_admin BOOLEAN DEFAULT 0, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, updated_at TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS oauth_accounts (id TEXT PRIMARY KEY, user_id TEXT NOT NULL REFERENCES users(id), provider TEXT NOT NULL, provider_account_id TEXT NOT NULL, UNIQUE(provider, provider_account_id))`,
	`CREATE TABLE IF NOT EXISTS products (id TEXT PRIMARY KEY, title TEXT NOT NULL, sku TEXT NOT NULL UNIQUE, price_cents INTEGER NOT NULL, active BOOLEAN DEFAULT 1, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS orders (id TEXT PRIMARY KEY, email TEXT NOT NULL, total_cents INTEGER NOT NULL, status TEXT NOT NULL, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS order_items (id TEXT PRIMARY KEY, order_id TEXT NOT NULL REFERENCES orders(id), product_id TEXT NOT NULL REFERENCES products(id), quantity INTEGER NOT NULL, unit_price_cents INTEGER NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS visits (id TEXT PRIMARY KEY, session_id TEXT NOT NULL, campaign_source TEXT, campaign_medium TEXT, http_referrer TEXT, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_calculator_type ON leads(calculator_type)`,
	`CREATE INDEX IF NOT EXISTS idx_oauth_accounts_user_id ON oauth_accounts(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_session_id ON visits(session_id)`,
}
