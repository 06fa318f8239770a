// Package users provides the concrete SQL-based implementation of
// the user domain repository.
package users

import (
	"database/sql"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/users"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/database"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
)

// SQLUserRepository is the SQL-based implementation of the users.Repository.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves a User by their unique identifier.
func (r *SQLUserRepository) FindByID(id string) (*users.User, error) {
	const query = `
		SELECT id, email, name, password_hash, two_factor_enabled, is_admin, created_at, updated_at
		FROM users
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by ID", "id", id)

	row := r.db.QueryRow(query, id)
	user, err := r.scanUser(row)
	if err != nil {
		r.logger.Database().Error("Failed to load user by ID", "error", err.Error(), "id", id)
		return nil, err
	}
	if user == nil {
		r.logger.Database().Debug("User not found by ID", "id", id)
		return nil, nil
	}

	r.logger.Database().Info("User loaded by ID", "id", id, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return user, nil
}

// FindByEmail retrieves a User by their email address.
func (r *SQLUserRepository) FindByEmail(email string) (*users.User, error) {
	const query = `
		SELECT id, email, name, password_hash, two_factor_enabled, is_admin, created_at, updated_at
		FROM users
		WHERE email = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by email", "email", email)

	row := r.db.QueryRow(query, email)
	user, err := r.scanUser(row)
	if err != nil {
		r.logger.Database().Error("Failed to load user by email", "error", err.Error(), "email", email)
		return nil, err
	}
	if user == nil {
		r.logger.Database().Debug("User not found by email", "email", email)
		return nil, nil
	}

	r.logger.Database().Info("User loaded by email", "email", email, "userId", user.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return user, nil
}

// FindByProviderAccount retrieves a User through a linked OAuth account.
func (r *SQLUserRepository) FindByProviderAccount(provider users.Provider, providerAccountID string) (*users.User, error) {
	const query = `
		SELECT u.id, u.email, u.name, u.password_hash, u.two_factor_enabled, u.is_admin, u.created_at, u.updated_at
		FROM users u
		JOIN oauth_accounts oa ON oa.user_id = u.id
		WHERE oa.provider = ? AND oa.provider_account_id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by provider account", "provider", provider, "providerAccountId", providerAccountID)

	row := r.db.QueryRow(query, string(provider), providerAccountID)
	user, err := r.scanUser(row)
	if err != nil {
		r.logger.Database().Error("Failed to load user by provider account", "error", err.Error(), "provider", provider)
		return nil, err
	}
	if user == nil {
		r.logger.Database().Debug("User not found by provider account", "provider", provider)
		return nil, nil
	}

	r.logger.Database().Info("User loaded by provider account", "provider", provider, "userId", user.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return user, nil
}

// Store saves a new User to the database.
func (r *SQLUserRepository) Store(user *users.User) error {
	const query = `
		INSERT INTO users (id, email, name, password_hash, two_factor_enabled, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing user insert", "id", user.ID, "email", user.Email)

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.TwoFactorEnabled,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.logger.Database().Error("User insert failed", "error", err.Error(), "id", user.ID, "email", user.Email)
		return err
	}

	r.logger.Database().Info("User insert completed", "id", user.ID, "email", user.Email, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Update modifies an existing User in the database.
func (r *SQLUserRepository) Update(user *users.User) error {
	const query = `
		UPDATE users
		SET email = ?, name = ?, password_hash = ?, two_factor_enabled = ?, is_admin = ?, updated_at = ?
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing user update", "id", user.ID, "email", user.Email)

	_, err := r.db.Exec(
		query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.TwoFactorEnabled,
		user.IsAdmin,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		r.logger.Database().Error("User update failed", "error", err.Error(), "id", user.ID, "email", user.Email)
		return err
	}

	r.logger.Database().Info("User update completed", "id", user.ID, "email", user.Email, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// LinkProviderAccount attaches an OAuth account to an existing user. Linking
// the same provider account twice is a no-op.
func (r *SQLUserRepository) LinkProviderAccount(account *users.OAuthAccount) error {
	const query = `
		INSERT OR IGNORE INTO oauth_accounts (id, user_id, provider, provider_account_id)
		VALUES (?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Linking provider account", "userId", account.UserID, "provider", account.Provider)

	_, err := r.db.Exec(query, security.GenerateULID(), account.UserID, string(account.Provider), account.ProviderAccountID)
	if err != nil {
		r.logger.Database().Error("Provider account link failed", "error", err.Error(), "userId", account.UserID, "provider", account.Provider)
		return err
	}

	r.logger.Database().Info("Provider account linked", "userId", account.UserID, "provider", account.Provider, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// scanUser is a helper to scan a sql.Row into a User struct.
func (r *SQLUserRepository) scanUser(row *sql.Row) (*users.User, error) {
	var user users.User
	var passwordHash sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&passwordHash,
		&user.TwoFactorEnabled,
		&user.IsAdmin,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}

	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}

	return &user, nil
}
