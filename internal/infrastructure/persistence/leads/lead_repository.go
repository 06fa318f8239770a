// Package leads provides the concrete SQL-based implementation of
// the lead domain repository.
package leads

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/leads"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/database"
)

// SQLLeadRepository is the SQL-based implementation of the leads.Repository.
type SQLLeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLLeadRepository creates a new instance of the repository.
func NewSQLLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLLeadRepository {
	return &SQLLeadRepository{
		db:     db,
		logger: logger,
	}
}

// Store saves a new Lead to the database.
func (r *SQLLeadRepository) Store(lead *leads.Lead) error {
	const query = `
		INSERT INTO leads (id, email, name, calculator_type, score, results,
		                   status, source, expected_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing lead insert", "id", lead.ID, "email", lead.Email)

	resultsJSON, err := json.Marshal(lead.Results)
	if err != nil {
		r.logger.Database().Error("Failed to serialize lead results", "error", err.Error(), "id", lead.ID)
		return err
	}

	_, err = r.db.Exec(
		query,
		lead.ID,
		lead.Email,
		lead.Name,
		lead.CalculatorType,
		lead.Score,
		string(resultsJSON),
		string(lead.Status),
		lead.Source,
		lead.ExpectedValue,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		r.logger.Database().Error("Lead insert failed", "error", err.Error(), "id", lead.ID, "email", lead.Email)
		return err
	}

	r.logger.Database().Info("Lead insert completed", "id", lead.ID, "email", lead.Email, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindByID retrieves a Lead by its unique identifier.
func (r *SQLLeadRepository) FindByID(id string) (*leads.Lead, error) {
	const query = `
		SELECT id, email, name, calculator_type, score, results,
		       status, source, expected_value, created_at, updated_at
		FROM leads
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading lead by ID", "id", id)

	row := r.db.QueryRow(query, id)
	lead, err := r.scanLead(row)
	if err != nil {
		r.logger.Database().Error("Failed to load lead by ID", "error", err.Error(), "id", id)
		return nil, err
	}
	if lead == nil {
		r.logger.Database().Debug("Lead not found by ID", "id", id)
		return nil, nil
	}

	r.logger.Database().Info("Lead loaded by ID", "id", id, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return lead, nil
}

// FindAll retrieves every Lead, newest first.
func (r *SQLLeadRepository) FindAll() ([]*leads.Lead, error) {
	const query = `
		SELECT id, email, name, calculator_type, score, results,
		       status, source, expected_value, created_at, updated_at
		FROM leads
		ORDER BY created_at DESC`

	start := time.Now()
	r.logger.Database().Debug("Loading all leads")

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to load leads", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var result []*leads.Lead
	for rows.Next() {
		lead, err := r.scanLeadRows(rows)
		if err != nil {
			r.logger.Database().Error("Failed to scan lead row", "error", err.Error())
			return nil, err
		}
		result = append(result, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Info("Leads loaded", "count", len(result), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return result, nil
}

// scanLead is a helper to scan a sql.Row into a Lead struct.
func (r *SQLLeadRepository) scanLead(row *sql.Row) (*leads.Lead, error) {
	var lead leads.Lead
	var resultsJSON, status string
	var source sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&lead.ID,
		&lead.Email,
		&lead.Name,
		&lead.CalculatorType,
		&lead.Score,
		&resultsJSON,
		&status,
		&source,
		&lead.ExpectedValue,
		&lead.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}

	return r.hydrateLead(&lead, resultsJSON, status, source, updatedAt)
}

// scanLeadRows scans the current row of a sql.Rows cursor into a Lead struct.
func (r *SQLLeadRepository) scanLeadRows(rows *sql.Rows) (*leads.Lead, error) {
	var lead leads.Lead
	var resultsJSON, status string
	var source sql.NullString
	var updatedAt sql.NullTime

	err := rows.Scan(
		&lead.ID,
		&lead.Email,
		&lead.Name,
		&lead.CalculatorType,
		&lead.Score,
		&resultsJSON,
		&status,
		&source,
		&lead.ExpectedValue,
		&lead.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.hydrateLead(&lead, resultsJSON, status, source, updatedAt)
}

func (r *SQLLeadRepository) hydrateLead(lead *leads.Lead, resultsJSON, status string, source sql.NullString, updatedAt sql.NullTime) (*leads.Lead, error) {
	if resultsJSON != "" {
		if err := json.Unmarshal([]byte(resultsJSON), &lead.Results); err != nil {
			return nil, err
		}
	}
	lead.Status = leads.Status(status)
	if source.Valid {
		lead.Source = source.String
	}
	if updatedAt.Valid {
		lead.UpdatedAt = updatedAt.Time
	}
	return lead, nil
}
