// Package visits provides the concrete SQL-based implementation of
// the visit repository.
package visits

import (
	"time"

	"github.com/sellermetrics/leadstack-go/internal/domain/session"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/persistence/database"
)

// SQLVisitRepository is the SQL-based implementation of the VisitRepository.
type SQLVisitRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLVisitRepository creates a new instance of the repository.
func NewSQLVisitRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLVisitRepository {
	return &SQLVisitRepository{
		db:     db,
		logger: logger,
	}
}

// Store saves a new Visit to the database.
func (r *SQLVisitRepository) Store(visit *session.Visit) error {
	const query = `
		INSERT INTO visits (id, session_id, campaign_source, campaign_medium, http_referrer, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing visit insert", "id", visit.ID, "sessionId", visit.SessionID)

	_, err := r.db.Exec(
		query,
		visit.ID,
		visit.SessionID,
		visit.CampaignSource,
		visit.CampaignMedium,
		visit.HTTPReferrer,
		visit.CreatedAt,
	)
	if err != nil {
		r.logger.Database().Error("Visit insert failed", "error", err.Error(), "id", visit.ID, "sessionId", visit.SessionID)
		return err
	}

	r.logger.Database().Info("Visit insert completed", "id", visit.ID, "sessionId", visit.SessionID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// FindBySessionID retrieves every Visit for a session, oldest first.
func (r *SQLVisitRepository) FindBySessionID(sessionID string) ([]*session.Visit, error) {
	const query = `
		SELECT id, session_id, campaign_source, campaign_medium, http_referrer, created_at
		FROM visits
		WHERE session_id = ?
		ORDER BY created_at`

	start := time.Now()
	r.logger.Database().Debug("Loading visits by session", "sessionId", sessionID)

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		r.logger.Database().Error("Failed to load visits", "error", err.Error(), "sessionId", sessionID)
		return nil, err
	}
	defer rows.Close()

	var visits []*session.Visit
	for rows.Next() {
		var visit session.Visit
		if err := rows.Scan(
			&visit.ID,
			&visit.SessionID,
			&visit.CampaignSource,
			&visit.CampaignMedium,
			&visit.HTTPReferrer,
			&visit.CreatedAt,
		); err != nil {
			r.logger.Database().Error("Failed to scan visit row", "error", err.Error())
			return nil, err
		}
		visits = append(visits, &visit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Info("Visits loaded", "sessionId", sessionID, "count", len(visits), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return visits, nil
}
