package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nakool/upgrade-notify/internal/domain/entity"
	"github.com/nakool/upgrade-notify/internal/domain/valueobject"

	_ "github.com/lib/pq"
)

// PostgresRunRepository implements repository.RunRepository for
// PostgreSQL.
type PostgresRunRepository struct {
	db *sql.DB
}

// NewPostgresRunRepository creates a new PostgreSQL repository.
func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{
		db: db,
	}
}

// runModel mirrors one row of the upgrade_runs table.
type runModel struct {
	ID             string
	Host           string
	Status         string
	RebootRequired bool
	Subject        string
	ThreadID       sql.NullString
	NotifiedAt     time.Time
	CreatedAt      time.Time
}

// Save stores one run record.
func (r *PostgresRunRepository) Save(ctx context.Context, record *entity.RunRecord) error {
	model := toDBModel(record)

	query := `
		INSERT INTO upgrade_runs (id, host, status, reboot_required, subject, thread_id, notified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		model.ID,
		model.Host,
		model.Status,
		model.RebootRequired,
		model.Subject,
		model.ThreadID,
		model.NotifiedAt,
		model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	return nil
}

// FindRecentByHost returns the newest records for a host, most recent
// first.
func (r *PostgresRunRepository) FindRecentByHost(ctx context.Context, host string, limit int) ([]*entity.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, host, status, reboot_required, subject, thread_id, notified_at, created_at
		FROM upgrade_runs
		WHERE host = $1
		ORDER BY notified_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, host, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	var records []*entity.RunRecord
	for rows.Next() {
		var model runModel
		if err := rows.Scan(
			&model.ID,
			&model.Host,
			&model.Status,
			&model.RebootRequired,
			&model.Subject,
			&model.ThreadID,
			&model.NotifiedAt,
			&model.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		records = append(records, fromDBModel(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run records: %w", err)
	}

	return records, nil
}

// DeleteOlderThan removes records notified before the cutoff.
func (r *PostgresRunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM upgrade_runs WHERE notified_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old run records: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted run records: %w", err)
	}

	return deleted, nil
}

func toDBModel(record *entity.RunRecord) runModel {
	return runModel{
		ID:             record.ID(),
		Host:           record.Host(),
		Status:         string(record.Status()),
		RebootRequired: record.RebootRequired(),
		Subject:        record.Subject(),
		ThreadID:       sql.NullString{String: record.ThreadID(), Valid: record.ThreadID() != ""},
		NotifiedAt:     record.NotifiedAt(),
		CreatedAt:      record.CreatedAt(),
	}
}

func fromDBModel(model runModel) *entity.RunRecord {
	return entity.ReconstructRunRecord(
		model.ID,
		model.Host,
		valueobject.UpdateStatus(model.Status),
		model.RebootRequired,
		model.Subject,
		model.ThreadID.String,
		model.NotifiedAt,
		model.CreatedAt,
	)
}
