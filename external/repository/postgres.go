package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scanColumns = `id, file_name, status, transcript, speaker_name, confidence, error_message, started_at, ended_at, created_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// SaveScan upserts by session id; a scan is written once per terminal state.
func (r *PostgresRepository) SaveScan(ctx context.Context, input repository.SaveScanInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO speaker_scans (id, file_name, status, transcript, speaker_name, confidence, error_message, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   status = EXCLUDED.status,
		   transcript = EXCLUDED.transcript,
		   speaker_name = EXCLUDED.speaker_name,
		   confidence = EXCLUDED.confidence,
		   error_message = EXCLUDED.error_message,
		   ended_at = EXCLUDED.ended_at`,
		input.ID, input.FileName, string(input.Status), input.Transcript, input.SpeakerName,
		input.Confidence, input.ErrorMessage, input.StartedAt, input.EndedAt)
	return err
}

func (r *PostgresRepository) ListScans(ctx context.Context, limit int) ([]repository.ScanRecord, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + scanColumns + ` FROM speaker_scans ORDER BY started_at DESC`)
	args := []any{}
	if limit > 0 {
		sb.WriteString(` LIMIT $1`)
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.ScanRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) GetScan(ctx context.Context, id string) (*repository.ScanRecord, error) {
	// ids are uuids; anything else cannot match a row
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+scanColumns+` FROM speaker_scans WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func scanRecord(row pgx.Row) (repository.ScanRecord, error) {
	var rec repository.ScanRecord
	var status string
	err := row.Scan(&rec.ID, &rec.FileName, &status, &rec.Transcript, &rec.SpeakerName,
		&rec.Confidence, &rec.ErrorMessage, &rec.StartedAt, &rec.EndedAt, &rec.CreatedAt)
	rec.Status = repository.ScanStatus(status)
	return rec, err
}
