package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads a row in selectRecordColumns order.
func scanRecord(s scanner) (report.Record, error) {
	var r report.Record

	var campaign, delivery sql.NullString

	var metrics []byte

	if err := s.Scan(&r.ID, &r.Date, &campaign, &delivery, &metrics); err != nil {
		return report.Record{}, err
	}

	r.CampaignName = campaign.String
	r.Delivery = delivery.String

	if err := json.Unmarshal(metrics, &r.Metrics); err != nil {
		return report.Record{}, fmt.Errorf("decoding metrics: %w", err)
	}

	return r, nil
}

const selectRecordColumns = `r.id, r.date, r.campaign_name, r.delivery, r.metrics`

func (s *Store) ListRecords(ctx context.Context, filter report.ListFilter) ([]report.Record, error) {
	query := `SELECT ` + selectRecordColumns + `
		FROM kpi_records r
		WHERE r.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND r.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND r.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Campaign != nil {
		query += fmt.Sprintf(" AND r.campaign_name = $%d", argIdx)

		args = append(args, *filter.Campaign)
		argIdx++
	}

	query += " ORDER BY r.date DESC, r.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []report.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

func (s *Store) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE kpi_records
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	if n == 0 {
		return report.ErrNotFound
	}

	return nil
}

func importLockKey(minDate, maxDate string) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate))
	h.Write([]byte{0})
	h.Write([]byte(maxDate))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens a transaction holding an advisory lock for the date range,
// so two uploads of the same export cannot both pass the existence check.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate string) (report.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindExisting(ctx context.Context, records []report.Record) ([]report.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}

	minDate := records[0].Date
	maxDate := records[0].Date
	keySet := make(map[recordKey]struct{}, len(records))

	for _, r := range records {
		minDate = min(minDate, r.Date)
		maxDate = max(maxDate, r.Date)

		keySet[recordKey{Date: r.Date, Campaign: r.CampaignName}] = struct{}{}
	}

	query := `SELECT ` + selectRecordColumns + `
		FROM kpi_records r
		WHERE r.deleted_at IS NULL AND r.date >= $1 AND r.date <= $2
		ORDER BY r.date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding existing records: %w", err)
	}
	defer rows.Close()

	var existing []report.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		if _, found := keySet[recordKey{Date: r.Date, Campaign: r.CampaignName}]; !found {
			continue
		}

		existing = append(existing, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating existing rows: %w", err)
	}

	return existing, nil
}

type recordKey struct {
	Date     string
	Campaign string
}

// distinctKeys returns the date and campaign pairs of records in first-seen order.
func distinctKeys(records []report.Record) []recordKey {
	seen := make(map[recordKey]struct{}, len(records))
	keys := make([]recordKey, 0, len(records))

	for _, r := range records {
		k := recordKey{Date: r.Date, Campaign: r.CampaignName}
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	return keys
}

// CreateRecords inserts records. Stored records for the same date and campaign
// are superseded; records sharing a key within the batch are all kept.
func (itx *importTx) CreateRecords(ctx context.Context, records []report.Record) error {
	supersede := `
		UPDATE kpi_records
		SET deleted_at = NOW()
		WHERE date = $1 AND campaign_name IS NOT DISTINCT FROM $2 AND deleted_at IS NULL
	`

	for _, k := range distinctKeys(records) {
		if _, err := itx.tx.ExecContext(ctx, supersede, k.Date, nullString(k.Campaign)); err != nil {
			return fmt.Errorf("superseding records: %w", err)
		}
	}

	query := `
		INSERT INTO kpi_records (id, date, campaign_name, delivery, metrics, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	for _, r := range records {
		metrics, err := json.Marshal(r.Metrics)
		if err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}

		if _, err := itx.tx.ExecContext(ctx, query,
			r.ID,
			r.Date,
			nullString(r.CampaignName),
			nullString(r.Delivery),
			string(metrics),
		); err != nil {
			return fmt.Errorf("creating record: %w", err)
		}
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
