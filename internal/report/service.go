package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	ListRecords(ctx context.Context, filter ListFilter) ([]Record, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate string) (ImportTx, error)
}

type ImportTx interface {
	FindExisting(ctx context.Context, records []Record) ([]Record, error)
	CreateRecords(ctx context.Context, records []Record) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListFilter narrows a listing. Dates are inclusive YYYY-MM-DD bounds.
type ListFilter struct {
	StartDate *string
	EndDate   *string
	Campaign  *string
}

// List returns stored records newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	SortByDateDesc(records)

	return records, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRecord(ctx, id)
}

type ImportResult struct {
	Imported  []Record
	New       []Record
	Conflicts []Conflict
}

// Conflict pairs an incoming record with a stored one for the same date and campaign.
type Conflict struct {
	Incoming Record
	Existing Record
}

// ImportBatch stores records unless some of them already exist for the same
// date and campaign. On conflict nothing is written and the caller decides
// which records to keep via CreateBatch. Records of one batch that share a date
// and campaign, as in breakdown exports, are all stored.
func (s *Service) ImportBatch(ctx context.Context, records []Record) (*ImportResult, error) {
	if len(records) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(records)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	existing, err := itx.FindExisting(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("find existing: %w", err)
	}

	lookup := make(map[dayKey]Record, len(existing))
	for _, r := range existing {
		lookup[keyOf(r)] = r
	}

	var fresh []Record

	var conflicts []Conflict

	for _, r := range records {
		if stored, found := lookup[keyOf(r)]; found {
			conflicts = append(conflicts, Conflict{Incoming: r, Existing: stored})
			continue
		}

		fresh = append(fresh, r)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: fresh, Conflicts: conflicts}, nil
	}

	if err := itx.CreateRecords(ctx, fresh); err != nil {
		return nil, fmt.Errorf("create records: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: fresh}, nil
}

// CreateBatch stores records without a conflict check. Stored records for the
// same date and campaign are replaced.
func (s *Service) CreateBatch(ctx context.Context, records []Record) ([]Record, error) {
	if len(records) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(records)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("create records: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return records, nil
}

type dayKey struct {
	Date     string
	Campaign string
}

func keyOf(r Record) dayKey {
	return dayKey{Date: r.Date, Campaign: r.CampaignName}
}

func dateRange(records []Record) (string, string) {
	minDate := records[0].Date
	maxDate := records[0].Date

	for _, r := range records[1:] {
		if r.Date < minDate {
			minDate = r.Date
		}

		if r.Date > maxDate {
			maxDate = r.Date
		}
	}

	return minDate, maxDate
}
