package meta

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	enc "github.com/MrJamesThe3rd/adpulse/internal/encoding"
	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

// IDGenerator returns the synthetic identifier of a new record.
type IDGenerator func() uuid.UUID

// Parser turns Ads Manager exports into records. It holds no mutable state
// and is safe for concurrent use.
type Parser struct {
	profile Profile
	newID   IDGenerator
}

type Option func(*Parser)

// WithIDGenerator replaces the default time-ordered UUID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(p *Parser) {
		p.newID = g
	}
}

func NewParser(profile Profile, opts ...Option) *Parser {
	p := &Parser{
		profile: profile,
		newID:   newTimeOrderedID,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Parser) Profile() Profile {
	return p.profile
}

// Result is the output of one parse. Records keep input row order.
type Result struct {
	Records     []report.Record
	Diagnostics Diagnostics
}

// Diagnostics counts what a parse silently skipped.
type Diagnostics struct {
	DataRows        int
	UnmappedHeaders []string
	DroppedNoDate   int
	DroppedNoData   int
	DroppedInactive int
	CoercedCells    int
}

func (d Diagnostics) Dropped() int {
	return d.DroppedNoDate + d.DroppedNoData + d.DroppedInactive
}

// Parse decodes r to UTF-8 and parses it as CSV. Only read errors are returned.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	body, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	return p.ParseText(string(body)), nil
}

// ParseText parses a whole CSV document. Fewer than two non-blank lines give
// an empty result.
func (p *Parser) ParseText(text string) *Result {
	lines := SplitLines(text)
	if len(lines) < 2 {
		return &Result{}
	}

	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = SplitFields(line)
	}

	return p.ParseRows(rows)
}

// ParseRows builds records from a header row followed by data rows.
func (p *Parser) ParseRows(rows [][]string) *Result {
	res := &Result{}
	if len(rows) < 2 {
		return res
	}

	columns, unmapped := p.profile.Vocabulary.Resolve(rows[0], p.profile.Match)
	res.Diagnostics.UnmappedHeaders = unmapped

	for _, row := range rows[1:] {
		res.Diagnostics.DataRows++

		rec, ok := p.buildRecord(columns, row, &res.Diagnostics)
		if !ok {
			continue
		}

		res.Records = append(res.Records, rec)
	}

	return res
}

// buildRecord assembles one row and applies the retention rules.
func (p *Parser) buildRecord(columns []Column, row []string, diag *Diagnostics) (report.Record, bool) {
	rec := report.Record{Metrics: make(map[report.Field]float64)}

	hasData := false

	for _, col := range columns {
		v, ok := NormalizeValue(col.Field, cellValue(row, col.Index))
		if !ok {
			continue
		}

		if v.Coerced {
			diag.CoercedCells++
		}

		switch col.Field {
		case report.FieldDate:
			rec.Date = v.Text
			continue
		case report.FieldCampaignName:
			rec.CampaignName = v.Text
		case report.FieldDelivery:
			rec.Delivery = v.Text
		default:
			rec.Metrics[col.Field] = v.Number
		}

		hasData = true
	}

	switch {
	case rec.Date == "":
		diag.DroppedNoDate++
		return report.Record{}, false
	case !hasData:
		diag.DroppedNoData++
		return report.Record{}, false
	case p.profile.RequireActive && rec.Delivery != report.DeliveryActive:
		diag.DroppedInactive++
		return report.Record{}, false
	}

	rec.ID = p.newID()
	deriveMetrics(&rec)

	return rec, true
}

// cellValue safely gets a cell; short rows read as empty.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return row[idx]
}

func newTimeOrderedID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}

	return id
}
