package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// additiveFields are summed across records. Ratios and reach are not additive.
var additiveFields = []Field{
	FieldSpend,
	FieldImpressions,
	FieldLinkClicks,
	FieldClicksAll,
	FieldLandingPageViews,
	FieldATC,
	FieldATCValue,
	FieldCheckouts,
	FieldPurchases,
	FieldRevenue,
}

// Summary aggregates a set of records for the KPI view.
type Summary struct {
	Records int
	Days    int
	Totals  map[Field]float64
	// Ratios are recomputed from Totals. A ratio is missing when its divisor is zero.
	Ratios map[string]float64
}

const (
	RatioCTRLink = "ctrLink"
	RatioCPCLink = "cpcLink"
	RatioCPM     = "cpm"
	RatioCPA     = "cpa"
	RatioROAS    = "roas"
)

// Summarize totals the additive metrics of records and derives the headline ratios.
func Summarize(records []Record) Summary {
	sums := make(map[Field]decimal.Decimal, len(additiveFields))
	days := make(map[string]struct{})

	for _, r := range records {
		days[r.Date] = struct{}{}

		for _, f := range additiveFields {
			v, ok := r.Metric(f)
			if !ok {
				continue
			}

			sums[f] = sums[f].Add(decimal.NewFromFloat(v))
		}
	}

	s := Summary{
		Records: len(records),
		Days:    len(days),
		Totals:  make(map[Field]float64, len(sums)),
		Ratios:  make(map[string]float64),
	}

	for f, d := range sums {
		s.Totals[f] = d.InexactFloat64()
	}

	hundred := decimal.NewFromInt(100)
	thousand := decimal.NewFromInt(1000)

	ratio := func(name string, num, den Field, scale decimal.Decimal) {
		n, okN := sums[num]
		d, okD := sums[den]
		if !okN || !okD || d.IsZero() {
			return
		}

		s.Ratios[name] = n.Mul(scale).Div(d).Round(4).InexactFloat64()
	}

	one := decimal.NewFromInt(1)

	ratio(RatioCTRLink, FieldLinkClicks, FieldImpressions, hundred)
	ratio(RatioCPCLink, FieldSpend, FieldLinkClicks, one)
	ratio(RatioCPM, FieldSpend, FieldImpressions, thousand)
	ratio(RatioCPA, FieldSpend, FieldPurchases, one)
	ratio(RatioROAS, FieldRevenue, FieldSpend, one)

	return s
}

// Summary aggregates the records matching filter.
func (s *Service) Summary(ctx context.Context, filter ListFilter) (Summary, error) {
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return Summary{}, fmt.Errorf("list records: %w", err)
	}

	return Summarize(records), nil
}
