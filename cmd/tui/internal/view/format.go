package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

const dbTimeout = 5 * time.Second

// FormatMetric renders a metric with two decimals, or "-" when the export had no value.
func FormatMetric(r report.Record, f report.Field) string {
	v, ok := r.Metric(f)
	if !ok {
		return "-"
	}

	return decimal.NewFromFloat(v).StringFixed(2)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
