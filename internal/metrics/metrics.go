package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Import holds the counters fed by every parsed export.
type Import struct {
	Records         *prometheus.CounterVec
	DroppedRows     *prometheus.CounterVec
	UnmappedHeaders *prometheus.CounterVec
	CoercedCells    *prometheus.CounterVec
}

// NewImport creates the import counters and registers them with reg.
func NewImport(reg prometheus.Registerer) *Import {
	m := &Import{
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adpulse",
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Records kept after parsing an export.",
		}, []string{"profile", "format"}),
		DroppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adpulse",
			Subsystem: "import",
			Name:      "dropped_rows_total",
			Help:      "Data rows dropped by the retention rules.",
		}, []string{"profile", "reason"}),
		UnmappedHeaders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adpulse",
			Subsystem: "import",
			Name:      "unmapped_headers_total",
			Help:      "Header cells that matched no canonical field.",
		}, []string{"profile"}),
		CoercedCells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adpulse",
			Subsystem: "import",
			Name:      "coerced_cells_total",
			Help:      "Numeric cells recovered as zero.",
		}, []string{"profile"}),
	}

	reg.MustRegister(m.Records, m.DroppedRows, m.UnmappedHeaders, m.CoercedCells)

	return m
}
