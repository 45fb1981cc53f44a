package meta

import "github.com/MrJamesThe3rd/adpulse/internal/report"

// deriveMetrics fills in link CTR for exports that only carry clicks and impressions.
func deriveMetrics(r *report.Record) {
	if _, ok := r.Metrics[report.FieldCTRLink]; ok {
		return
	}

	clicks, ok := r.Metrics[report.FieldLinkClicks]
	if !ok {
		return
	}

	impressions, ok := r.Metrics[report.FieldImpressions]
	if !ok || impressions <= 0 {
		return
	}

	r.Metrics[report.FieldCTRLink] = clicks / impressions * 100
}
