package record

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

// Response is the JSON shape of a record. Absent metrics are left out.
type Response struct {
	ID           uuid.UUID          `json:"id"`
	Date         string             `json:"date"`
	CampaignName string             `json:"campaign_name,omitempty"`
	Delivery     string             `json:"delivery,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
}

func ToResponse(r report.Record) Response {
	metrics := make(map[string]float64, len(r.Metrics))
	for f, v := range r.Metrics {
		metrics[string(f)] = v
	}

	return Response{
		ID:           r.ID,
		Date:         r.Date,
		CampaignName: r.CampaignName,
		Delivery:     r.Delivery,
		Metrics:      metrics,
	}
}

func ToResponseList(records []report.Record) []Response {
	resp := make([]Response, len(records))
	for i, r := range records {
		resp[i] = ToResponse(r)
	}

	return resp
}

// FromResponse converts a client-sent record back. Unknown metric keys are dropped.
func FromResponse(resp Response) report.Record {
	known := make(map[report.Field]struct{}, len(report.MetricFields))
	for _, f := range report.MetricFields {
		known[f] = struct{}{}
	}

	metrics := make(map[report.Field]float64, len(resp.Metrics))

	for k, v := range resp.Metrics {
		if _, ok := known[report.Field(k)]; ok {
			metrics[report.Field(k)] = v
		}
	}

	return report.Record{
		ID:           resp.ID,
		Date:         resp.Date,
		CampaignName: resp.CampaignName,
		Delivery:     resp.Delivery,
		Metrics:      metrics,
	}
}

type SummaryResponse struct {
	Records int                `json:"records"`
	Days    int                `json:"days"`
	Totals  map[string]float64 `json:"totals"`
	Ratios  map[string]float64 `json:"ratios"`
}

func ToSummaryResponse(s report.Summary) SummaryResponse {
	totals := make(map[string]float64, len(s.Totals))
	for f, v := range s.Totals {
		totals[string(f)] = v
	}

	ratios := s.Ratios
	if ratios == nil {
		ratios = map[string]float64{}
	}

	return SummaryResponse{
		Records: s.Records,
		Days:    s.Days,
		Totals:  totals,
		Ratios:  ratios,
	}
}
