package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

func metrics(kv ...any) map[report.Field]float64 {
	m := make(map[report.Field]float64)
	for i := 0; i < len(kv); i += 2 {
		m[kv[i].(report.Field)] = kv[i+1].(float64)
	}

	return m
}

func TestSummarize(t *testing.T) {
	records := []report.Record{
		{Date: "2025-06-01", CampaignName: "A", Metrics: metrics(
			report.FieldSpend, 100.10, report.FieldImpressions, 1000.0,
			report.FieldLinkClicks, 20.0, report.FieldPurchases, 2.0, report.FieldRevenue, 400.0,
			report.FieldCTRLink, 9.9,
		)},
		{Date: "2025-06-01", CampaignName: "B", Metrics: metrics(
			report.FieldSpend, 99.90, report.FieldImpressions, 3000.0, report.FieldLinkClicks, 20.0,
		)},
		{Date: "2025-06-02", CampaignName: "A", Metrics: metrics(report.FieldReach, 500.0)},
	}

	s := report.Summarize(records)

	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 2, s.Days)
	assert.Equal(t, 200.0, s.Totals[report.FieldSpend])
	assert.Equal(t, 4000.0, s.Totals[report.FieldImpressions])
	assert.NotContains(t, s.Totals, report.FieldReach)
	assert.NotContains(t, s.Totals, report.FieldCTRLink)

	assert.Equal(t, 1.0, s.Ratios[report.RatioCTRLink])
	assert.Equal(t, 5.0, s.Ratios[report.RatioCPCLink])
	assert.Equal(t, 50.0, s.Ratios[report.RatioCPM])
	assert.Equal(t, 100.0, s.Ratios[report.RatioCPA])
	assert.Equal(t, 2.0, s.Ratios[report.RatioROAS])
}

func TestSummarize_ZeroDivisor(t *testing.T) {
	s := report.Summarize([]report.Record{
		{Date: "2025-06-01", Metrics: metrics(report.FieldSpend, 10.0, report.FieldPurchases, 0.0)},
	})

	assert.NotContains(t, s.Ratios, report.RatioCPA)
	assert.NotContains(t, s.Ratios, report.RatioROAS)
}

func TestSummarize_Empty(t *testing.T) {
	s := report.Summarize(nil)

	assert.Zero(t, s.Records)
	assert.Zero(t, s.Days)
	assert.Empty(t, s.Totals)
	assert.Empty(t, s.Ratios)
}

func TestService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	repo.EXPECT().ListRecords(gomock.Any(), report.ListFilter{}).
		Return([]report.Record{rec("2025-06-01", "A", 12.5)}, nil)
	repo.EXPECT().ListRecords(gomock.Any(), report.ListFilter{}).
		Return(nil, errors.New("db down"))

	svc := report.NewService(repo)

	s, err := svc.Summary(context.Background(), report.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 12.5, s.Totals[report.FieldSpend])

	_, err = svc.Summary(context.Background(), report.ListFilter{})
	assert.Error(t, err)
}
