package record_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/adpulse/internal/http/record"
	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

func newRouter(t *testing.T) (http.Handler, *report.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/records", record.NewHandler(report.NewService(repo)).Routes)

	return r, repo
}

func TestHandler_List(t *testing.T) {
	router, repo := newRouter(t)

	start, campaign := "2025-06-01", "Summer"
	repo.EXPECT().
		ListRecords(gomock.Any(), report.ListFilter{StartDate: &start, Campaign: &campaign}).
		Return([]report.Record{
			{ID: uuid.New(), Date: "2025-06-01", CampaignName: "Summer", Metrics: map[report.Field]float64{report.FieldSpend: 10}},
			{ID: uuid.New(), Date: "2025-06-02", CampaignName: "Summer", Metrics: map[report.Field]float64{}},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/records/?start_date=2025-06-01&campaign=Summer", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []record.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "2025-06-02", got[0].Date)
	assert.Equal(t, 10.0, got[1].Metrics["spend"])
}

func TestHandler_ListError(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().ListRecords(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		path     string
		repoErr  error
		callRepo bool
		wantCode int
	}{
		{name: "Deleted", path: "/records/" + id.String(), callRepo: true, wantCode: http.StatusNoContent},
		{name: "NotFound", path: "/records/" + id.String(), callRepo: true, repoErr: report.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "RepoError", path: "/records/" + id.String(), callRepo: true, repoErr: errors.New("boom"), wantCode: http.StatusInternalServerError},
		{name: "InvalidID", path: "/records/not-a-uuid", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t)

			if tt.callRepo {
				repo.EXPECT().DeleteRecord(gomock.Any(), id).Return(tt.repoErr)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Summary(t *testing.T) {
	router, repo := newRouter(t)

	end := "2025-06-30"
	repo.EXPECT().
		ListRecords(gomock.Any(), report.ListFilter{EndDate: &end}).
		Return([]report.Record{
			{Date: "2025-06-01", Metrics: map[report.Field]float64{report.FieldSpend: 50, report.FieldPurchases: 5}},
			{Date: "2025-06-02", Metrics: map[report.Field]float64{report.FieldSpend: 50}},
		}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records/summary?end_date=2025-06-30", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got record.SummaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 2, got.Days)
	assert.Equal(t, 100.0, got.Totals["spend"])
	assert.Equal(t, 20.0, got.Ratios["cpa"])
}

func TestFromResponse_DropsUnknownMetrics(t *testing.T) {
	got := record.FromResponse(record.Response{
		Date:    "2025-06-01",
		Metrics: map[string]float64{"spend": 5, "bogus": 1},
	})

	assert.Equal(t, map[report.Field]float64{report.FieldSpend: 5}, got.Metrics)
}
