package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

func rec(date, campaign string, spend float64) report.Record {
	return report.Record{
		ID:           uuid.New(),
		Date:         date,
		CampaignName: campaign,
		Metrics:      map[report.Field]float64{report.FieldSpend: spend},
	}
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *report.MockRepository)
		wantDates []string
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "SortedNewestFirst",
			setupMock: func(m *report.MockRepository) {
				m.EXPECT().
					ListRecords(gomock.Any(), report.ListFilter{}).
					Return([]report.Record{
						rec("2025-06-01", "A", 1),
						rec("2025-06-03", "A", 3),
						rec("2025-06-02", "A", 2),
					}, nil)
			},
			wantDates: []string{"2025-06-03", "2025-06-02", "2025-06-01"},
		},
		{
			name: "RepoError",
			setupMock: func(m *report.MockRepository) {
				m.EXPECT().
					ListRecords(gomock.Any(), report.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := report.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := report.NewService(repo).List(context.Background(), report.ListFilter{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			dates := make([]string, len(got))
			for i, r := range got {
				dates[i] = r.Date
			}

			assert.Equal(t, tt.wantDates, dates)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := report.NewMockRepository(ctrl)
	repo.EXPECT().DeleteRecord(gomock.Any(), id).Return(report.ErrNotFound)

	err := report.NewService(repo).Delete(context.Background(), id)
	assert.ErrorIs(t, err, report.ErrNotFound)
}

func TestService_ImportBatch(t *testing.T) {
	summerJune1 := rec("2025-06-01", "Summer", 100)
	summerJune2 := rec("2025-06-02", "Summer", 200)
	winterJune1 := rec("2025-06-01", "Winter", 50)

	type testCase struct {
		name          string
		records       []report.Record
		setupMock     func(repo *report.MockRepository, itx *report.MockImportTx)
		wantImported  int
		wantNew       int
		wantConflicts int
		wantErr       bool
	}

	tests := []testCase{
		{
			name:    "Empty",
			records: nil,
			setupMock: func(_ *report.MockRepository, _ *report.MockImportTx) {
			},
		},
		{
			name:    "AllNew",
			records: []report.Record{summerJune1, summerJune2},
			setupMock: func(repo *report.MockRepository, itx *report.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), "2025-06-01", "2025-06-02").Return(itx, nil)
				itx.EXPECT().FindExisting(gomock.Any(), gomock.Len(2)).Return(nil, nil)
				itx.EXPECT().CreateRecords(gomock.Any(), gomock.Len(2)).Return(nil)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantImported: 2,
		},
		{
			name:    "SameDayAndCampaignInBatchKeptTogether",
			records: []report.Record{summerJune1, rec("2025-06-01", "Summer", 40)},
			setupMock: func(repo *report.MockRepository, itx *report.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), "2025-06-01", "2025-06-01").Return(itx, nil)
				itx.EXPECT().FindExisting(gomock.Any(), gomock.Len(2)).Return(nil, nil)
				itx.EXPECT().CreateRecords(gomock.Any(), gomock.Len(2)).Return(nil)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantImported: 2,
		},
		{
			name:    "Conflict",
			records: []report.Record{summerJune1, winterJune1},
			setupMock: func(repo *report.MockRepository, itx *report.MockImportTx) {
				stored := rec("2025-06-01", "Summer", 90)

				repo.EXPECT().BeginImport(gomock.Any(), "2025-06-01", "2025-06-01").Return(itx, nil)
				itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).Return([]report.Record{stored}, nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantNew:       1,
			wantConflicts: 1,
		},
		{
			name:    "BeginError",
			records: []report.Record{summerJune1},
			setupMock: func(repo *report.MockRepository, _ *report.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name:    "CreateError",
			records: []report.Record{summerJune1},
			setupMock: func(repo *report.MockRepository, itx *report.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).Return(nil, nil)
				itx.EXPECT().CreateRecords(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := report.NewMockRepository(ctrl)
			itx := report.NewMockImportTx(ctrl)
			tt.setupMock(repo, itx)

			got, err := report.NewService(repo).ImportBatch(context.Background(), tt.records)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Imported, tt.wantImported)
			assert.Len(t, got.New, tt.wantNew)
			assert.Len(t, got.Conflicts, tt.wantConflicts)
		})
	}
}

func TestService_ImportBatchConflictPairs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	incoming := rec("2025-06-01", "Summer", 100)
	stored := rec("2025-06-01", "Summer", 90)

	repo := report.NewMockRepository(ctrl)
	itx := report.NewMockImportTx(ctrl)

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).Return([]report.Record{stored}, nil)
	itx.EXPECT().Rollback().Return(nil)

	got, err := report.NewService(repo).ImportBatch(context.Background(), []report.Record{incoming})
	require.NoError(t, err)
	require.Len(t, got.Conflicts, 1)

	assert.Equal(t, incoming.ID, got.Conflicts[0].Incoming.ID)
	assert.Equal(t, stored.ID, got.Conflicts[0].Existing.ID)
	assert.Empty(t, got.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	records := []report.Record{rec("2025-06-02", "A", 1), rec("2025-05-30", "B", 2)}

	repo := report.NewMockRepository(ctrl)
	itx := report.NewMockImportTx(ctrl)

	repo.EXPECT().BeginImport(gomock.Any(), "2025-05-30", "2025-06-02").Return(itx, nil)
	itx.EXPECT().CreateRecords(gomock.Any(), records).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	got, err := report.NewService(repo).CreateBatch(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSortByDateDesc(t *testing.T) {
	records := []report.Record{
		{Date: "2025-01-02", CampaignName: "first"},
		{Date: "2025-01-03"},
		{Date: "2025-01-02", CampaignName: "second"},
	}

	report.SortByDateDesc(records)

	assert.Equal(t, "2025-01-03", records[0].Date)
	assert.Equal(t, "first", records[1].CampaignName)
	assert.Equal(t, "second", records[2].CampaignName)
}
