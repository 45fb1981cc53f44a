package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/adpulse/internal/http/auth"
	"github.com/MrJamesThe3rd/adpulse/internal/http/record"
	"github.com/MrJamesThe3rd/adpulse/internal/importer"
	"github.com/MrJamesThe3rd/adpulse/internal/importer/meta"
	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

type Handler struct {
	importSvc     *importer.Service
	reportSvc     *report.Service
	maxUploadSize int64
}

func NewHandler(importSvc *importer.Service, reportSvc *report.Service, maxUploadSize int64) *Handler {
	return &Handler{
		importSvc:     importSvc,
		reportSvc:     reportSvc,
		maxUploadSize: maxUploadSize,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importExport)
	r.Post("/confirm", h.confirmImport)
}

type diagnosticsResponse struct {
	DataRows        int      `json:"data_rows"`
	UnmappedHeaders []string `json:"unmapped_headers"`
	DroppedNoDate   int      `json:"dropped_no_date"`
	DroppedNoData   int      `json:"dropped_no_data"`
	DroppedInactive int      `json:"dropped_inactive"`
	CoercedCells    int      `json:"coerced_cells"`
}

type parseResponse struct {
	Records     []record.Response   `json:"records"`
	Diagnostics diagnosticsResponse `json:"diagnostics"`
}

type importSuccessResponse struct {
	Imported    int                 `json:"imported"`
	Records     []record.Response   `json:"records"`
	Diagnostics diagnosticsResponse `json:"diagnostics"`
}

type conflictDTO struct {
	Incoming record.Response `json:"incoming"`
	Existing record.Response `json:"existing"`
}

type importConflictResponse struct {
	New         []record.Response   `json:"new"`
	Conflicts   []conflictDTO       `json:"conflicts"`
	Diagnostics diagnosticsResponse `json:"diagnostics"`
}

type confirmRequest struct {
	Records []record.Response `json:"records"`
}

func (h *Handler) importExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = formatFromName(header.Filename)
	}

	res, err := h.importSvc.Import(format, r.FormValue("profile"), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	diag := toDiagnostics(res.Diagnostics)

	if dryRun, _ := strconv.ParseBool(r.FormValue("dry_run")); dryRun {
		writeJSON(w, http.StatusOK, parseResponse{
			Records:     record.ToResponseList(res.Records),
			Diagnostics: diag,
		})

		return
	}

	result, err := h.reportSvc.ImportBatch(r.Context(), res.Records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:         record.ToResponseList(result.New),
			Conflicts:   make([]conflictDTO, 0, len(result.Conflicts)),
			Diagnostics: diag,
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: record.ToResponse(c.Incoming),
				Existing: record.ToResponse(c.Existing),
			})
		}

		writeJSON(w, http.StatusConflict, resp)

		return
	}

	slog.Info("stored import",
		"subject", auth.Subject(r.Context()),
		"file", header.Filename,
		"imported", len(result.Imported),
	)

	writeJSON(w, http.StatusCreated, importSuccessResponse{
		Imported:    len(result.Imported),
		Records:     record.ToResponseList(result.Imported),
		Diagnostics: diag,
	})
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	records := make([]report.Record, 0, len(req.Records))

	for _, resp := range req.Records {
		if resp.Date == "" {
			http.Error(w, "every record needs a date", http.StatusBadRequest)
			return
		}

		rec := record.FromResponse(resp)
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}

		records = append(records, rec)
	}

	stored, err := h.reportSvc.CreateBatch(r.Context(), records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("stored confirmed import", "subject", auth.Subject(r.Context()), "imported", len(stored))

	writeJSON(w, http.StatusCreated, importSuccessResponse{
		Imported: len(stored),
		Records:  record.ToResponseList(stored),
	})
}

func formatFromName(name string) importer.Format {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return importer.FormatXLSX
	}

	return importer.FormatCSV
}

func toDiagnostics(d meta.Diagnostics) diagnosticsResponse {
	unmapped := d.UnmappedHeaders
	if unmapped == nil {
		unmapped = []string{}
	}

	return diagnosticsResponse{
		DataRows:        d.DataRows,
		UnmappedHeaders: unmapped,
		DroppedNoDate:   d.DroppedNoDate,
		DroppedNoData:   d.DroppedNoData,
		DroppedInactive: d.DroppedInactive,
		CoercedCells:    d.CoercedCells,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
