package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/preenlabs/preen/internal/loader"
	"github.com/preenlabs/preen/internal/logger"
	"github.com/preenlabs/preen/internal/output"
	"github.com/preenlabs/preen/pkg/cleaner"
	"github.com/preenlabs/preen/pkg/profile"
	"github.com/preenlabs/preen/pkg/report"
)

// runResponse is the payload for a created or fetched run.
type runResponse struct {
	ID                string          `json:"id"`
	Filename          string          `json:"filename"`
	CreatedAt         time.Time       `json:"created_at"`
	RowsBefore        int             `json:"rows_before"`
	RowsAfter         int             `json:"rows_after"`
	DuplicatesRemoved int             `json:"duplicates_removed"`
	Audit             json.RawMessage `json:"audit"`
}

// storyRequest selects the narrative style for a run.
type storyRequest struct {
	Style string `json:"style"`
}

type storyResponse struct {
	ID    string `json:"id"`
	Style string `json:"style"`
	Story string `json:"story"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleCreateRun accepts a multipart upload ("file", plus an optional
// "profile" YAML field), cleans it, persists the run, and returns the
// audit.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	var prof *profile.Profile
	if text := r.FormValue("profile"); text != "" {
		prof, err = profile.FromYAML([]byte(text))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	ds, err := loader.New().LoadBytes(data, loader.Detect(header.Filename, header.Header.Get("Content-Type"), data))
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	ds, audit, err := prof.Pipeline().Run(ds)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("cleaning failed: %v", err))
		return
	}

	var csvBuf bytes.Buffer
	dw, err := output.NewDatasetWriter(&csvBuf, output.FormatCSV)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if err := dw.WriteDataset(ds); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if err := dw.Close(); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	auditJSON, err := json.Marshal(audit)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	run := &Run{
		ID:                uuid.NewString(),
		Filename:          header.Filename,
		CreatedAt:         time.Now().UTC(),
		RowsBefore:        audit.RowsBefore,
		RowsAfter:         audit.RowsAfter,
		DuplicatesRemoved: audit.DuplicatesRemoved,
		AuditJSON:         auditJSON,
		CleanedCSV:        csvBuf.Bytes(),
	}
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		logger.ErrorContext(r.Context(), "failed to persist run", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "failed to persist run")
		return
	}

	logger.InfoContext(r.Context(), "run created",
		"id", run.ID,
		"filename", run.Filename,
		"rows_before", run.RowsBefore,
		"rows_after", run.RowsAfter)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toRunResponse(run))
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []*Run{}
	}
	render.JSON(w, r, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, toRunResponse(run))
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cleaned.csv"`)
	_, _ = w.Write(run.CleanedCSV)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	audit, err := decodeAudit(run)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "stored audit is unreadable")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report.md"`)
	_, _ = io.WriteString(w, report.Markdown(audit))
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	var req storyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, http.StatusBadRequest, "invalid story request body")
		return
	}

	audit, err := decodeAudit(run)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "stored audit is unreadable")
		return
	}

	style := report.ParseStyle(req.Style)
	render.JSON(w, r, storyResponse{
		ID:    run.ID,
		Style: string(style),
		Story: s.preen.Story(r.Context(), audit, style),
	})
}

// loadRun resolves the runID URL parameter, writing the error response
// itself when the run cannot be served.
func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*Run, bool) {
	id := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, "run not found")
		return nil, false
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to load run", "id", id, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "failed to load run")
		return nil, false
	}
	return run, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func toRunResponse(run *Run) runResponse {
	return runResponse{
		ID:                run.ID,
		Filename:          run.Filename,
		CreatedAt:         run.CreatedAt,
		RowsBefore:        run.RowsBefore,
		RowsAfter:         run.RowsAfter,
		DuplicatesRemoved: run.DuplicatesRemoved,
		Audit:             json.RawMessage(run.AuditJSON),
	}
}

func decodeAudit(run *Run) (*cleaner.Audit, error) {
	var a cleaner.Audit
	if err := json.Unmarshal(run.AuditJSON, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
