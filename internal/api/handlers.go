package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"

	"statkit/adapters/tabular"
	"statkit/domain/core"
	"statkit/domain/report"
	"statkit/domain/table"
	apperrors "statkit/internal/errors"
	"statkit/stattest"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart CSV upload plus a target column and
// returns a stored analysis report.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ds, err := s.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.InvalidInput(err.Error()))
		return
	}

	target := r.FormValue("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, apperrors.InvalidInput("target is required"))
		return
	}

	alpha := s.config.Analysis.DefaultAlpha
	if raw := r.FormValue("alpha"); raw != "" {
		alpha, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, apperrors.InvalidInput("alpha must be a number"))
			return
		}
	}

	result, err := stattest.NewAnalyzer(io.Discard).AnalyzeFeatures(ds, target, alpha)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	rep := report.New(target, alpha, result.Significant, result.NonSignificant)
	if s.repo != nil {
		if err := s.repo.Save(r.Context(), rep); err != nil {
			s.logger.Error("save report %s: %v", rep.ID, err)
			writeError(w, http.StatusInternalServerError,
				apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "failed to persist report")))
			return
		}
	}

	s.logger.Info("analyzed target %q: %d significant, %d non-significant",
		target, len(result.Significant), len(result.NonSignificant))
	writeJSON(w, http.StatusCreated, rep)
}

// handleRunTest accepts a multipart CSV upload plus one or two feature
// names and runs a single hypothesis test on them.
func (s *Server) handleRunTest(w http.ResponseWriter, r *http.Request) {
	ds, err := s.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.InvalidInput(err.Error()))
		return
	}

	feature1 := r.FormValue("feature1")
	if feature1 == "" {
		writeError(w, http.StatusBadRequest, apperrors.InvalidInput("feature1 is required"))
		return
	}
	feature2 := r.FormValue("feature2")

	opts := stattest.ExecOptions{
		Paired:  r.FormValue("paired") == "true",
		Missing: stattest.MissingStrategy(r.FormValue("missing")),
	}

	if r.FormValue("detailed") == "true" {
		summary, err := stattest.ExecuteTestDetailed(ds, feature1, feature2, opts)
		if err != nil {
			s.writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	}

	result, err := stattest.ExecuteTest(ds, feature1, feature2, opts)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"test":  result.Test.String(),
		"stats": result.Stats,
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, http.StatusNotFound, apperrors.NotFound("report"))
		return
	}

	id := core.ID(chi.URLParam(r, "id"))
	rep, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrReportNotFound) {
			writeError(w, http.StatusNotFound, apperrors.NotFound("report"))
			return
		}
		s.logger.Error("get report %s: %v", id, err)
		writeError(w, http.StatusInternalServerError,
			apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "failed to load report")))
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(markdown.ToHTML([]byte(rep.Markdown()), nil, nil))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeJSON(w, http.StatusOK, []*report.Report{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, apperrors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	reports, err := s.repo.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list reports: %v", err)
		writeError(w, http.StatusInternalServerError,
			apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "failed to list reports")))
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// readUpload extracts the uploaded file field and parses it as CSV
func (s *Server) readUpload(r *http.Request) (*table.Dataset, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("expected multipart form with a file field")
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("file field is required")
	}
	defer file.Close()

	return tabular.FromCSV(file)
}

// writeEngineError maps engine sentinels onto HTTP statuses and AppError
// codes. Column and configuration problems are the caller's fault, the rest
// are ours.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case core.IsColumnError(err):
		writeError(w, http.StatusBadRequest, apperrors.WithCode(apperrors.CodeUnknownColumn, err))
	case errors.Is(err, core.ErrInvalidConfiguration),
		errors.Is(err, core.ErrEmptySample):
		writeError(w, http.StatusBadRequest, apperrors.WithCode(apperrors.CodeInvalidInput, err))
	case errors.Is(err, core.ErrUnsupportedTest),
		errors.Is(err, core.ErrUndeterminedTest),
		errors.Is(err, core.ErrAnovaTypeMismatch):
		writeError(w, http.StatusUnprocessableEntity, apperrors.WithCode(apperrors.CodeUnsupportedTest, err))
	default:
		s.logger.Error("test execution: %v", err)
		writeError(w, http.StatusInternalServerError, apperrors.WithCode(apperrors.CodeInternalError, err))
	}
}

// errorBody is the wire form of an error response
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]errorBody{
		"error": {Code: apperrors.GetCode(err), Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
