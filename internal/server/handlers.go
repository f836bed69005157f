package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/matzehuels/flowsheet/pkg/buildinfo"
	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/flowsheet"
	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/material"
	"github.com/matzehuels/flowsheet/pkg/pipeline"
	"github.com/matzehuels/flowsheet/pkg/render"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

// SolveResponse is the body of a successful solve. Artifacts are base64
// encoded by format.
type SolveResponse struct {
	RunID     string            `json:"runId"`
	Result    *pipeline.Result  `json:"result"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

// InvalidResponse is returned when a definition decodes but the flowsheet
// fails structural validation.
type InvalidResponse struct {
	ErrorResponse
	Validation flowsheet.ValidationReport `json:"validation"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) materials(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, material.Defaults())
}

func (s *Server) solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := s.decode(w, r, &req, false); err != nil {
		s.respondError(w, r, err)
		return
	}
	def, err := s.runner.Load(r.Context(), req.Definition, fio.FormatJSON)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.execute(w, r, req.RunOptions.pipeline(def))
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	runID := uuid.NewString()
	opts.Logger = s.logger.With("run", runID)

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		if res != nil && !res.Validation.Valid {
			s.respondJSON(w, http.StatusBadRequest, InvalidResponse{
				ErrorResponse: ErrorResponse{
					Error: "invalid flowsheet",
					Code:  string(errors.GetCode(err)),
				},
				Validation: res.Validation,
			})
			return
		}
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, SolveResponse{RunID: runID, Result: res, Artifacts: res.Artifacts})
}

func (s *Server) validateDefinition(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := s.decode(w, r, &req, false); err != nil {
		s.respondError(w, r, err)
		return
	}
	def, err := fio.Decode(req.Definition, fio.FormatJSON)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	report := flowsheet.ValidationReport{Errors: []string{}, Warnings: []string{}}
	if err := def.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			report.Errors = append(report.Errors, errors.UserMessage(e))
		}
		s.respondJSON(w, http.StatusOK, report)
		return
	}
	eng, err := s.runner.Build(def)
	if err != nil {
		report.Errors = append(report.Errors, errors.UserMessage(err))
		s.respondJSON(w, http.StatusOK, report)
		return
	}
	s.respondJSON(w, http.StatusOK, eng.ValidateFlowsheet())
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := s.decode(w, r, &req, false); err != nil {
		s.respondError(w, r, err)
		return
	}
	def, err := s.runner.Load(r.Context(), req.Definition, fio.FormatJSON)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if req.Solved {
		opts := pipeline.Options{Definition: def, Solver: req.Solver}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			s.respondError(w, r, err)
			return
		}
		eng, err := s.runner.Build(def)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if _, err := eng.Solve(r.Context(), opts.Solver); err != nil {
			s.respondError(w, r, err)
			return
		}
		solved := fio.FromEngine(eng)
		solved.Description = def.Description
		solved.Solver = def.Solver
		def = solved
	}

	format := fio.FormatJSON
	if req.Format != "" {
		format = fio.Format(req.Format)
	}
	var buf bytes.Buffer
	if err := fio.Write(&buf, def, format); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func contentType(f fio.Format) string {
	if f == fio.FormatTOML {
		return "application/toml"
	}
	return "application/json"
}

func (s *Server) saveFlowsheet(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := s.decode(w, r, &req, false); err != nil {
		s.respondError(w, r, err)
		return
	}
	def, err := s.runner.Load(r.Context(), req.Definition, fio.FormatJSON)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.store.Save(r.Context(), req.ID, def)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.logger.Info("saved flowsheet", "id", rec.ID, "name", rec.Name)
	s.respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) listFlowsheets(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, recs)
}

func (s *Server) getFlowsheet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteFlowsheet(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) solveFlowsheet(w http.ResponseWriter, r *http.Request) {
	var opts RunOptions
	if err := s.decode(w, r, &opts, true); err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.execute(w, r, opts.pipeline(rec.Definition))
}

// diagram renders a stored flowsheet. ?detailed=true adds parameters and
// stream values, ?scale sets the PNG scale.
func (s *Server) diagram(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "diagram"))
		return
	}
	opts := RunOptions{Formats: []string{string(format)}}
	q := r.URL.Query()
	if v := q.Get("detailed"); v != "" {
		if opts.Detailed, err = strconv.ParseBool(v); err != nil {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "detailed must be a boolean, got %q", v))
			return
		}
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil || opts.Scale <= 0 {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %q", v))
			return
		}
	}

	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts.pipeline(rec.Definition))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}
