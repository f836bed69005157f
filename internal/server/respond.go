package server

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/multierr"

	"github.com/matzehuels/flowsheet/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

// StatusCode maps an engine error to an HTTP status.
func StatusCode(err error) int {
	if errors.IsConfiguration(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnitNotFound, errors.ErrCodeStreamNotFound,
		errors.ErrCodeNotReady, errors.ErrCodeCalculation:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case goerrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// respondError writes err with its mapped status. Internal errors are not
// echoed to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	resp := ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	}
	if errs := multierr.Errors(err); len(errs) > 1 {
		resp.Error = "definition has errors"
		for _, e := range errs {
			resp.Details = append(resp.Details, errors.UserMessage(e))
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", resp.RequestID)
		resp.Error = "internal error"
		resp.Details = nil
	}
	s.respondJSON(w, status, resp)
}
