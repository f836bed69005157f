package server

import (
	"bytes"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/flowsheet/pkg/errors"
	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/pipeline"
	"github.com/matzehuels/flowsheet/pkg/solver"
)

// RunOptions are the solve and render settings shared by the solve routes.
type RunOptions struct {
	Solver   solver.Options `json:"solver" validate:"-"`
	Formats  []string       `json:"formats,omitempty" validate:"omitempty,dive,oneof=svg png pdf dot json"`
	Detailed bool           `json:"detailed,omitempty"`
	Scale    float64        `json:"scale,omitempty" validate:"gte=0,lte=10"`
	Refresh  bool           `json:"refresh,omitempty"`
	Strict   bool           `json:"strict,omitempty"`
}

func (o RunOptions) pipeline(def *fio.Definition) pipeline.Options {
	return pipeline.Options{
		Definition: def,
		Solver:     o.Solver,
		Formats:    o.Formats,
		Detailed:   o.Detailed,
		Scale:      o.Scale,
		Refresh:    o.Refresh,
		Strict:     o.Strict,
	}
}

// SolveRequest is the body of POST /api/solve.
type SolveRequest struct {
	Definition json.RawMessage `json:"definition" validate:"required"`
	RunOptions
}

// ValidateRequest is the body of POST /api/validate.
type ValidateRequest struct {
	Definition json.RawMessage `json:"definition" validate:"required"`
}

// ExportRequest is the body of POST /api/export.
type ExportRequest struct {
	Definition json.RawMessage `json:"definition" validate:"required"`
	Format     string          `json:"format,omitempty" validate:"omitempty,oneof=toml json"`
	// Solved exports the converged streams instead of the given ones.
	Solved bool           `json:"solved,omitempty"`
	Solver solver.Options `json:"solver" validate:"-"`
}

// SaveRequest is the body of POST /api/flowsheets.
type SaveRequest struct {
	ID         string          `json:"id,omitempty" validate:"omitempty,uuid4"`
	Definition json.RawMessage `json:"definition" validate:"required"`
}

// decode reads a JSON body into v and validates it. An empty body leaves v
// at its zero value when allowEmpty is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 && allowEmpty {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body")
	}

	if err := s.validate.Struct(v); err != nil {
		return requestError(err)
	}
	return nil
}

func requestError(err error) error {
	var verrs validator.ValidationErrors
	if !goerrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fmt.Sprintf("%s is required", fe.Field())
		case "oneof":
			msgs[i] = fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
		case "uuid4":
			msgs[i] = fmt.Sprintf("%s must be a UUID, got %q", fe.Field(), fe.Value())
		default:
			msgs[i] = fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid request: %s", strings.Join(msgs, "; "))
}
