// Package pipeline runs the load → build → validate → solve → render
// sequence shared by the CLI and the HTTP server. Validation findings are
// reported alongside the solve rather than blocking it, unless
// Options.Strict is set.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	def, err := runner.Load(ctx, data, fio.FormatTOML)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Definition: def,
//	    Formats:    []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Solve results are cached under a key derived from the definition's JSON
// encoding and the solver options; rendered artifacts are cached under the
// hash of the solve result and the render options. A cache hit skips the
// solve but still rebuilds the engine, since the visualization is derived
// from it.
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowsheet/pkg/cache"
	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/flowsheet"
	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/solver"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Options configures one pipeline run.
type Options struct {
	// Definition is the flowsheet to solve. Required.
	Definition *fio.Definition `json:"definition"`

	// Solver overrides the definition's solver options field by field.
	Solver solver.Options `json:"solver,omitempty"`

	// Formats lists the artifacts to render. Empty means no rendering.
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Refresh bypasses cached solve results and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Strict stops before solving when validation reports errors. By default
	// validation findings are attached to the result and the solve runs.
	Strict bool `json:"strict,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DefinitionHash is the SHA-256 of the definition's JSON encoding.
	DefinitionHash string `json:"definitionHash"`

	Validation    flowsheet.ValidationReport `json:"validation"`
	Process       *solver.Result             `json:"process"`
	Visualization flowsheet.Visualization    `json:"visualization"`

	// Artifacts maps format to rendered bytes.
	Artifacts map[string][]byte `json:"-"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	UnitCount       int           `json:"units"`
	StreamCount     int           `json:"streams"`
	ConnectionCount int           `json:"connections"`
	BuildTime       time.Duration `json:"buildTime"`
	SolveTime       time.Duration `json:"solveTime"`
	RenderTime      time.Duration `json:"renderTime"`
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	SolveHit  bool `json:"solveHit"`
	RenderHit bool `json:"renderHit"`
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields, merges solver options
// over the definition's and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Definition == nil {
		return errors.New(errors.ErrCodeInvalidInput, "definition is required")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.Solver = mergeSolverOptions(o.Definition.Solver, o.Solver).WithDefaults()
	return o.Solver.Validate()
}

func mergeSolverOptions(base, override solver.Options) solver.Options {
	if override.MaxIterations != 0 {
		base.MaxIterations = override.MaxIterations
	}
	if override.Tolerance != 0 {
		base.Tolerance = override.Tolerance
	}
	if override.Method != "" {
		base.Method = override.Method
	}
	if override.Damping != 0 {
		base.Damping = override.Damping
	}
	if override.StepSize != 0 {
		base.StepSize = override.StepSize
	}
	return base
}

// SolveKeyOpts returns cache key options for the solve stage.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		MaxIterations: o.Solver.MaxIterations,
		Tolerance:     o.Solver.Tolerance,
		Method:        string(o.Solver.Method),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

