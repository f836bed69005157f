package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowsheet/pkg/cache"
	"github.com/matzehuels/flowsheet/pkg/errors"
	"github.com/matzehuels/flowsheet/pkg/flowsheet"
	fio "github.com/matzehuels/flowsheet/pkg/io"
	"github.com/matzehuels/flowsheet/pkg/observability"
	"github.com/matzehuels/flowsheet/pkg/solver"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Load decodes and validates a definition.
func (r *Runner) Load(ctx context.Context, data []byte, format fio.Format) (*fio.Definition, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, string(format))
	start := time.Now()

	def, err := fio.Decode(data, format)
	if err == nil {
		err = def.Validate()
	}

	units := 0
	if def != nil {
		units = len(def.Units)
	}
	hooks.OnLoadComplete(ctx, string(format), units, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded definition", "name", def.Name, "format", format, "units", units)
	return def, nil
}

// LoadFile reads and validates a definition file.
func (r *Runner) LoadFile(ctx context.Context, path string) (*fio.Definition, error) {
	format, err := fio.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	def, err := r.Load(ctx, data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Build constructs an engine from a definition.
func (r *Runner) Build(def *fio.Definition) (*flowsheet.Engine, error) {
	return fio.Build(def, r.Logger)
}

// Execute runs the complete pipeline. Validation findings are attached to
// the result and never block the solve; with Options.Strict a structurally
// invalid flowsheet returns the partial result and an INVALID_INPUT error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	defHash, err := cache.HashJSON(opts.Definition)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode definition")
	}
	result := &Result{
		DefinitionHash: defHash,
		Artifacts:      make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	eng, err := fio.Build(opts.Definition, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.UnitCount = len(opts.Definition.Units)
	result.Stats.ConnectionCount = len(opts.Definition.Connections)

	// Stage 2: Validate
	result.Validation = eng.ValidateFlowsheet()
	result.Visualization = eng.ExportForVisualization()
	if !result.Validation.Valid {
		if opts.Strict {
			return result, errors.New(errors.ErrCodeInvalidInput, "invalid flowsheet: %s", strings.Join(result.Validation.Errors, "; "))
		}
		logger.Warn("solving invalid flowsheet", "name", opts.Definition.Name, "errors", len(result.Validation.Errors))
	}

	// Stage 3: Solve
	solveStart := time.Now()
	res, hit, err := r.solve(ctx, eng, result.DefinitionHash, opts)
	if err != nil {
		return result, err
	}
	result.Process = res
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.StreamCount = len(res.Streams)
	result.CacheInfo.SolveHit = hit
	if hit {
		result.Visualization.Streams = res.Streams
	} else {
		result.Visualization = eng.ExportForVisualization()
	}

	logger.Info("solved flowsheet",
		"name", opts.Definition.Name,
		"converged", res.Converged,
		"iterations", res.Iterations,
		"cached", hit,
		"duration", result.Stats.SolveTime)

	// Stage 4: Render
	if len(opts.Formats) == 0 {
		return result, nil
	}
	renderStart := time.Now()
	artifacts, renderHit, err := r.render(ctx, result, opts)
	if err != nil {
		return result, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) solve(ctx context.Context, eng *flowsheet.Engine, defHash string, opts Options) (*solver.Result, bool, error) {
	key := r.Keyer.SolveKey(defHash, opts.SolveKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached solver.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				hooks.OnCacheHit(ctx, key)
				return &cached, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, key)
	}

	res, err := eng.Solve(ctx, opts.Solver)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.SolveTTL); err == nil {
			hooks.OnCacheSet(ctx, key, len(data))
		} else {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return res, false, nil
}

func (r *Runner) render(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	processJSON, err := json.Marshal(result.Process)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	solveHash := cache.Hash(append([]byte(result.DefinitionHash), processJSON...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(solveHash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, result, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(solveHash, opts.ArtifactKeyOpts(format)), data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// EncodeResult writes the JSON report of a result (without binary artifacts).
func EncodeResult(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := fio.WriteJSON(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
