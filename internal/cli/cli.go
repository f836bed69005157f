// Package cli implements the flowsheet command-line interface.
//
// # Commands
//
//   - solve: solve a flowsheet definition and report streams and units
//   - validate: check a definition without solving it
//   - export: convert a definition between TOML and JSON, optionally solved
//   - render: draw a solved flowsheet as SVG, PNG, PDF or DOT
//   - materials: list the built-in material presets
//   - browse: explore solved streams interactively
//   - cache: manage the local result cache
//   - serve: run the HTTP API
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowsheet/pkg/buildinfo"
	"github.com/matzehuels/flowsheet/pkg/cache"
	"github.com/matzehuels/flowsheet/pkg/pipeline"
	"github.com/matzehuels/flowsheet/pkg/solver"
)

// appName is the application name used for directories and display.
const appName = "flowsheet"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    printer
	errw   io.Writer
}

// New creates a CLI that prints results to stdout and logs to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		out:    printer{w: stdout},
		errw:   stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "flowsheet solves steady-state chemical process flowsheets",
		Long:          `flowsheet builds process flowsheets from TOML or JSON definitions, solves them by sequential modular iteration and reports stream properties, unit duties and diagrams.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out.w)
	root.SetErr(c.errw)

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.materialsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/flowsheet/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// solverFlags are the solver overrides shared by solve, render, export and
// browse. Zero values keep the definition's [solver] table.
type solverFlags struct {
	maxIterations int
	tolerance     float64
	method        string
}

func (f *solverFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxIterations, "max-iterations", 0, "maximum solver iterations (default from definition, else 100)")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", 0, "convergence tolerance in kg/s (default from definition, else 1e-6)")
	cmd.Flags().StringVar(&f.method, "method", "", "solver method: newton, secant, broyden")
}

func (f *solverFlags) options() solver.Options {
	return solver.Options{
		MaxIterations: f.maxIterations,
		Tolerance:     f.tolerance,
		Method:        solver.Method(strings.ToLower(f.method)),
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
