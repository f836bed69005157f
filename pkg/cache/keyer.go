package cache

// Keyer generates cache keys.
type Keyer interface {
	// SolveKey identifies a solve result by definition hash and solver options.
	SolveKey(definitionHash string, opts SolveKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a solved flowsheet.
	ArtifactKey(solveHash string, opts ArtifactKeyOpts) string
}

// SolveKeyOpts holds the solver options that change a solve result.
type SolveKeyOpts struct {
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
	Method        string  `json:"method"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces "<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey generates a key for solve result caching.
func (DefaultKeyer) SolveKey(definitionHash string, opts SolveKeyOpts) string {
	return hashKey("solve", definitionHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (DefaultKeyer) ArtifactKey(solveHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solveHash, opts)
}

var _ Keyer = DefaultKeyer{}
