package solver

import (
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/flowsheet/pkg/errors"
)

// Default option values.
const (
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
	DefaultMethod        = MethodNewton
)

// Method names an iteration scheme. All methods currently run the same
// direct-substitution loop.
type Method string

const (
	MethodNewton  Method = "newton"
	MethodSecant  Method = "secant"
	MethodBroyden Method = "broyden"
)

var validate = validator.New()

// Options configures a solve. Zero values are replaced by defaults in
// [Options.WithDefaults].
type Options struct {
	MaxIterations int     `json:"maxIterations,omitempty" toml:"max_iterations" bson:"maxIterations,omitempty" validate:"gt=0"`
	Tolerance     float64 `json:"tolerance,omitempty" toml:"tolerance" bson:"tolerance,omitempty" validate:"gt=0"`
	Method        Method  `json:"method,omitempty" toml:"method" bson:"method,omitempty" validate:"oneof=newton secant broyden"`
	Damping       float64 `json:"damping,omitempty" toml:"damping" bson:"damping,omitempty" validate:"gte=0"`
	StepSize      float64 `json:"stepSize,omitempty" toml:"step_size" bson:"stepSize,omitempty" validate:"gte=0"`
}

// DefaultOptions returns options with all defaults applied.
func DefaultOptions() Options {
	return Options{}.WithDefaults()
}

// WithDefaults returns a copy with zero fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !goerrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid solver options")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fieldMessage(fe)
	}
	return errors.New(errors.ErrCodeInvalidOptions, "invalid solver options: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// ParseMethod converts a string to a Method. The empty string yields the
// default method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(s)); m {
	case "":
		return DefaultMethod, nil
	case MethodNewton, MethodSecant, MethodBroyden:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOptions, "unknown method %q (must be newton, secant or broyden)", s)
}
