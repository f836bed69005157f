package errors

import (
	"math"
	"strings"
	"unicode"
)

// FractionTolerance is the allowed deviation of a fraction list from 1.0.
const FractionTolerance = 0.001

// maxIDLength bounds unit, stream and material identifiers.
const maxIDLength = 128

// ValidateID validates a unit, stream or material identifier.
// Identifiers end up in derived stream ids (e.g. "<unit>_out") and DOT output,
// so the rules are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No quotes or backslashes
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s id %q contains whitespace or control characters", kind, id)
		}
	}

	if strings.ContainsAny(id, "\"'\\") {
		return New(ErrCodeInvalidInput, "%s id %q contains quotes or backslashes", kind, id)
	}

	return nil
}

// ValidateFraction checks that v is a finite number in [0, 1].
// name identifies the parameter in the error message.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s must be a finite number", name)
	}
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidParameter, "%s must be between 0 and 1, got %g", name, v)
	}
	return nil
}

// ValidateFractions checks that a split list is non-empty, has no negative
// entries and sums to 1 within FractionTolerance.
func ValidateFractions(fractions []float64) error {
	if len(fractions) == 0 {
		return New(ErrCodeInvalidFractions, "fractions cannot be empty")
	}

	var sum float64
	for i, f := range fractions {
		if math.IsNaN(f) || f < 0 {
			return New(ErrCodeInvalidFractions, "fraction %d must be non-negative, got %g", i, f)
		}
		sum += f
	}

	if math.Abs(sum-1.0) > FractionTolerance {
		return New(ErrCodeInvalidFractions, "fractions must sum to 1.0 (±%g), got %g", FractionTolerance, sum)
	}

	return nil
}
