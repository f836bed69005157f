package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPort, "port %q not declared", "in9")

	if err.Code != ErrCodeInvalidPort {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidPort)
	}

	if err.Message != `port "in9" not declared` {
		t.Errorf("Message = %v, want %v", err.Message, `port "in9" not declared`)
	}

	expected := `INVALID_PORT: port "in9" not declared`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("division by zero")
	err := Wrap(ErrCodeCalculation, cause, "unit %s", "hx1")

	if err.Code != ErrCodeCalculation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCalculation)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "CALCULATION_FAILED: unit hx1: division by zero"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeNotReady, "test"),
			code:     ErrCodeNotReady,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeNotReady, "test"),
			code:     ErrCodeCyclicDependency,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeCyclicDependency, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeCyclicDependency,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidFractions, "test"),
			expected: ErrCodeInvalidFractions,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "wrapped Error",
			err:      Wrap(ErrCodeCalculation, New(ErrCodeNotReady, "missing inlet"), "unit r1"),
			expected: "unit r1: missing inlet",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsConfiguration(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidPort, true},
		{ErrCodeInvalidFractions, true},
		{ErrCodeCyclicDependency, true},
		{ErrCodeNotReady, false},
		{ErrCodeCalculation, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsConfiguration(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsConfiguration(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}

	if IsConfiguration(errors.New("plain")) {
		t.Error("IsConfiguration(plain) = true, want false")
	}
}
