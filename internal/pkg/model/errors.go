package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fredbi/symptoms/internal/pkg/colour"
)

var (
	// ErrInvalid is matched by every [ValidationError].
	ErrInvalid = errors.New("invalid input")

	// ErrNoAnswerKind reports a trackable built without answer data.
	ErrNoAnswerKind = errors.New("trackable has no answer kind")
)

// ValidationError reports user input that cannot be committed. The raw input is kept so that
// it can be shown back, uncommitted, until corrected.
type ValidationError struct {
	Field string
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s: %q", e.Field, e.Input)
	}

	return fmt.Sprintf("invalid %s: %q: %v", e.Field, e.Input, e.Err)
}

// Is makes errors.Is(err, ErrInvalid) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, input string, err error) error {
	return &ValidationError{Field: field, Input: input, Err: err}
}

// checkColour only lets palette colours through, spelled the way they are persisted.
func checkColour(c colour.Colour) error {
	if !c.IsValid() {
		return invalid("colour", string(c), colour.ErrUnknownColour)
	}

	return nil
}

// ParseMultiplier parses a multiplier typed by the user. It never coerces bad input to a default.
func ParseMultiplier(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, invalid("multiplier", raw, errors.New("not a number"))
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid("multiplier", raw, errors.New("not a finite number"))
	}

	return v, nil
}
