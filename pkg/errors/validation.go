package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateExtent checks that a container has a positive, finite size.
// A failure is a layout error: nothing can be placed in such a container.
func ValidateExtent(what string, w, h float64) error {
	if !finite(w) || !finite(h) {
		return Layout("%s: extent %gx%g is not finite", what, w, h)
	}
	if w <= 0 || h <= 0 {
		return Layout("%s: extent %gx%g must be positive", what, w, h)
	}
	return nil
}

// ValidatePositive checks that v is finite and strictly greater than zero.
func ValidatePositive(what string, v float64) error {
	if !finite(v) {
		return Shape("%s: value %g is not finite", what, v)
	}
	if v <= 0 {
		return Shape("%s: value %g must be positive", what, v)
	}
	return nil
}

// ValidateNonNegative checks that v is finite and not below zero.
func ValidateNonNegative(what string, v float64) error {
	if !finite(v) {
		return Shape("%s: value %g is not finite", what, v)
	}
	if v < 0 {
		return Shape("%s: value %g must not be negative", what, v)
	}
	return nil
}

// ValidateFinite checks that v is neither NaN nor infinite.
func ValidateFinite(what string, v float64) error {
	if !finite(v) {
		return Shape("%s: value %g is not finite", what, v)
	}
	return nil
}

// ValidateID validates a node identifier.
//
// The rules are conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateID(what, id string) error {
	if strings.TrimSpace(id) == "" {
		return Shape("%s: id cannot be empty", what)
	}
	if len(id) > 256 {
		return Shape("%s: id too long (max 256 characters)", what)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return Shape("%s: id contains invalid control characters", what)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
