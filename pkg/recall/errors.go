// Package recall holds the error taxonomy shared by the service and HTTP
// layers.
//
// Three kinds of failure exist. Validation errors (missing or malformed
// required fields) wrap ErrValidation and surface as HTTP 400. Storage
// failures are wrapped with context and surface as 500; they are not retried.
// "Nothing matched" on soft-delete or promotion is a normal outcome reported
// through a boolean or count, never an error.
package recall

import (
	"context"
	"errors"
	"strings"
)

// ErrValidation marks errors caused by bad caller input. Wrap it with
// fmt.Errorf("%w: ...") and test with errors.Is.
var ErrValidation = errors.New("validation failed")

// Error type constants for classification
const (
	ErrTypeValidation = "validation"
	ErrTypeTimeout    = "timeout"
	ErrTypeDatabase   = "database"
	ErrTypeUnknown    = "unknown"
)

// ClassifyError inspects an error and returns its type classification.
// This enables grouping errors by category in metrics.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrValidation) {
		return ErrTypeValidation
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(errStrLower, "timeout") {
		return ErrTypeTimeout
	}

	if strings.Contains(errStrLower, "sql") ||
		strings.Contains(errStrLower, "database") ||
		strings.Contains(errStrLower, "constraint") {
		return ErrTypeDatabase
	}

	return ErrTypeUnknown
}
