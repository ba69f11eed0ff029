// Package errors provides application error types for Issueboard.
//
// This package defines:
//   - AppError type with error classification
//   - Error constructors for common error types
//   - Error type checking helpers
//   - HTTP status code mapping
//
// Note that the issue API itself answers logical failures with fixed
// messages in a 200 body; the status codes here apply to the rest of
// the surface (health, transport-level errors).
//
// Create errors using constructor functions:
//
//	return apperrors.NotFound("issue")
//	return apperrors.Validation("required field(s) missing")
//
// Check error types:
//
//	if apperrors.IsNotFound(err) {
//	    // Handle not found
//	}
package errors
