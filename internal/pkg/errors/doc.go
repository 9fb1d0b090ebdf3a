// Package errors provides application error types for the web service.
//
// This package defines:
//   - AppError type with error classification
//   - Error constructors for the failure kinds the service can produce
//   - Error type checking helpers
//   - HTTP status code mapping
//
// # Error Types
//
//   - NotFound: Route or resource does not exist (404)
//   - BadRequest: Malformed request (400)
//   - UpstreamFailure: The upstream call failed or was faulted (502)
//   - Internal: Unexpected server error (500)
//
// # Usage
//
//	return apperrors.UpstreamFailure(url, apperrors.ReasonBadStatus).WithError(err)
//
// Check error types:
//
//	if apperrors.IsUpstreamFailure(err) {
//	    // Handle upstream failure
//	}
package errors
